package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/constrite/constrite/internal/application/analysis"
	"github.com/constrite/constrite/internal/domain/safety"
	"github.com/constrite/constrite/internal/domain/standards"
	"github.com/constrite/constrite/internal/middleware"
)

// maxUploadBytes caps site photograph uploads.
const maxUploadBytes = 32 << 20

type Router struct {
	svc     *appanalysis.Service
	catalog *standards.Catalog
}

// Options carries the optional surface wiring: auth keys, rate limits and
// health checkers. Zero values disable the corresponding middleware.
type Options struct {
	AuthKeys       map[string]string
	RateCapacity   int
	RateRefill     int
	HealthCheckers map[string]middleware.HealthChecker
}

func NewRouter(svc *appanalysis.Service, catalog *standards.Catalog, opts Options) http.Handler {
	r := &Router{svc: svc, catalog: catalog}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.AuthKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(opts.AuthKeys))
	}
	if opts.RateCapacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))
	}

	if len(opts.HealthCheckers) > 0 {
		mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	} else {
		mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		})
	}
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/standards", r.wrap(r.handleListStandards))
		rt.Get("/standards/{code}", r.wrap(r.handleGetStandard))
		rt.Get("/critical-sites", r.wrap(r.handleCriticalSites))

		rt.Route("/{site}", func(st chi.Router) {
			st.Post("/analyses", r.wrap(r.handleAnalyze))
			st.Get("/analyses/latest", r.wrap(r.handleLatest))
			st.Get("/analyses/{id}", r.wrap(r.handleGet))
			st.Get("/analyses/{id}/report", r.wrap(r.handleReport))
			st.Get("/summary", r.wrap(r.handleSummary))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{site}/analyses
// Multipart form: "image" file plus location/contractor/project_type
// fields. Analysis runs synchronously; degraded upstream results still
// produce a complete report.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	site := chi.URLParam(req, "site")
	if err := middleware.ValidateSiteID(site); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return nil
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return nil
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := middleware.ValidateImageType(contentType); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	cmd := appanalysis.AnalyzeCommand{
		Site: safety.SiteInfo{
			SiteID:      site,
			Location:    middleware.SanitizeString(req.FormValue("location")),
			Contractor:  middleware.SanitizeString(req.FormValue("contractor")),
			ProjectType: middleware.SanitizeString(req.FormValue("project_type")),
		},
		ImageData:   data,
		ContentType: contentType,
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	a, report, err := r.svc.AnalyzeAndStore(req.Context(), cmd)
	if err != nil {
		return err
	}
	if a.Record.RiskAssessmentLabel == "UNKNOWN" {
		middleware.IncrementAnalysesDegraded()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"analysis": a,
		"report":   report,
	})
}

// GET /v1/{site}/analyses/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	site := chi.URLParam(req, "site")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.Recent(req.Context(), site, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/{site}/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	site := chi.URLParam(req, "site")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	a, err := r.svc.Get(req.Context(), site, safety.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(a)
}

// GET /v1/{site}/analyses/{id}/report
// Rebuilds the full derived report (risk, actions, financials, summary)
// from the stored record.
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	site := chi.URLParam(req, "site")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateAnalysisID(id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	report, err := r.svc.Report(req.Context(), site, safety.AnalysisID(id))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// GET /v1/{site}/summary?days=30
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	site := chi.URLParam(req, "site")
	days, _ := strconv.Atoi(req.URL.Query().Get("days"))

	stats, err := r.svc.Statistics(req.Context(), site, middleware.ValidateDays(days))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(stats)
}

// GET /v1/critical-sites?limit=10
func (r *Router) handleCriticalSites(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.CriticalSites(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/standards?category=PPE&severity=CRITICAL
func (r *Router) handleListStandards(w http.ResponseWriter, req *http.Request) error {
	category := req.URL.Query().Get("category")
	severity := req.URL.Query().Get("severity")

	var list []standards.Standard
	if category == "" && severity == "" {
		list = r.catalog.All()
	} else {
		list = r.catalog.Search(category, severity)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"standards": list,
		"summary":   r.catalog.Summary(),
	})
}

// GET /v1/standards/{code}
func (r *Router) handleGetStandard(w http.ResponseWriter, req *http.Request) error {
	code := chi.URLParam(req, "code")

	s, ok := r.catalog.Get(code)
	if !ok {
		http.Error(w, "standard not found", http.StatusNotFound)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(s)
}
