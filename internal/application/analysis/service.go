package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/constrite/constrite/internal/application"
	domai "github.com/constrite/constrite/internal/domain/ai"
	"github.com/constrite/constrite/internal/domain/safety"
	"github.com/constrite/constrite/internal/domain/standards"
	"github.com/constrite/constrite/internal/infra/ai/prompt"
)

const (
	defaultMaxAttempts = 3
	defaultBackoffUnit = 2 * time.Second
)

// Service implements the analysis use-cases. One image in, one stored
// analysis out. Safe for concurrent use: the catalog is read-only and every
// request works on its own record.
type Service struct {
	Vision  domai.Client
	Catalog *standards.Catalog
	Repo    safety.Repository
	Images  safety.ImageStore
	Clock   application.Clock

	// MaxAttempts and BackoffUnit default to 3 and 2s when zero.
	MaxAttempts int
	BackoffUnit time.Duration
}

// AnalyzeCommand carries one uploaded photograph plus its site metadata.
type AnalyzeCommand struct {
	Site        safety.SiteInfo
	ImageData   []byte
	ContentType string
}

// retry loop states
type attemptState int

const (
	stateAttempting attemptState = iota
	stateBackingOff
	stateSucceeded
	stateExhausted
)

// Analyze produces one normalized AnalysisRecord from one image. It never
// returns an error: timeout exhaustion and terminal upstream failures both
// degrade to valid fallback records.
func (s *Service) Analyze(ctx context.Context, imageData []byte, contentType string) safety.AnalysisRecord {
	data, mime := downscale(imageData, contentType)

	req := domai.Request{
		SystemPrompt: prompt.GetSystemPrompt(),
		UserPrompt:   prompt.GetInspectionPrompt(s.Catalog.FormatForPrompt()),
		ImageData:    data,
		ImageMIME:    mime,
	}

	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	unit := s.BackoffUnit
	if unit <= 0 {
		unit = defaultBackoffUnit
	}

	var (
		state   = stateAttempting
		attempt = 0
		raw     string
		lastErr error
	)

	for {
		switch state {
		case stateAttempting:
			attempt++
			out, err := s.Vision.Generate(ctx, req)
			if err == nil {
				raw = out
				state = stateSucceeded
				break
			}
			lastErr = err
			if domai.Classify(err) == domai.Terminal {
				log.Printf("analysis attempt %d failed (terminal): %v", attempt, err)
				return safety.ErrorFallbackRecord(err.Error())
			}
			log.Printf("analysis attempt %d/%d timed out: %v", attempt, maxAttempts, err)
			if attempt >= maxAttempts {
				state = stateExhausted
			} else {
				state = stateBackingOff
			}

		case stateBackingOff:
			// wait = attempt_index * unit; cancellation abandons retries
			select {
			case <-ctx.Done():
				return safety.TimeoutFallbackRecord()
			case <-time.After(time.Duration(attempt) * unit):
				state = stateAttempting
			}

		case stateSucceeded:
			return safety.Normalize(raw)

		case stateExhausted:
			log.Printf("all %d attempts timed out, last error: %v", maxAttempts, lastErr)
			return safety.TimeoutFallbackRecord()
		}
	}
}

// AnalyzeAndStore runs a full analysis, assembles the derived report,
// uploads the image best-effort, and persists the result.
func (s *Service) AnalyzeAndStore(ctx context.Context, cmd AnalyzeCommand) (*safety.Analysis, *safety.Report, error) {
	record := s.Analyze(ctx, cmd.ImageData, cmd.ContentType)
	report := safety.BuildReport(record)

	id := safety.AnalysisID(uuid.New().String())

	imageURL := ""
	if s.Images != nil {
		key := fmt.Sprintf("%s/%s.jpg", siteKey(cmd.Site.SiteID), id)
		url, err := s.Images.UploadImage(ctx, cmd.ImageData, key, cmd.ContentType)
		if err != nil {
			// Image storage is best-effort; the analysis still stands.
			log.Printf("image upload failed for %s: %v", id, err)
		} else {
			imageURL = url
		}
	}

	a := &safety.Analysis{
		ID:        id,
		Site:      cmd.Site,
		CreatedAt: s.Clock.Now(),
		ImageURL:  imageURL,
		Record:    record,
		Risk:      report.Risk,
		Financial: report.Financial,
		Status:    "active",
	}

	if s.Repo != nil {
		if err := s.Repo.Save(ctx, a); err != nil {
			return a, &report, fmt.Errorf("save analysis %s: %w", id, err)
		}
	}

	return a, &report, nil
}

// Report rebuilds the full derived report for a stored analysis.
func (s *Service) Report(ctx context.Context, site string, id safety.AnalysisID) (*safety.Report, error) {
	a, err := s.Repo.Get(ctx, site, id)
	if err != nil {
		return nil, err
	}
	report := safety.BuildReport(a.Record)
	return &report, nil
}

// Get fetches one stored analysis.
func (s *Service) Get(ctx context.Context, site string, id safety.AnalysisID) (*safety.Analysis, error) {
	return s.Repo.Get(ctx, site, id)
}

// Recent lists the latest analyses for a site.
func (s *Service) Recent(ctx context.Context, site string, limit int) ([]*safety.Analysis, error) {
	return s.Repo.Recent(ctx, site, limit)
}

// CriticalSites lists recent analyses graded CRITICAL across all sites.
func (s *Service) CriticalSites(ctx context.Context, limit int) ([]*safety.Analysis, error) {
	return s.Repo.CriticalSites(ctx, limit)
}

// Statistics aggregates stored analyses for a site over the last N days.
func (s *Service) Statistics(ctx context.Context, site string, sinceDays int) (*safety.Statistics, error) {
	return s.Repo.Statistics(ctx, site, sinceDays)
}

func siteKey(siteID string) string {
	if siteID == "" {
		return "unknown"
	}
	return siteID
}
