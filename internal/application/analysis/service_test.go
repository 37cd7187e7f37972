package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/constrite/constrite/internal/domain/ai"
	"github.com/constrite/constrite/internal/domain/safety"
	"github.com/constrite/constrite/internal/domain/standards"
)

const visionResponse = `{
  "total_workers": 4,
  "workers_compliant": 2,
  "workers_non_compliant": 2,
  "critical_violations": [
    {"violation": "worker without helmet", "location": "slab edge", "bis_code": "IS_2925_1984", "risk_level": "CRITICAL", "confidence": 90, "recommendation": "issue helmets"}
  ],
  "warnings": [],
  "compliant_items": ["safety net installed"],
  "overall_compliance_score": 60,
  "risk_assessment": "HIGH",
  "immediate_actions": ["stop work at slab edge"],
  "estimated_compliance_cost": "₹10,000",
  "potential_fine_if_inspected": "₹50,000"
}`

// fakeVision replays a scripted sequence of responses and errors.
type fakeVision struct {
	calls   int
	outputs []string
	errs    []error
}

func (f *fakeVision) Generate(ctx context.Context, req domai.Request) (string, error) {
	i := f.calls
	f.calls++
	var out string
	var err error
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

type fakeRepo struct {
	saved   []*safety.Analysis
	saveErr error
}

func (f *fakeRepo) Save(ctx context.Context, a *safety.Analysis) error {
	f.saved = append(f.saved, a)
	return f.saveErr
}

func (f *fakeRepo) Get(ctx context.Context, site string, id safety.AnalysisID) (*safety.Analysis, error) {
	for _, a := range f.saved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeRepo) Recent(ctx context.Context, site string, limit int) ([]*safety.Analysis, error) {
	return f.saved, nil
}

func (f *fakeRepo) CriticalSites(ctx context.Context, limit int) ([]*safety.Analysis, error) {
	return nil, nil
}

func (f *fakeRepo) Statistics(ctx context.Context, site string, sinceDays int) (*safety.Statistics, error) {
	return &safety.Statistics{}, nil
}

type fakeImages struct {
	key string
	err error
}

func (f *fakeImages) UploadImage(ctx context.Context, data []byte, key, contentType string) (string, error) {
	f.key = key
	if f.err != nil {
		return "", f.err
	}
	return "http://images.local/" + key, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func newService(vision *fakeVision) *Service {
	return &Service{
		Vision:      vision,
		Catalog:     standards.New(nil),
		Clock:       fixedClock{at: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)},
		BackoffUnit: time.Millisecond,
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	vision := &fakeVision{outputs: []string{visionResponse}}
	svc := newService(vision)

	rec := svc.Analyze(context.Background(), []byte("not-a-real-image"), "image/jpeg")

	assert.Equal(t, 1, vision.calls)
	assert.Equal(t, 4, rec.TotalWorkers)
	assert.Equal(t, "HIGH", rec.RiskAssessmentLabel)
	require.Len(t, rec.CriticalViolations, 1)
	assert.Equal(t, "IS_2925_1984", rec.CriticalViolations[0].StandardCode)
}

func TestAnalyzeRetriesThenSucceeds(t *testing.T) {
	vision := &fakeVision{
		outputs: []string{"", visionResponse},
		errs:    []error{domai.ErrTimeout, nil},
	}
	svc := newService(vision)

	rec := svc.Analyze(context.Background(), nil, "image/jpeg")

	assert.Equal(t, 2, vision.calls)
	assert.Equal(t, 4, rec.TotalWorkers)
}

func TestAnalyzeExhaustsRetryBudget(t *testing.T) {
	vision := &fakeVision{
		errs: []error{domai.ErrTimeout, domai.ErrTimeout, domai.ErrTimeout},
	}
	svc := newService(vision)

	rec := svc.Analyze(context.Background(), nil, "image/jpeg")

	assert.Equal(t, 3, vision.calls)
	assert.Equal(t, safety.TimeoutFallbackRecord(), rec)
}

func TestAnalyzeTerminalFailureStopsImmediately(t *testing.T) {
	vision := &fakeVision{
		errs: []error{domai.ErrEmptyResponse, domai.ErrTimeout, domai.ErrTimeout},
	}
	svc := newService(vision)

	rec := svc.Analyze(context.Background(), nil, "image/jpeg")

	assert.Equal(t, 1, vision.calls)
	assert.Equal(t, "UNKNOWN", rec.RiskAssessmentLabel)
	require.Len(t, rec.Warnings, 1)
	assert.Equal(t, "ERROR", rec.Warnings[0].StandardCode)
	assert.Contains(t, rec.Warnings[0].Description, domai.ErrEmptyResponse.Error())
}

func TestAnalyzeCancellationAbandonsBackoff(t *testing.T) {
	vision := &fakeVision{
		errs: []error{domai.ErrTimeout, domai.ErrTimeout, domai.ErrTimeout},
	}
	svc := newService(vision)
	svc.BackoffUnit = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan safety.AnalysisRecord, 1)
	go func() { done <- svc.Analyze(ctx, nil, "image/jpeg") }()

	select {
	case rec := <-done:
		assert.Equal(t, 1, vision.calls)
		assert.Equal(t, safety.TimeoutFallbackRecord(), rec)
	case <-time.After(2 * time.Second):
		t.Fatal("Analyze did not return after context cancellation")
	}
}

func TestAnalyzeMaxAttemptsOverride(t *testing.T) {
	vision := &fakeVision{
		errs: []error{domai.ErrTimeout, domai.ErrTimeout, domai.ErrTimeout, domai.ErrTimeout, domai.ErrTimeout},
	}
	svc := newService(vision)
	svc.MaxAttempts = 5

	rec := svc.Analyze(context.Background(), nil, "image/jpeg")

	assert.Equal(t, 5, vision.calls)
	assert.Equal(t, safety.TimeoutFallbackRecord(), rec)
}

func TestAnalyzeAndStore(t *testing.T) {
	vision := &fakeVision{outputs: []string{visionResponse}}
	repo := &fakeRepo{}
	images := &fakeImages{}

	svc := newService(vision)
	svc.Repo = repo
	svc.Images = images

	cmd := AnalyzeCommand{
		Site:        safety.SiteInfo{SiteID: "site-42", Location: "Pune"},
		ImageData:   []byte("payload"),
		ContentType: "image/jpeg",
	}

	a, report, err := svc.AnalyzeAndStore(context.Background(), cmd)
	require.NoError(t, err)
	require.NotNil(t, a)
	require.NotNil(t, report)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "site-42", a.Site.SiteID)
	assert.Equal(t, "active", a.Status)
	assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), a.CreatedAt)
	assert.Equal(t, report.Risk, a.Risk)
	assert.Equal(t, report.Financial, a.Financial)

	assert.Contains(t, images.key, "site-42/")
	assert.Equal(t, "http://images.local/"+images.key, a.ImageURL)

	require.Len(t, repo.saved, 1)
	assert.Same(t, a, repo.saved[0])
}

func TestAnalyzeAndStoreImageUploadBestEffort(t *testing.T) {
	vision := &fakeVision{outputs: []string{visionResponse}}
	repo := &fakeRepo{}

	svc := newService(vision)
	svc.Repo = repo
	svc.Images = &fakeImages{err: errors.New("bucket unavailable")}

	a, _, err := svc.AnalyzeAndStore(context.Background(), AnalyzeCommand{
		Site:      safety.SiteInfo{SiteID: "site-42"},
		ImageData: []byte("payload"),
	})
	require.NoError(t, err)
	assert.Empty(t, a.ImageURL)
	assert.Len(t, repo.saved, 1)
}

func TestAnalyzeAndStoreSaveFailure(t *testing.T) {
	vision := &fakeVision{outputs: []string{visionResponse}}
	repo := &fakeRepo{saveErr: errors.New("connection refused")}

	svc := newService(vision)
	svc.Repo = repo

	a, report, err := svc.AnalyzeAndStore(context.Background(), AnalyzeCommand{
		Site: safety.SiteInfo{SiteID: "site-42"},
	})
	require.Error(t, err)
	assert.NotNil(t, a)
	assert.NotNil(t, report)
}

func TestAnalyzeAndStoreWithoutCollaborators(t *testing.T) {
	vision := &fakeVision{outputs: []string{visionResponse}}
	svc := newService(vision)

	a, _, err := svc.AnalyzeAndStore(context.Background(), AnalyzeCommand{})
	require.NoError(t, err)
	assert.Equal(t, "", a.ImageURL)
}
