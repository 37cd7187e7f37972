package safety

import "context"

// Statistics aggregates stored analyses for dashboards.
type Statistics struct {
	TotalAnalyses int     `json:"total_analyses"`
	AvgCompliance float64 `json:"avg_compliance"`
	AvgRiskScore  float64 `json:"avg_risk_score"`
	CriticalCount int     `json:"critical_count"`
	HighCount     int     `json:"high_count"`
	MediumCount   int     `json:"medium_count"`
	LowCount      int     `json:"low_count"`
}

// Repository port for persisting and querying analyses
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, site string, id AnalysisID) (*Analysis, error)
	Recent(ctx context.Context, site string, limit int) ([]*Analysis, error)
	CriticalSites(ctx context.Context, limit int) ([]*Analysis, error)
	Statistics(ctx context.Context, site string, sinceDays int) (*Statistics, error)
}

// ImageStore port for uploading site photographs
type ImageStore interface {
	UploadImage(ctx context.Context, data []byte, key, contentType string) (string, error)
}
