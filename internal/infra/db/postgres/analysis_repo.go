package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/constrite/constrite/internal/domain/safety"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

const analysisColumns = `
id, site_id, location, contractor, project_type, created_at, image_url, status,
total_workers, workers_compliant, workers_non_compliant, compliance_score, risk_label,
critical_violations, warnings, compliant_items, immediate_actions,
estimated_compliance_cost, potential_fine_if_inspected,
risk_score, risk_level, action_urgency, recommendation,
potential_fine, compliance_cost, potential_savings, roi_percentage, financial_risk_level`

// Save insert/update one analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO site_analyses
(id, site_id, location, contractor, project_type, created_at, image_url, status,
 total_workers, workers_compliant, workers_non_compliant, compliance_score, risk_label,
 critical_violations, warnings, compliant_items, immediate_actions,
 estimated_compliance_cost, potential_fine_if_inspected,
 risk_score, risk_level, action_urgency, recommendation,
 potential_fine, compliance_cost, potential_savings, roi_percentage, financial_risk_level)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
        $9,$10,$11,$12,$13,
        $14,$15,$16,$17,
        $18,$19,
        $20,$21,$22,$23,
        $24,$25,$26,$27,$28)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 image_url = EXCLUDED.image_url,
 risk_score = EXCLUDED.risk_score,
 risk_level = EXCLUDED.risk_level,
 action_urgency = EXCLUDED.action_urgency,
 recommendation = EXCLUDED.recommendation;`

	site := stringOrDash(a.Site.SiteID)
	status := stringOrDash(a.Status)
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, site, a.Site.Location, a.Site.Contractor, a.Site.ProjectType,
		created, a.ImageURL, status,
		a.Record.TotalWorkers, a.Record.WorkersCompliant, a.Record.WorkersNonCompliant,
		a.Record.OverallComplianceScore, a.Record.RiskAssessmentLabel,
		marshalJSON(a.Record.CriticalViolations, "[]"),
		marshalJSON(a.Record.Warnings, "[]"),
		marshalJSON(a.Record.CompliantItems, "[]"),
		marshalJSON(a.Record.ImmediateActions, "[]"),
		a.Record.EstimatedComplianceCost, a.Record.PotentialFineIfInspected,
		a.Risk.RiskScore, a.Risk.RiskLevel, a.Risk.ActionUrgency, a.Risk.Recommendation,
		a.Financial.PotentialFine, a.Financial.ComplianceCost,
		a.Financial.PotentialSavings, a.Financial.ROIPercentage, a.Financial.FinancialRiskLevel,
	)
	return err
}

// Get by ID + site
func (r *AnalysisRepository) Get(ctx context.Context, site string, id domain.AnalysisID) (*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM site_analyses WHERE site_id=$1 AND id=$2 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, site, id)
	return scanAnalysis(row.Scan)
}

// Recent analyses per site
func (r *AnalysisRepository) Recent(ctx context.Context, site string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + analysisColumns + ` FROM site_analyses WHERE site_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, site, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// CriticalSites returns the latest CRITICAL-graded analyses across sites
func (r *AnalysisRepository) CriticalSites(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT ` + analysisColumns + ` FROM site_analyses WHERE risk_level='CRITICAL' ORDER BY created_at DESC LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Statistics aggregates analyses for a site since N days. Empty site means
// all sites.
func (r *AnalysisRepository) Statistics(ctx context.Context, site string, sinceDays int) (*domain.Statistics, error) {
	if sinceDays <= 0 {
		sinceDays = 30
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*),
       COALESCE(AVG(compliance_score),0),
       COALESCE(AVG(risk_score),0),
       COALESCE(SUM(CASE WHEN risk_level='CRITICAL' THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN risk_level='HIGH' THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN risk_level='MEDIUM' THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN risk_level='LOW' THEN 1 ELSE 0 END),0)
FROM site_analyses
WHERE created_at >= $1 AND (site_id=$2 OR $2='');
`
	var st domain.Statistics
	if err := r.db.QueryRowContext(ctx, q, cut, site).Scan(
		&st.TotalAnalyses, &st.AvgCompliance, &st.AvgRiskScore,
		&st.CriticalCount, &st.HighCount, &st.MediumCount, &st.LowCount,
	); err != nil {
		return nil, err
	}
	return &st, nil
}

func collect(rows *sql.Rows) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnalysis(scan func(dest ...any) error) (*domain.Analysis, error) {
	var (
		a                                       domain.Analysis
		criticals, warnings, compliant, actions string
	)
	if err := scan(
		&a.ID, &a.Site.SiteID, &a.Site.Location, &a.Site.Contractor, &a.Site.ProjectType,
		&a.CreatedAt, &a.ImageURL, &a.Status,
		&a.Record.TotalWorkers, &a.Record.WorkersCompliant, &a.Record.WorkersNonCompliant,
		&a.Record.OverallComplianceScore, &a.Record.RiskAssessmentLabel,
		&criticals, &warnings, &compliant, &actions,
		&a.Record.EstimatedComplianceCost, &a.Record.PotentialFineIfInspected,
		&a.Risk.RiskScore, &a.Risk.RiskLevel, &a.Risk.ActionUrgency, &a.Risk.Recommendation,
		&a.Financial.PotentialFine, &a.Financial.ComplianceCost,
		&a.Financial.PotentialSavings, &a.Financial.ROIPercentage, &a.Financial.FinancialRiskLevel,
	); err != nil {
		return nil, err
	}

	_ = json.Unmarshal([]byte(criticals), &a.Record.CriticalViolations)
	_ = json.Unmarshal([]byte(warnings), &a.Record.Warnings)
	_ = json.Unmarshal([]byte(compliant), &a.Record.CompliantItems)
	_ = json.Unmarshal([]byte(actions), &a.Record.ImmediateActions)

	a.Risk.CriticalCount = len(a.Record.CriticalViolations)
	a.Risk.WarningCount = len(a.Record.Warnings)
	a.Risk.CompliancePercentage = a.Record.OverallComplianceScore

	return &a, nil
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func marshalJSON(v any, empty string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return empty
	}
	return string(b)
}
