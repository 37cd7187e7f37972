package safety

import (
	"time"
)

// AnalysisID identifier type
type AnalysisID string

// Severity enum for violations
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

// RiskLevel enum computed by the risk engine, distinct from the label the
// model returns in AnalysisRecord.RiskAssessmentLabel.
type RiskLevel string

const (
	RiskCritical RiskLevel = "CRITICAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskLow      RiskLevel = "LOW"
)

// Urgency enum for corrective deadlines
type Urgency string

const (
	UrgencyImmediate Urgency = "IMMEDIATE"
	Urgency24Hours   Urgency = "24_HOURS"
	Urgency48Hours   Urgency = "48_HOURS"
	UrgencyWeekly    Urgency = "WEEKLY"
)

// DefaultConfidence is assumed when the model omits a confidence score.
const DefaultConfidence = 85

// Violation is a single detected non-compliance, either critical or a
// warning. Immutable once produced by normalization.
type Violation struct {
	Description    string   `json:"violation"`
	Location       string   `json:"location"`
	StandardCode   string   `json:"bis_code"`
	Severity       Severity `json:"risk_level"`
	Confidence     int      `json:"confidence"`
	Recommendation string   `json:"recommendation"`
}

// AnalysisRecord is the normalized result of one image analysis. Every
// field is guaranteed present after normalization; consumers read it as-is.
type AnalysisRecord struct {
	TotalWorkers             int         `json:"total_workers"`
	WorkersCompliant         int         `json:"workers_compliant"`
	WorkersNonCompliant      int         `json:"workers_non_compliant"`
	CriticalViolations       []Violation `json:"critical_violations"`
	Warnings                 []Violation `json:"warnings"`
	CompliantItems           []string    `json:"compliant_items"`
	OverallComplianceScore   int         `json:"overall_compliance_score"`
	RiskAssessmentLabel      string      `json:"risk_assessment"`
	ImmediateActions         []string    `json:"immediate_actions"`
	EstimatedComplianceCost  string      `json:"estimated_compliance_cost"`
	PotentialFineIfInspected string      `json:"potential_fine_if_inspected"`
}

// RiskAssessment is derived from an AnalysisRecord on demand and never
// persisted as authoritative state independent of its source record.
type RiskAssessment struct {
	RiskScore            int       `json:"risk_score"`
	RiskLevel            RiskLevel `json:"risk_level"`
	Recommendation       string    `json:"recommendation"`
	ActionUrgency        Urgency   `json:"action_urgency"`
	CriticalCount        int       `json:"critical_count"`
	WarningCount         int       `json:"warning_count"`
	CompliancePercentage int       `json:"compliance_percentage"`
}

// ActionItem is one entry of a prioritized corrective plan.
type ActionItem struct {
	Priority      int    `json:"priority"`
	Urgency       string `json:"urgency"`
	Action        string `json:"action"`
	Violation     string `json:"violation"`
	Location      string `json:"location"`
	StandardCode  string `json:"bis_code"`
	EstimatedTime string `json:"estimated_time"`
	EstimatedCost string `json:"estimated_cost"`
}

// ActionPlan is an ordered sequence of ActionItem; order is the priority
// contract itself.
type ActionPlan []ActionItem

// FinancialImpact summarizes fines vs compliance spend.
type FinancialImpact struct {
	PotentialFine      float64 `json:"potential_fine"`
	ComplianceCost     float64 `json:"compliance_cost"`
	PotentialSavings   float64 `json:"potential_savings"`
	ROIPercentage      float64 `json:"roi_percentage"`
	FinancialRiskLevel string  `json:"financial_risk_level"`
}

// SiteInfo carries site metadata supplied with each uploaded photograph.
type SiteInfo struct {
	SiteID      string `json:"site_id"`
	Location    string `json:"location"`
	Contractor  string `json:"contractor"`
	ProjectType string `json:"project_type"`
}

// Aggregate root: one stored analysis of one site photograph.
type Analysis struct {
	ID        AnalysisID      `json:"id"`
	Site      SiteInfo        `json:"site"`
	CreatedAt time.Time       `json:"created_at"`
	ImageURL  string          `json:"image_url,omitempty"`
	Record    AnalysisRecord  `json:"record"`
	Risk      RiskAssessment  `json:"risk"`
	Financial FinancialImpact `json:"financial"`
	Status    string          `json:"status"`
}
