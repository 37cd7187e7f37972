package safety

import "fmt"

// Report bundles a normalized analysis with everything derived from it.
// The three derived computations are independent pure functions over the
// same immutable record and carry no ordering dependency.
type Report struct {
	Analysis  AnalysisRecord  `json:"analysis"`
	Risk      RiskAssessment  `json:"risk_assessment"`
	Actions   ActionPlan      `json:"prioritized_actions"`
	Financial FinancialImpact `json:"financial_impact"`
	Summary   ReportSummary   `json:"summary"`
}

// ReportSummary is the headline block consumed by dashboards and exports.
type ReportSummary struct {
	TotalWorkers          int       `json:"total_workers"`
	ComplianceRate        string    `json:"compliance_rate"`
	RiskLevel             RiskLevel `json:"risk_level"`
	CriticalIssues        int       `json:"critical_issues"`
	TotalWarnings         int       `json:"total_warnings"`
	ImmediateActionNeeded bool      `json:"immediate_action_needed"`
}

// BuildReport fans an AnalysisRecord out to the risk engine, action
// prioritizer and financial estimator and assembles the result.
func BuildReport(record AnalysisRecord) Report {
	risk := Score(record)
	actions := Prioritize(record)
	financial := Estimate(record)

	return Report{
		Analysis:  record,
		Risk:      risk,
		Actions:   actions,
		Financial: financial,
		Summary: ReportSummary{
			TotalWorkers:          record.TotalWorkers,
			ComplianceRate:        fmt.Sprintf("%d%%", record.OverallComplianceScore),
			RiskLevel:             risk.RiskLevel,
			CriticalIssues:        len(record.CriticalViolations),
			TotalWarnings:         len(record.Warnings),
			ImmediateActionNeeded: risk.ActionUrgency == UrgencyImmediate || risk.ActionUrgency == Urgency24Hours,
		},
	}
}
