package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	rec := AnalysisRecord{
		TotalWorkers:        12,
		WorkersCompliant:    5,
		WorkersNonCompliant: 7,
		CriticalViolations: []Violation{
			{Description: "no helmets", Severity: SeverityCritical, Recommendation: "issue helmets"},
		},
		Warnings: []Violation{
			{Description: "blocked exit", Severity: SeverityHigh, Recommendation: "clear exit"},
		},
		OverallComplianceScore:   40,
		EstimatedComplianceCost:  "₹30,000",
		PotentialFineIfInspected: "₹1,20,000",
	}

	rep := BuildReport(rec)

	assert.Equal(t, rec, rep.Analysis)
	assert.Equal(t, Score(rec), rep.Risk)
	assert.Equal(t, Prioritize(rec), rep.Actions)
	assert.Equal(t, Estimate(rec), rep.Financial)

	assert.Equal(t, 12, rep.Summary.TotalWorkers)
	assert.Equal(t, "40%", rep.Summary.ComplianceRate)
	assert.Equal(t, rep.Risk.RiskLevel, rep.Summary.RiskLevel)
	assert.Equal(t, 1, rep.Summary.CriticalIssues)
	assert.Equal(t, 1, rep.Summary.TotalWarnings)
}

func TestBuildReportImmediateActionFlag(t *testing.T) {
	// Below both thresholds.
	calm := BuildReport(AnalysisRecord{OverallComplianceScore: 100})
	assert.False(t, calm.Summary.ImmediateActionNeeded)

	// One critical at compliance 0 scores 40, urgency 48 hours.
	moderate := BuildReport(AnalysisRecord{
		CriticalViolations:     []Violation{{Severity: SeverityCritical}},
		OverallComplianceScore: 0,
	})
	require.Equal(t, Urgency48Hours, moderate.Risk.ActionUrgency)
	assert.False(t, moderate.Summary.ImmediateActionNeeded)

	// Three criticals at compliance 50 score 90, urgency immediate.
	severe := BuildReport(AnalysisRecord{
		CriticalViolations: []Violation{
			{Severity: SeverityCritical}, {Severity: SeverityCritical}, {Severity: SeverityCritical},
		},
		OverallComplianceScore: 50,
	})
	require.Equal(t, UrgencyImmediate, severe.Risk.ActionUrgency)
	assert.True(t, severe.Summary.ImmediateActionNeeded)
}
