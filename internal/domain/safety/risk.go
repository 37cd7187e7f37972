package safety

import "math"

// Recommendation texts per risk level.
const (
	recCritical = "CRITICAL RISK: Site operations must be halted immediately. " +
		"Multiple life-threatening violations detected. " +
		"Emergency safety review required before resuming work."
	recHigh = "HIGH RISK: Serious safety violations present. " +
		"Immediate corrective action required within 24 hours. " +
		"Site supervisor must address all critical issues before next shift."
	recMedium = "MEDIUM RISK: Several safety improvements needed. " +
		"Address violations within 48 hours. " +
		"Schedule safety training and equipment upgrades."
	recLow = "LOW RISK: Site shows good safety compliance. " +
		"Continue monitoring and maintain current safety standards. " +
		"Address minor warnings during routine inspections."
)

// Score computes a deterministic risk assessment from a normalized record.
// Pure function, no side effects.
//
// base = 20 per critical violation, +10 per HIGH warning, +5 per MEDIUM;
// multiplied by 1 + (100-compliance)/100, plus a worker non-compliance
// term, then rounded and clamped to [0,100].
func Score(record AnalysisRecord) RiskAssessment {
	score := float64(len(record.CriticalViolations)) * 20

	for _, w := range record.Warnings {
		switch w.Severity {
		case SeverityHigh:
			score += 10
		case SeverityMedium:
			score += 5
		}
	}

	compliance := clampInt(record.OverallComplianceScore, 0, 100)
	multiplier := 1 + float64(100-compliance)/100
	score *= multiplier

	if record.TotalWorkers > 0 {
		ratio := float64(record.WorkersNonCompliant) / float64(record.TotalWorkers)
		score += ratio * 15
	}

	riskScore := clampInt(int(math.Round(score)), 0, 100)

	level, urgency, recommendation := gradeRisk(riskScore)

	return RiskAssessment{
		RiskScore:            riskScore,
		RiskLevel:            level,
		Recommendation:       recommendation,
		ActionUrgency:        urgency,
		CriticalCount:        len(record.CriticalViolations),
		WarningCount:         len(record.Warnings),
		CompliancePercentage: compliance,
	}
}

// gradeRisk maps a clamped risk score to level, urgency and recommendation.
// Thresholds are evaluated high to low, first match wins.
func gradeRisk(score int) (RiskLevel, Urgency, string) {
	switch {
	case score >= 75:
		return RiskCritical, UrgencyImmediate, recCritical
	case score >= 50:
		return RiskHigh, Urgency24Hours, recHigh
	case score >= 25:
		return RiskMedium, Urgency48Hours, recMedium
	default:
		return RiskLow, UrgencyWeekly, recLow
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
