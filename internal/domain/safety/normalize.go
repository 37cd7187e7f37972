package safety

import (
	"encoding/json"
	"strings"
)

// rawRecord mirrors the model's output schema with optional fields, so that
// absent and zero values can be told apart during default resolution.
type rawRecord struct {
	TotalWorkers             *int           `json:"total_workers"`
	WorkersCompliant         *int           `json:"workers_compliant"`
	WorkersNonCompliant      *int           `json:"workers_non_compliant"`
	CriticalViolations       []rawViolation `json:"critical_violations"`
	Warnings                 []rawViolation `json:"warnings"`
	CompliantItems           []string       `json:"compliant_items"`
	OverallComplianceScore   *int           `json:"overall_compliance_score"`
	RiskAssessment           *string        `json:"risk_assessment"`
	ImmediateActions         []string       `json:"immediate_actions"`
	EstimatedComplianceCost  *string        `json:"estimated_compliance_cost"`
	PotentialFineIfInspected *string        `json:"potential_fine_if_inspected"`
}

type rawViolation struct {
	Description    string `json:"violation"`
	Location       string `json:"location"`
	StandardCode   string `json:"bis_code"`
	Severity       string `json:"risk_level"`
	Confidence     *int   `json:"confidence"`
	Recommendation string `json:"recommendation"`
}

// Normalize parses raw model output into a structurally valid
// AnalysisRecord. It never fails: code fences are stripped, truncated JSON
// gets a single close-brace repair attempt, and anything still unparseable
// degrades to DefaultRecord. Missing fields are back-filled with defaults.
func Normalize(raw string) AnalysisRecord {
	cleaned := stripFences(raw)

	var rec rawRecord
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		repaired, ok := repairTruncated(cleaned)
		if !ok {
			return DefaultRecord()
		}
		rec = repaired
	}

	return resolve(rec)
}

// stripFences removes markdown code block wrappers and stray backticks.
func stripFences(s string) string {
	cleaned := strings.TrimSpace(s)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(cleaned[len("```json"):])
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(cleaned[len("```"):])
	}

	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len("```")])
	}

	return strings.TrimSpace(strings.Trim(cleaned, "`"))
}

// repairTruncated appends the missing closing braces when the model's
// response was cut off mid-object, and retries the parse once.
func repairTruncated(s string) (rawRecord, bool) {
	var rec rawRecord
	missing := strings.Count(s, "{") - strings.Count(s, "}")
	if missing <= 0 {
		return rec, false
	}
	fixed := s + strings.Repeat("}", missing)
	if err := json.Unmarshal([]byte(fixed), &rec); err != nil {
		return rec, false
	}
	return rec, true
}

func resolve(rec rawRecord) AnalysisRecord {
	out := AnalysisRecord{
		TotalWorkers:             intOrZero(rec.TotalWorkers),
		WorkersCompliant:         intOrZero(rec.WorkersCompliant),
		WorkersNonCompliant:      intOrZero(rec.WorkersNonCompliant),
		CriticalViolations:       resolveViolations(rec.CriticalViolations, SeverityCritical),
		Warnings:                 resolveViolations(rec.Warnings, SeverityMedium),
		CompliantItems:           orEmpty(rec.CompliantItems),
		OverallComplianceScore:   50,
		RiskAssessmentLabel:      "MEDIUM",
		ImmediateActions:         rec.ImmediateActions,
		EstimatedComplianceCost:  stringOr(rec.EstimatedComplianceCost, "₹0"),
		PotentialFineIfInspected: stringOr(rec.PotentialFineIfInspected, "₹0"),
	}

	if rec.OverallComplianceScore != nil {
		out.OverallComplianceScore = *rec.OverallComplianceScore
	}
	if rec.RiskAssessment != nil && strings.TrimSpace(*rec.RiskAssessment) != "" {
		out.RiskAssessmentLabel = strings.TrimSpace(*rec.RiskAssessment)
	}
	if len(out.ImmediateActions) == 0 {
		out.ImmediateActions = []string{"Unable to analyze - please retry"}
	}

	return out
}

func resolveViolations(raw []rawViolation, fallback Severity) []Violation {
	out := make([]Violation, 0, len(raw))
	for _, v := range raw {
		sev := Severity(strings.ToUpper(strings.TrimSpace(v.Severity)))
		if sev != SeverityCritical && sev != SeverityHigh && sev != SeverityMedium {
			sev = fallback
		}
		conf := DefaultConfidence
		if v.Confidence != nil {
			conf = *v.Confidence
		}
		out = append(out, Violation{
			Description:    stringOrDefault(v.Description, "Unknown"),
			Location:       stringOrDefault(v.Location, "Unknown"),
			StandardCode:   stringOrDefault(v.StandardCode, "N/A"),
			Severity:       sev,
			Confidence:     conf,
			Recommendation: stringOrDefault(v.Recommendation, "Address violation"),
		})
	}
	return out
}

func intOrZero(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return *v
}

func stringOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// DefaultRecord is returned when the model response cannot be parsed at
// all. Malformed output is an expected, recoverable condition.
func DefaultRecord() AnalysisRecord {
	return AnalysisRecord{
		CriticalViolations: []Violation{},
		Warnings: []Violation{{
			Description:    "Unable to analyze image completely",
			Location:       "General",
			StandardCode:   "N/A",
			Severity:       SeverityMedium,
			Confidence:     DefaultConfidence,
			Recommendation: "Please try again with a clearer image",
		}},
		CompliantItems:           []string{},
		OverallComplianceScore:   50,
		RiskAssessmentLabel:      "MEDIUM",
		ImmediateActions:         []string{"Retry analysis with better image quality"},
		EstimatedComplianceCost:  "₹0",
		PotentialFineIfInspected: "₹0",
	}
}

// TimeoutFallbackRecord is the degraded-but-valid result produced when the
// retry budget is exhausted on timeouts.
func TimeoutFallbackRecord() AnalysisRecord {
	return AnalysisRecord{
		CriticalViolations: []Violation{},
		Warnings: []Violation{{
			Description:    "Request timed out - the vision model took too long to respond",
			Location:       "System",
			StandardCode:   "TIMEOUT",
			Severity:       SeverityMedium,
			Confidence:     100,
			Recommendation: "Try uploading a smaller image or retry in a few moments",
		}},
		CompliantItems:      []string{},
		RiskAssessmentLabel: "UNKNOWN",
		ImmediateActions: []string{
			"Wait 10-30 seconds and try again",
			"Upload a smaller or lower resolution image",
			"Check your internet connection",
		},
		EstimatedComplianceCost:  "₹0",
		PotentialFineIfInspected: "₹0",
	}
}

// ErrorFallbackRecord is the degraded result for non-retryable failures
// (blocked content, empty responses, auth errors). The failure text rides
// along as a HIGH warning so dashboards can surface it.
func ErrorFallbackRecord(message string) AnalysisRecord {
	return AnalysisRecord{
		CriticalViolations: []Violation{},
		Warnings: []Violation{{
			Description:    "Analysis error: " + message,
			Location:       "System",
			StandardCode:   "ERROR",
			Severity:       SeverityHigh,
			Confidence:     100,
			Recommendation: "Please check API key configuration and try again",
		}},
		CompliantItems:           []string{},
		RiskAssessmentLabel:      "UNKNOWN",
		ImmediateActions:         []string{"Fix analysis error and retry"},
		EstimatedComplianceCost:  "₹0",
		PotentialFineIfInspected: "₹0",
	}
}
