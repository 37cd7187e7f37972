package standards

// Severity levels used by BIS safety standards
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
)

// Standard represents a single BIS construction safety standard.
// Records are immutable after catalog load.
type Standard struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Requirement string `json:"requirement"`
	Penalty     string `json:"penalty"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
}
