package safety

import (
	"strconv"
	"strings"
)

// Financial risk thresholds on the potential fine, in rupees.
const (
	fineHighThreshold   = 100000
	fineMediumThreshold = 50000
)

// ParseRupees parses a currency string such as "₹5,00,000" or "₹1.5 lakh"
// into a plain rupee amount. Any parse failure degrades to 0; this never
// returns an error.
func ParseRupees(amount string) float64 {
	cleaned := strings.ReplaceAll(amount, "₹", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	multiplier := 1.0
	lower := strings.ToLower(cleaned)
	if strings.Contains(lower, "lakh") {
		multiplier = 100000
		lower = strings.TrimSpace(strings.ReplaceAll(lower, "lakh", ""))
	}

	value, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return 0
	}
	return value * multiplier
}

// Estimate derives the financial impact of the detected violations. Pure
// function over the record's currency fields.
func Estimate(record AnalysisRecord) FinancialImpact {
	fine := ParseRupees(record.PotentialFineIfInspected)
	cost := ParseRupees(record.EstimatedComplianceCost)

	savings := fine - cost
	roi := 0.0
	if cost > 0 {
		roi = savings / cost * 100
	}

	level := "LOW"
	if fine > fineHighThreshold {
		level = "HIGH"
	} else if fine > fineMediumThreshold {
		level = "MEDIUM"
	}

	return FinancialImpact{
		PotentialFine:      fine,
		ComplianceCost:     cost,
		PotentialSavings:   savings,
		ROIPercentage:      roi,
		FinancialRiskLevel: level,
	}
}
