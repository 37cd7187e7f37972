package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRupees(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"₹5,00,000", 500000},
		{"₹50,000", 50000},
		{"₹1.5 lakh", 150000},
		{"2 Lakh", 200000},
		{"₹0", 0},
		{"1200", 1200},
		{"not a number", 0},
		{"", 0},
		{"₹", 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseRupees(tc.in), "input %q", tc.in)
	}
}

func TestEstimate(t *testing.T) {
	rec := AnalysisRecord{
		EstimatedComplianceCost:  "₹75,000",
		PotentialFineIfInspected: "₹2,50,000",
	}

	fi := Estimate(rec)
	assert.Equal(t, 250000.0, fi.PotentialFine)
	assert.Equal(t, 75000.0, fi.ComplianceCost)
	assert.Equal(t, 175000.0, fi.PotentialSavings)
	assert.InDelta(t, 233.33, fi.ROIPercentage, 0.01)
	assert.Equal(t, "HIGH", fi.FinancialRiskLevel)
}

func TestEstimateZeroCostHasZeroROI(t *testing.T) {
	rec := AnalysisRecord{
		EstimatedComplianceCost:  "₹0",
		PotentialFineIfInspected: "₹80,000",
	}

	fi := Estimate(rec)
	assert.Equal(t, 0.0, fi.ROIPercentage)
	assert.Equal(t, 80000.0, fi.PotentialSavings)
	assert.Equal(t, "MEDIUM", fi.FinancialRiskLevel)
}

func TestEstimateRiskLevelThresholds(t *testing.T) {
	cases := []struct {
		fine string
		want string
	}{
		{"₹1,00,001", "HIGH"},
		{"₹1,00,000", "MEDIUM"},
		{"₹50,001", "MEDIUM"},
		{"₹50,000", "LOW"},
		{"₹0", "LOW"},
		{"garbage", "LOW"},
	}

	for _, tc := range cases {
		fi := Estimate(AnalysisRecord{PotentialFineIfInspected: tc.fine})
		assert.Equal(t, tc.want, fi.FinancialRiskLevel, "fine %q", tc.fine)
	}
}
