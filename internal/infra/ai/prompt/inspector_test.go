package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetSystemPrompt(t *testing.T) {
	sys := GetSystemPrompt()
	assert.Contains(t, sys, "construction safety inspector")
	assert.Contains(t, sys, "BIS")
	assert.Contains(t, sys, "JSON")
}

func TestGetInspectionPromptEmbedsCatalog(t *testing.T) {
	catalogText := "INDIAN BIS CONSTRUCTION SAFETY STANDARDS:\n\nIS_2925_1984\nTitle: Industrial Safety Helmets\n"
	p := GetInspectionPrompt(catalogText)

	assert.Contains(t, p, catalogText)
}

func TestGetInspectionPromptChecklistAndSchema(t *testing.T) {
	p := GetInspectionPrompt("")

	// the seven checklist areas
	for _, want := range []string{
		"Count all visible workers",
		"Personal Protective Equipment",
		"structural safety",
		"electrical safety",
		"fire safety",
		"CRITICAL life-threatening violations",
		"compliant safety measures",
	} {
		assert.Contains(t, p, want)
	}

	// the output contract fields the normalizer depends on
	for _, field := range []string{
		"total_workers",
		"workers_compliant",
		"workers_non_compliant",
		"critical_violations",
		"warnings",
		"compliant_items",
		"overall_compliance_score",
		"risk_assessment",
		"immediate_actions",
		"estimated_compliance_cost",
		"potential_fine_if_inspected",
		"confidence",
	} {
		assert.Contains(t, p, field)
	}

	assert.Contains(t, p, "Respond ONLY with valid JSON")
}
