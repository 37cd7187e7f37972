package standards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `[
  {"code": "IS_2925_1984", "title": "Industrial Safety Helmets", "requirement": "Helmets at all times", "penalty": "₹50,000", "severity": "CRITICAL", "category": "PPE"},
  {"code": "IS_4014_1967", "title": "Steel Tubular Scaffolding", "requirement": "Guardrails above 2m", "penalty": "₹1,00,000", "severity": "CRITICAL", "category": "STRUCTURAL"},
  {"code": "IS_2190_2010", "title": "Portable Fire Extinguishers", "requirement": "Extinguishers within 15m", "penalty": "₹20,000", "severity": "MEDIUM", "category": "FIRE"}
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bis_codes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	c, err := Load("/nonexistent/bis_codes.json")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)

	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.All())
}

func TestLoadMalformedFileDegradesToEmpty(t *testing.T) {
	c, err := Load(writeCatalog(t, `{"not": "an array"`))
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestGet(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	s, ok := c.Get("IS_2925_1984")
	require.True(t, ok)
	assert.Equal(t, "IS_2925_1984", s.Code)
	assert.Equal(t, "Industrial Safety Helmets", s.Title)

	_, ok = c.Get("IS_0000_0000")
	assert.False(t, ok)
}

func TestPenalty(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	p, ok := c.Penalty("IS_4014_1967")
	require.True(t, ok)
	assert.Equal(t, "₹1,00,000", p)

	_, ok = c.Penalty("NOPE")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	ppe := c.Search("ppe", "")
	require.Len(t, ppe, 1)
	assert.Equal(t, "IS_2925_1984", ppe[0].Code)

	critical := c.Search("", "critical")
	assert.Len(t, critical, 2)

	both := c.Search("STRUCTURAL", "CRITICAL")
	require.Len(t, both, 1)
	assert.Equal(t, "IS_4014_1967", both[0].Code)

	none := c.Search("FIRE", "CRITICAL")
	assert.Empty(t, none)
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	all := c.All()
	all[0].Code = "MUTATED"

	s, ok := c.Get("IS_2925_1984")
	require.True(t, ok)
	assert.Equal(t, "IS_2925_1984", s.Code)
}

func TestCritical(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	critical := c.Critical()
	require.Len(t, critical, 2)
	for _, s := range critical {
		assert.Equal(t, SeverityCritical, s.Severity)
	}
}

func TestCategories(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"PPE", "STRUCTURAL", "FIRE"}, c.Categories())
}

func TestFormatForPromptFollowsLoadOrder(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	text := c.FormatForPrompt()
	assert.Contains(t, text, "INDIAN BIS CONSTRUCTION SAFETY STANDARDS")

	first := strings.Index(text, "IS_2925_1984")
	second := strings.Index(text, "IS_4014_1967")
	third := strings.Index(text, "IS_2190_2010")
	require.True(t, first >= 0 && second >= 0 && third >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)

	// deterministic output for prompt reproducibility
	assert.Equal(t, text, c.FormatForPrompt())
}

func TestSummary(t *testing.T) {
	c, err := Load(writeCatalog(t, testCatalogJSON))
	require.NoError(t, err)

	sum := c.Summary()
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.BySeverity["CRITICAL"])
	assert.Equal(t, 1, sum.BySeverity["MEDIUM"])
	assert.Equal(t, 1, sum.ByCategory["FIRE"])
}
