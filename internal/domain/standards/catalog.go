package standards

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// LoadError reports a missing or malformed standards source.
// Callers are expected to continue with the empty catalog it accompanies.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load standards from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Catalog is a read-only registry of BIS standards, loaded once and shared
// by all consumers. Concurrent readers need no locking.
type Catalog struct {
	standards []Standard
	byCode    map[string]Standard
}

// Load reads standards from a JSON file. On any failure it returns an empty
// catalog together with a *LoadError so the process can keep running with
// zero standards.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(nil), &LoadError{Path: path, Err: err}
	}

	var items []Standard
	if err := json.Unmarshal(data, &items); err != nil {
		return New(nil), &LoadError{Path: path, Err: err}
	}

	return New(items), nil
}

// New builds a catalog from the given records, preserving their order.
func New(items []Standard) *Catalog {
	c := &Catalog{
		standards: make([]Standard, len(items)),
		byCode:    make(map[string]Standard, len(items)),
	}
	copy(c.standards, items)
	for _, s := range c.standards {
		c.byCode[s.Code] = s
	}
	return c
}

// Len returns the number of loaded standards.
func (c *Catalog) Len() int { return len(c.standards) }

// Get retrieves a standard by its exact code, e.g. "IS_2925_1984".
func (c *Catalog) Get(code string) (Standard, bool) {
	s, ok := c.byCode[code]
	return s, ok
}

// Penalty returns the penalty text for a code.
func (c *Catalog) Penalty(code string) (string, bool) {
	s, ok := c.byCode[code]
	if !ok {
		return "", false
	}
	return s.Penalty, true
}

// Search filters standards by category and/or severity. Empty filters match
// everything; provided filters are combined with AND semantics and compared
// case-insensitively.
func (c *Catalog) Search(category, severity string) []Standard {
	var out []Standard
	for _, s := range c.standards {
		if category != "" && !strings.EqualFold(s.Category, category) {
			continue
		}
		if severity != "" && !strings.EqualFold(s.Severity, severity) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// All returns a copy of every standard in load order.
func (c *Catalog) All() []Standard {
	out := make([]Standard, len(c.standards))
	copy(out, c.standards)
	return out
}

// Categories returns unique categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.standards {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// Critical returns all standards with CRITICAL severity.
func (c *Catalog) Critical() []Standard {
	return c.Search("", SeverityCritical)
}

// FormatForPrompt renders every standard as text for the vision model
// prompt. Output follows catalog load order so prompts are reproducible.
func (c *Catalog) FormatForPrompt() string {
	var b strings.Builder
	b.WriteString("INDIAN BIS CONSTRUCTION SAFETY STANDARDS:\n\n")

	for _, s := range c.standards {
		fmt.Fprintf(&b, "%s\n", s.Code)
		fmt.Fprintf(&b, "Title: %s\n", s.Title)
		fmt.Fprintf(&b, "Requirement: %s\n", s.Requirement)
		fmt.Fprintf(&b, "Penalty: %s\n", s.Penalty)
		fmt.Fprintf(&b, "Severity: %s\n", s.Severity)
		fmt.Fprintf(&b, "Category: %s\n", s.Category)
		b.WriteString(strings.Repeat("-", 80) + "\n\n")
	}

	return b.String()
}

// CatalogSummary is a statistical breakdown of loaded standards.
type CatalogSummary struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	BySeverity map[string]int `json:"by_severity"`
}

// Summary returns counts per category and severity.
func (c *Catalog) Summary() CatalogSummary {
	sum := CatalogSummary{
		Total:      len(c.standards),
		ByCategory: make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, s := range c.standards {
		sum.ByCategory[s.Category]++
		sum.BySeverity[s.Severity]++
	}
	return sum
}
