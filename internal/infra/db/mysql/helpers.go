package mysql

import (
	"encoding/json"
	"strings"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// marshalJSON serializes a value for a JSON column, falling back to the
// given empty literal on marshal failure.
func marshalJSON(v any, empty string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return empty
	}
	return string(b)
}
