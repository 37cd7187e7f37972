package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	siteIDPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	analysisIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
)

// ValidateSiteID validates site identifier format
func ValidateSiteID(site string) error {
	if site == "" {
		return fmt.Errorf("site ID cannot be empty")
	}
	if !siteIDPattern.MatchString(site) {
		return fmt.Errorf("invalid site ID format (alphanumeric, dash, underscore only, max 64 chars)")
	}
	return nil
}

// ValidateAnalysisID validates analysis ID format (UUID)
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis ID cannot be empty")
	}
	if !analysisIDPattern.MatchString(id) {
		return fmt.Errorf("invalid analysis ID format")
	}
	return nil
}

// ValidateImageType checks the uploaded content type is a decodable raster
// image
func ValidateImageType(contentType string) error {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg", "image/png":
		return nil
	}
	return fmt.Errorf("unsupported image type: %s (allowed: image/jpeg, image/png)", contentType)
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// ValidateDays validates days parameter
func ValidateDays(days int) int {
	if days <= 0 {
		return 30 // default
	}
	if days > 365 {
		return 365 // max 1 year
	}
	return days
}
