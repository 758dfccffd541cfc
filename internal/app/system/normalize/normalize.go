// Package normalize provides helper functions for consistent string normalization
// across the application. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
//
// WhatsApp/mobile numbers are normalized in the wa package, not here.
package normalize

import "strings"

// StoreName normalizes a store name by trimming whitespace.
// Use text.Fold() for the case-insensitive comparison key.
func StoreName(s string) string {
	return strings.TrimSpace(s)
}

// BusinessType normalizes a business type by trimming whitespace and
// converting to lowercase. Validate with models.IsValidBusinessType.
func BusinessType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TemplateID normalizes a template id by trimming whitespace and converting
// to lowercase.
func TemplateID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
