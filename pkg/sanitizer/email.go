package sanitizer

import "strings"

// NormalizeEmail lowercases and trims. Contact matching by email is
// case-insensitive, so the stored form must be canonical.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
