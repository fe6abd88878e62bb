package utils

import "strings"

func StringPtr(s string) *string {
	return &s
}

// NormalizeEmail trims surrounding whitespace. Case is preserved because identity checks
// compare the path email and the token email exactly.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
