package models

import "strings"

// SanitizeKeySegment escapes the ':' delimiter so an identifier such as an
// email address cannot spill into an adjacent key segment.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// MutationKey is the bucket key of one user's status-changing calls.
func MutationKey(email string) string {
	return "rl:mutation:" + SanitizeKeySegment(strings.ToLower(strings.TrimSpace(email)))
}
