// Package strings normalizes repeated query parameters.
package strings

import (
	"strings"
)

// DedupeAndTrim trims every value and drops empties and repeats, keeping the
// first occurrence order.
func DedupeAndTrim(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// SplitDedupeAndTrim accepts both repeated parameters (?field=a&field=b) and
// comma lists (?field=a,b) and normalizes them with DedupeAndTrim.
func SplitDedupeAndTrim(values []string, sep string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, sep)...)
	}
	return DedupeAndTrim(parts)
}
