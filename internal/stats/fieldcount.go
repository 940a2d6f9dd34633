// Package stats builds the frequency tables shown on admin statistics pages.
package stats

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FieldCount is one row of a frequency table.
type FieldCount struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ComputeFieldCounts resolves path ("basicInformation.year") on every record
// by descending one property per segment and counts the stringified values.
// Records where any segment is absent, or the value is null, are skipped.
// Leaves are labelled by stringify. The result is sorted by label and is never
// nil.
func ComputeFieldCounts(records []map[string]any, path string) []FieldCount {
	segments := strings.Split(path, ".")
	counts := make(map[string]int)
	for _, record := range records {
		value, ok := resolve(record, segments)
		if !ok {
			continue
		}
		counts[stringify(value)]++
	}

	out := make([]FieldCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, FieldCount{Label: label, Value: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}

func resolve(record map[string]any, segments []string) (any, bool) {
	var current any = record
	for _, seg := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[seg]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// stringify renders a decoded JSON value as a label. Numbers never use exponent
// form, arrays join their elements with "," (null elements render empty) and
// objects render as compact JSON.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = stringify(elem)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(value)
}
