package stats

import (
	"sort"

	"eventreg/internal/registration/models"
)

// StatusCount is the number of registrations holding one status.
type StatusCount struct {
	Status    models.Status `json:"status"`
	Label     string        `json:"label"`
	Color     string        `json:"color"`
	SortOrder int           `json:"sortOrder"`
	Count     int           `json:"count"`
}

// StatusBreakdown counts records per registration status. Rows follow the
// admin sort order; unknown statuses come last, ordered by value.
func StatusBreakdown(records []models.Record) []StatusCount {
	counts := make(map[models.Status]int)
	for _, r := range records {
		counts[r.RegistrationStatus]++
	}

	out := make([]StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusCount{
			Status:    status,
			Label:     models.LabelOf(status),
			Color:     models.ColorOf(status),
			SortOrder: models.SortOrderOf(status),
			Count:     n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// Attributes projects records onto their open attribute bags for
// ComputeFieldCounts.
func Attributes(records []models.Record) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = r.Attributes()
	}
	return out
}
