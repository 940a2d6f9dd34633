package handler

import "eventreg/internal/registration/models"

// StatusOptionResponse is one entry of GET /statuses.
type StatusOptionResponse struct {
	Value     models.Status `json:"value"`
	Label     string        `json:"label"`
	Color     string        `json:"color"`
	SortOrder int           `json:"sortOrder"`
}

// MutationResponse carries the checkout URL when the backend returned one.
type MutationResponse struct {
	PaymentURL string `json:"paymentUrl,omitempty"`
}

func statusOptions() []StatusOptionResponse {
	options := models.StatusOptions()
	out := make([]StatusOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, StatusOptionResponse{
			Value:     o.Value,
			Label:     o.Label,
			Color:     models.ColorOf(o.Value),
			SortOrder: models.SortOrderOf(o.Value),
		})
	}
	return out
}
