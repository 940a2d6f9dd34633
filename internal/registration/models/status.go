package models

import (
	dErrors "eventreg/pkg/domain-errors"
)

// Status is the registration status of one user for one event.
//
// The zero value means "no status" and is handled by every lookup below the same
// way an unknown value is: lookups degrade to their documented defaults and
// predicates answer false.
type Status string

const (
	StatusRegistered       Status = "registered"
	StatusWaitlisted       Status = "waitlisted"
	StatusCancelled        Status = "cancelled"
	StatusIncomplete       Status = "incomplete"
	StatusAccepted         Status = "accepted"
	StatusAcceptedPending  Status = "accepted_pending"
	StatusAcceptedComplete Status = "accepted_complete"
	StatusCheckedIn        Status = "checked_in"
)

// UnknownSortOrder sorts unknown and missing statuses after every known one.
const UnknownSortOrder = 999

// DefaultColor is returned for unknown and missing statuses.
const DefaultColor = "#ffffff"

// StatusConfig is the display configuration of one status.
type StatusConfig struct {
	Label     string
	SortOrder int
	Color     string
}

// StatusOption is one entry of a user facing status picker.
type StatusOption struct {
	Value Status `json:"value"`
	Label string `json:"label"`
}

// statusOrder is the declaration order; StatusOptions and AllStatuses follow it.
var statusOrder = []Status{
	StatusRegistered,
	StatusWaitlisted,
	StatusCancelled,
	StatusIncomplete,
	StatusAccepted,
	StatusAcceptedPending,
	StatusAcceptedComplete,
	StatusCheckedIn,
}

// statusConfigs is the single source of truth for labels, ordering and colors.
// Lower sort orders are listed first in admin tables.
var statusConfigs = map[Status]StatusConfig{
	StatusRegistered:       {Label: "Registered", SortOrder: 3, Color: "#a2c4f5"},
	StatusWaitlisted:       {Label: "Waitlisted", SortOrder: 7, Color: "#f9e79f"},
	StatusCancelled:        {Label: "Cancelled", SortOrder: 8, Color: "#f5a3a3"},
	StatusIncomplete:       {Label: "Incomplete", SortOrder: 6, Color: "#f7c59f"},
	StatusAccepted:         {Label: "Accepted", SortOrder: 4, Color: "#b8e0d2"},
	StatusAcceptedPending:  {Label: "Accepted (Pending)", SortOrder: 5, Color: "#d6eadf"},
	StatusAcceptedComplete: {Label: "Confirmed", SortOrder: 2, Color: "#95d5b2"},
	StatusCheckedIn:        {Label: "Checked In", SortOrder: 1, Color: "#52b788"},
}

// excludedFromOptions lists statuses that are never offered to users but still
// take part in predicate logic.
var excludedFromOptions = map[Status]bool{
	StatusAcceptedPending: true,
}

// AllStatuses returns every known status in declaration order.
func AllStatuses() []Status {
	return append([]Status(nil), statusOrder...)
}

// ParseStatus validates a status coming from outside the process.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "registration status cannot be empty")
	}
	st := Status(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid registration status: "+s)
	}
	return st, nil
}

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	_, ok := statusConfigs[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// Config returns the display configuration and whether s is known.
func (s Status) Config() (StatusConfig, bool) {
	cfg, ok := statusConfigs[s]
	return cfg, ok
}

// StatusOptions returns value/label pairs for every status users may pick, in
// declaration order.
func StatusOptions() []StatusOption {
	options := make([]StatusOption, 0, len(statusOrder))
	for _, s := range statusOrder {
		if excludedFromOptions[s] {
			continue
		}
		options = append(options, StatusOption{Value: s, Label: statusConfigs[s].Label})
	}
	return options
}

// SortOrderOf returns the admin sort order of s, or UnknownSortOrder.
func SortOrderOf(s Status) int {
	if cfg, ok := statusConfigs[s]; ok {
		return cfg.SortOrder
	}
	return UnknownSortOrder
}

// LabelOf returns the display label of s, or the raw value when s is unknown.
func LabelOf(s Status) string {
	if cfg, ok := statusConfigs[s]; ok {
		return cfg.Label
	}
	return string(s)
}

// ColorOf returns the display color of s, or DefaultColor.
func ColorOf(s Status) string {
	if cfg, ok := statusConfigs[s]; ok {
		return cfg.Color
	}
	return DefaultColor
}

func IsRegistered(s Status) bool      { return s == StatusRegistered }
func IsWaitlisted(s Status) bool      { return s == StatusWaitlisted }
func IsCancelled(s Status) bool       { return s == StatusCancelled }
func IsCheckedIn(s Status) bool       { return s == StatusCheckedIn }
func IsAccepted(s Status) bool        { return s == StatusAccepted }
func IsAcceptedPending(s Status) bool { return s == StatusAcceptedPending }
func IsIncomplete(s Status) bool      { return s == StatusIncomplete }

// IsConfirmed reports an accepted applicant who completed confirmation.
func IsConfirmed(s Status) bool { return s == StatusAcceptedComplete }

// NeedsPayment reports statuses that still owe a payment.
func NeedsPayment(s Status) bool {
	return s == StatusAccepted || s == StatusIncomplete
}

// NeedsConfirmation reports accepted applicants who have not confirmed yet.
func NeedsConfirmation(s Status) bool {
	return s == StatusAcceptedPending
}
