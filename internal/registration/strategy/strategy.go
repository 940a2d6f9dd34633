// Package strategy answers registration status questions for one user and one
// event under either of the two status models the backend has used.
//
// A State is a tagged value: Kind selects the status model and every predicate
// is a free function that switches on it. The legacy model reads a fixed subset
// of statuses and never implemented confirmation, so NeedsConfirmation and
// IsConfirmed answer false for it (see Supports).
package strategy

import (
	"eventreg/internal/registration/models"
)

// Kind selects the status model governing a record.
type Kind string

const (
	KindLegacy  Kind = "legacy"
	KindCurrent Kind = "current"
)

// KindFor picks the variant for an event. fallback applies when the event does
// not name a status model.
func KindFor(event models.Event, fallback models.StatusModel) Kind {
	model := event.StatusModel
	if !model.IsValid() {
		model = fallback
	}
	if model == models.StatusModelLegacy {
		return KindLegacy
	}
	return KindCurrent
}

// State wraps one event, one user and the user's registration record for that
// event, if any. It is owned by a single caller and never mutated in place.
type State struct {
	Kind      Kind
	Event     models.Event
	UserEmail string
	User      models.User
	Record    *models.Record
}

// New builds a State. A nil record represents "not registered".
func New(kind Kind, event models.Event, userEmail string, user models.User, record *models.Record) State {
	return State{Kind: kind, Event: event, UserEmail: userEmail, User: user, Record: record}
}

// Select returns the record whose composite key equals the event's key, or nil.
func Select(records []models.Record, event models.Event) *models.Record {
	key := event.Key()
	for i := range records {
		if records[i].EventKey == key {
			rec := records[i]
			return &rec
		}
	}
	return nil
}

// Exists reports whether a registration record was found.
func (s State) Exists() bool {
	return s.Record != nil
}

// RegistrationStatus returns the record's status; ok is false without a record.
func (s State) RegistrationStatus() (models.Status, bool) {
	if s.Record == nil {
		return "", false
	}
	return s.Record.RegistrationStatus, true
}

// ApplicationStatus returns the record's application status; ok is false
// without a record or when the record carries none.
func (s State) ApplicationStatus() (string, bool) {
	if s.Record == nil || s.Record.ApplicationStatus == "" {
		return "", false
	}
	return s.Record.ApplicationStatus, true
}

func (s State) status() models.Status {
	if s.Record == nil {
		return ""
	}
	return s.Record.RegistrationStatus
}

// Capability names one predicate of the status surface.
type Capability string

const (
	CapNeedsConfirmation Capability = "needs_confirmation"
	CapNeedsPayment      Capability = "needs_payment"
	CapIsWaitlisted      Capability = "is_waitlisted"
	CapIsCheckedIn       Capability = "is_checked_in"
	CapIsConfirmed       Capability = "is_confirmed"
)

var legacyCapabilities = map[Capability]bool{
	CapNeedsPayment: true,
	CapIsWaitlisted: true,
	CapIsCheckedIn:  true,
}

// Supports reports whether the variant of s implements capability c.
func Supports(s State, c Capability) bool {
	if s.Kind == KindLegacy {
		return legacyCapabilities[c]
	}
	switch c {
	case CapNeedsConfirmation, CapNeedsPayment, CapIsWaitlisted, CapIsCheckedIn, CapIsConfirmed:
		return true
	}
	return false
}

// NeedsConfirmation is false for the legacy model, which has no confirmation step.
func NeedsConfirmation(s State) bool {
	switch s.Kind {
	case KindLegacy:
		return false
	default:
		return models.NeedsConfirmation(s.status())
	}
}

func NeedsPayment(s State) bool {
	switch s.Kind {
	case KindLegacy:
		st := s.status()
		return st == models.StatusAccepted || st == models.StatusIncomplete
	default:
		return models.NeedsPayment(s.status())
	}
}

func IsWaitlisted(s State) bool {
	switch s.Kind {
	case KindLegacy:
		return s.status() == models.StatusWaitlisted
	default:
		return models.IsWaitlisted(s.status())
	}
}

func IsCheckedIn(s State) bool {
	switch s.Kind {
	case KindLegacy:
		return s.status() == models.StatusCheckedIn
	default:
		return models.IsCheckedIn(s.status())
	}
}

// IsConfirmed is false for the legacy model.
func IsConfirmed(s State) bool {
	switch s.Kind {
	case KindLegacy:
		return false
	default:
		return models.IsConfirmed(s.status())
	}
}

// Snapshot is the JSON view of a State.
type Snapshot struct {
	Kind               Kind           `json:"kind"`
	EventKey           string         `json:"eventKey"`
	Email              string         `json:"email"`
	Exists             bool           `json:"exists"`
	RegistrationStatus *models.Status `json:"registrationStatus"`
	StatusLabel        string         `json:"statusLabel,omitempty"`
	ApplicationStatus  *string        `json:"applicationStatus"`
	NeedsPayment       bool           `json:"needsPayment"`
	NeedsConfirmation  bool           `json:"needsConfirmation"`
	IsWaitlisted       bool           `json:"isWaitlisted"`
	IsCheckedIn        bool           `json:"isCheckedIn"`
	IsConfirmed        bool           `json:"isConfirmed"`
	Unsupported        []Capability   `json:"unsupported,omitempty"`
}

// Describe evaluates every predicate of s.
func Describe(s State) Snapshot {
	snap := Snapshot{
		Kind:              s.Kind,
		EventKey:          s.Event.Key(),
		Email:             s.UserEmail,
		Exists:            s.Exists(),
		NeedsPayment:      NeedsPayment(s),
		NeedsConfirmation: NeedsConfirmation(s),
		IsWaitlisted:      IsWaitlisted(s),
		IsCheckedIn:       IsCheckedIn(s),
		IsConfirmed:       IsConfirmed(s),
	}
	if st, ok := s.RegistrationStatus(); ok {
		snap.RegistrationStatus = &st
		snap.StatusLabel = models.LabelOf(st)
	}
	if app, ok := s.ApplicationStatus(); ok {
		snap.ApplicationStatus = &app
	}
	for _, c := range []Capability{CapNeedsConfirmation, CapNeedsPayment, CapIsWaitlisted, CapIsCheckedIn, CapIsConfirmed} {
		if !Supports(s, c) {
			snap.Unsupported = append(snap.Unsupported, c)
		}
	}
	return snap
}
