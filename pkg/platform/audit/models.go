package audit

import (
	"context"
	"time"
)

// Action names a registration mutation recorded in the audit trail.
type Action string

const (
	ActionRegisteredFree    Action = "registered_free"
	ActionRegisteredFreeApp Action = "registered_free_app"
	ActionRegisteredPaid    Action = "registered_paid"
	ActionRegisteredPaidApp Action = "registered_paid_app"
	ActionAttendanceConfirm Action = "attendance_confirmed"
	ActionConfirmedAndPaid  Action = "confirmed_and_paid"
)

// Event is emitted after a successful mutation. Keep it transport-agnostic so
// stores can fan out.
type Event struct {
	Timestamp time.Time
	Action    Action
	Email     string
	EventKey  string // "<eventID>;<year>"
	Kind      string // status model that served the mutation
	// TargetStatus is set only for confirm-and-pay.
	TargetStatus string
	RequestID    string
	// ActorEmail is set when an admin acts on someone else's registration.
	ActorEmail string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEmail(ctx context.Context, email string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
