package worker

import (
	"context"
	"log/slog"

	audit "eventreg/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. Store
// failures are logged; one bad write never stops the trail.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run persists events until inbox is closed. Cancelling ctx does not stop the
// loop early so that a closing publisher can drain what it already accepted.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil && w.logger != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"action", string(event.Action),
				"event_key", event.EventKey,
				"request_id", event.RequestID,
				"error", err,
			)
		}
	}
}
