package stats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"eventreg/internal/platform/middleware"
	"eventreg/internal/registration/models"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/sentinel"
)

// Lister lists all registrations of one event.
type Lister interface {
	ListByEvent(ctx context.Context, eventID string, year int) ([]models.Record, error)
}

const (
	defaultConcurrency = 4
	compareTimeout     = 10 * time.Second
)

// EventStats is the statistics view of one event.
type EventStats struct {
	EventKey string                  `json:"eventKey"`
	Total    int                     `json:"total"`
	Statuses []StatusCount           `json:"statuses"`
	Fields   map[string][]FieldCount `json:"fields"`
}

// EventCounts is one event's frequency table in a comparison.
type EventCounts struct {
	EventKey string       `json:"eventKey"`
	Total    int          `json:"total"`
	Counts   []FieldCount `json:"counts"`
}

type Service struct {
	lister      Lister
	concurrency int
	logger      *slog.Logger
}

type Option func(*Service)

// WithConcurrency bounds how many events CompareEvents fetches at once.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(lister Lister, opts ...Option) *Service {
	s := &Service{lister: lister, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// EventStats fetches one event's registrations and returns the status
// breakdown plus one frequency table per path.
func (s *Service) EventStats(ctx context.Context, event models.Event, paths []string) (*EventStats, error) {
	records, err := s.list(ctx, event)
	if err != nil {
		return nil, err
	}

	attrs := Attributes(records)
	fields := make(map[string][]FieldCount, len(paths))
	for _, p := range paths {
		fields[p] = ComputeFieldCounts(attrs, p)
	}
	return &EventStats{
		EventKey: event.Key(),
		Total:    len(records),
		Statuses: StatusBreakdown(records),
		Fields:   fields,
	}, nil
}

// CompareEvents computes the frequency table of path for every event. Fetches
// run concurrently and the first failure cancels the rest. Results keep the
// order of events.
func (s *Service) CompareEvents(ctx context.Context, events []models.Event, path string) ([]EventCounts, error) {
	if len(events) == 0 {
		return []EventCounts{}, nil
	}
	if path == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "field path is required")
	}

	ctx, cancel := context.WithTimeout(ctx, compareTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	out := make([]EventCounts, len(events))
	for i, event := range events {
		g.Go(func() error {
			records, err := s.list(ctx, event)
			if err != nil {
				return err
			}
			out[i] = EventCounts{
				EventKey: event.Key(),
				Total:    len(records),
				Counts:   ComputeFieldCounts(Attributes(records), path),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) list(ctx context.Context, event models.Event) ([]models.Record, error) {
	records, err := s.lister.ListByEvent(ctx, event.ID, event.Year)
	if err == nil {
		return records, nil
	}
	s.logger.ErrorContext(ctx, "failed to list event registrations",
		"event_key", event.Key(),
		"request_id", middleware.GetRequestID(ctx),
		"error", err,
	)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "event not found: "+event.Key())
	case errors.Is(err, context.DeadlineExceeded):
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "timed out listing registrations")
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list registrations")
	}
}
