package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"eventreg/internal/platform/metrics"
	"eventreg/internal/platform/middleware"
	"eventreg/internal/registration/client"
	"eventreg/internal/registration/models"
	"eventreg/internal/registration/strategy"
	dErrors "eventreg/pkg/domain-errors"
	audit "eventreg/pkg/platform/audit"
	"eventreg/pkg/platform/sentinel"
	"eventreg/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service loads registration state and runs status-changing operations
// against the registration backend. It keeps orchestration out of handlers and
// leaves the status rules to the strategy package.
type Service struct {
	backend        client.Backend
	defaultModel   models.StatusModel
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithDefaultStatusModel sets the model used for events that do not name one.
func WithDefaultStatusModel(model models.StatusModel) Option {
	return func(s *Service) {
		s.defaultModel = model
	}
}

func New(backend client.Backend, opts ...Option) *Service {
	s := &Service{backend: backend, defaultModel: models.StatusModelCurrent}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Event fetches event metadata from the backend.
func (s *Service) Event(ctx context.Context, eventID string, year int) (models.Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return models.Event{}, dErrors.New(dErrors.CodeBadRequest, "event id is required")
	}
	event, err := s.backend.GetEvent(ctx, eventID, year)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Event{}, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return models.Event{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load event")
	}
	// The backend may omit the key fields on the event body.
	if event.ID == "" {
		event.ID = eventID
	}
	if event.Year == 0 {
		event.Year = year
	}
	return event, nil
}

// Load reads every registration of email once and builds the state for event.
// A missing record is not an error; State.Exists reports it.
func (s *Service) Load(ctx context.Context, event models.Event, email string, user models.User) (strategy.State, error) {
	start := time.Now()
	email = strings.TrimSpace(email)
	if email == "" {
		return strategy.State{}, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}

	records, err := s.backend.ListByEmail(ctx, email)
	if err != nil {
		s.observeLoad("error", start)
		s.logger.ErrorContext(ctx, "failed to load registrations",
			"event_key", event.Key(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return strategy.State{}, dErrors.Wrap(&strategy.LoadError{Email: email, Err: err},
			dErrors.CodeUnavailable, "failed to load registrations")
	}

	record := strategy.Select(records, event)
	if record != nil {
		s.observeLoad("found", start)
	} else {
		s.observeLoad("missing", start)
	}
	return strategy.New(strategy.KindFor(event, s.defaultModel), event, email, user, record), nil
}

// Mode selects which registration operation Register runs.
type Mode string

const (
	ModeFree    Mode = "free"
	ModeFreeApp Mode = "free_app"
	ModePaid    Mode = "paid"
	ModePaidApp Mode = "paid_app"
)

// ParseMode validates a client supplied mode.
func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(raw)); m {
	case ModeFree, ModeFreeApp, ModePaid, ModePaidApp:
		return m, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid registration mode: "+raw)
}

// ModeFor derives the mode from event metadata and the user's membership.
func ModeFor(event models.Event, user models.User) Mode {
	free := event.IsFree(user.IsMember)
	switch {
	case free && event.IsApplicationBased:
		return ModeFreeApp
	case free:
		return ModeFree
	case event.IsApplicationBased:
		return ModePaidApp
	default:
		return ModePaid
	}
}

// Register dispatches to the operation for mode. The payment URL is empty for
// free registrations.
func (s *Service) Register(ctx context.Context, st strategy.State, mode Mode, payload strategy.Payload) (string, error) {
	switch mode {
	case ModeFree:
		return "", s.RegisterFree(ctx, st, payload)
	case ModeFreeApp:
		return "", s.RegisterFreeApp(ctx, st, payload)
	case ModePaid:
		return s.RegisterPaid(ctx, st, payload)
	case ModePaidApp:
		return s.RegisterPaidApp(ctx, st, payload)
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid registration mode: "+string(mode))
}

func (s *Service) RegisterFree(ctx context.Context, st strategy.State, payload strategy.Payload) error {
	err := strategy.RegForFree(ctx, s.backend, st, payload)
	return s.finish(ctx, st, strategy.OpRegForFree, audit.ActionRegisteredFree, "", err)
}

func (s *Service) RegisterFreeApp(ctx context.Context, st strategy.State, payload strategy.Payload) error {
	err := strategy.RegForFreeApp(ctx, s.backend, st, payload)
	return s.finish(ctx, st, strategy.OpRegForFreeApp, audit.ActionRegisteredFreeApp, "", err)
}

func (s *Service) RegisterPaid(ctx context.Context, st strategy.State, payload strategy.Payload) (string, error) {
	url, err := strategy.RegForPaid(ctx, s.backend, st, payload)
	return url, s.finish(ctx, st, strategy.OpRegForPaid, audit.ActionRegisteredPaid, "", err)
}

func (s *Service) RegisterPaidApp(ctx context.Context, st strategy.State, payload strategy.Payload) (string, error) {
	url, err := strategy.RegForPaidApp(ctx, s.backend, st, payload)
	return url, s.finish(ctx, st, strategy.OpRegForPaidApp, audit.ActionRegisteredPaidApp, "", err)
}

func (s *Service) ConfirmAttendance(ctx context.Context, st strategy.State, payload strategy.Payload) error {
	err := strategy.ConfirmAttendance(ctx, s.backend, st, payload)
	return s.finish(ctx, st, strategy.OpConfirmAttendance, audit.ActionAttendanceConfirm, "", err)
}

func (s *Service) ConfirmAndPay(ctx context.Context, st strategy.State, target models.Status, payload strategy.Payload) (string, error) {
	url, err := strategy.ConfirmAndPay(ctx, s.backend, st, target, payload)
	return url, s.finish(ctx, st, strategy.OpConfirmAndPay, audit.ActionConfirmedAndPaid, target, err)
}

// finish records the outcome of a mutation and translates its error.
func (s *Service) finish(ctx context.Context, st strategy.State, op strategy.Op, action audit.Action, target models.Status, err error) error {
	if err != nil {
		s.incrementMutation(op, st.Kind, "error")
		s.logger.WarnContext(ctx, "registration mutation failed",
			"op", string(op),
			"kind", string(st.Kind),
			"event_key", st.Event.Key(),
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return translateMutationError(err)
	}
	s.incrementMutation(op, st.Kind, "ok")
	s.logAudit(ctx, st, action, target)
	return nil
}

func translateMutationError(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "registration not found")
	case errors.Is(err, sentinel.ErrRejected):
		return dErrors.Wrap(err, dErrors.CodeConflict, "registration rejected")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "registration service unavailable")
	}
}

func (s *Service) logAudit(ctx context.Context, st strategy.State, action audit.Action, target models.Status) {
	requestID := middleware.GetRequestID(ctx)
	var actor string
	if claims, ok := middleware.GetClaims(ctx); ok && !strings.EqualFold(claims.Email, st.UserEmail) {
		actor = claims.Email
	}
	s.logger.InfoContext(ctx, string(action),
		"event", string(action),
		"log_type", "audit",
		"event_key", st.Event.Key(),
		"kind", string(st.Kind),
		"request_id", requestID,
	)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp:    requestcontext.Now(ctx),
		Action:       action,
		Email:        st.UserEmail,
		EventKey:     st.Event.Key(),
		Kind:         string(st.Kind),
		TargetStatus: string(target),
		RequestID:    requestID,
		ActorEmail:   actor,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", string(action), "error", err)
	}
}

func (s *Service) observeLoad(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveLoad(outcome, start)
	}
}

func (s *Service) incrementMutation(op strategy.Op, kind strategy.Kind, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementMutation(string(op), string(kind), outcome)
	}
}
