package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventreg/internal/platform/middleware"
	"eventreg/internal/registration/models"
	"eventreg/internal/registration/service"
	"eventreg/internal/registration/strategy"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

// Service is the registration surface the handler depends on.
type Service interface {
	Event(ctx context.Context, eventID string, year int) (models.Event, error)
	Load(ctx context.Context, event models.Event, email string, user models.User) (strategy.State, error)
	Register(ctx context.Context, st strategy.State, mode service.Mode, payload strategy.Payload) (string, error)
	ConfirmAttendance(ctx context.Context, st strategy.State, payload strategy.Payload) error
	ConfirmAndPay(ctx context.Context, st strategy.State, target models.Status, payload strategy.Payload) (string, error)
}

// Handler wires registration endpoints to the registration service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts endpoints that need no authentication.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/statuses", h.HandleStatuses)
}

// Register mounts the per-user registration endpoints. The router must apply
// RequireAuth before these.
func (h *Handler) Register(r chi.Router) {
	r.Route("/events/{eventID}/{year}/registration", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Post("/", h.HandleRegister)
		r.Post("/confirm", h.HandleConfirm)
		r.Post("/confirm-and-pay", h.HandleConfirmAndPay)
	})
}

// HandleStatuses handles GET /statuses.
func (h *Handler) HandleStatuses(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, statusOptions())
}

// HandleGet handles GET /events/{eventID}/{year}/registration.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	st, ok := h.load(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, strategy.Describe(st))
}

// HandleRegister handles POST /events/{eventID}/{year}/registration.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	st, ok := h.load(w, r)
	if !ok {
		return
	}

	mode := req.parsedMode
	if mode == "" {
		mode = service.ModeFor(st.Event, st.User)
	}
	url, err := h.service.Register(ctx, st, mode, req.Payload)
	if err != nil {
		h.fail(w, r, "registration failed", err, "mode", string(mode))
		return
	}

	h.logger.InfoContext(ctx, "registration submitted",
		"request_id", requestID,
		"event_key", st.Event.Key(),
		"mode", string(mode),
		"kind", string(st.Kind),
	)
	httputil.WriteJSON(w, http.StatusOK, MutationResponse{PaymentURL: url})
}

// HandleConfirm handles POST .../registration/confirm.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ConfirmRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	st, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := h.service.ConfirmAttendance(ctx, st, req.Payload); err != nil {
		h.fail(w, r, "confirm attendance failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleConfirmAndPay handles POST .../registration/confirm-and-pay.
func (h *Handler) HandleConfirmAndPay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ConfirmAndPayRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	st, ok := h.load(w, r)
	if !ok {
		return
	}
	url, err := h.service.ConfirmAndPay(ctx, st, req.parsedTarget, req.Payload)
	if err != nil {
		h.fail(w, r, "confirm and pay failed", err, "target_status", req.TargetStatus)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MutationResponse{PaymentURL: url})
}

// load resolves the event from the path and the subject from the token, then
// loads the registration state. Admins may act on another user via ?email=.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (strategy.State, bool) {
	ctx := r.Context()

	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return strategy.State{}, false
	}

	eventID, year, err := parseEventPath(chi.URLParam(r, "eventID"), chi.URLParam(r, "year"))
	if err != nil {
		httputil.WriteError(w, err)
		return strategy.State{}, false
	}

	user := models.User{ID: claims.UserID, Email: claims.Email, IsMember: claims.Member, Admin: claims.Admin}
	if target := strings.TrimSpace(r.URL.Query().Get("email")); target != "" && !strings.EqualFold(target, claims.Email) {
		if !claims.Admin {
			h.logger.WarnContext(ctx, "forbidden - acting on another user's registration",
				"request_id", middleware.GetRequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only admins may act on other users"))
			return strategy.State{}, false
		}
		// membership of the target is unknown; callers pick the mode explicitly
		user = models.User{Email: target}
	}

	event, err := h.service.Event(ctx, eventID, year)
	if err != nil {
		h.fail(w, r, "failed to load event", err)
		return strategy.State{}, false
	}
	st, err := h.service.Load(ctx, event, user.Email, user)
	if err != nil {
		h.fail(w, r, "failed to load registration", err)
		return strategy.State{}, false
	}
	return st, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	args := append([]any{
		"request_id", middleware.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	}, attrs...)
	if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.CodeOf(err) == dErrors.CodeUnavailable {
		h.logger.ErrorContext(r.Context(), msg, args...)
	} else {
		h.logger.WarnContext(r.Context(), msg, args...)
	}
	httputil.WriteError(w, err)
}
