package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventreg/internal/platform/middleware"
	"eventreg/internal/registration/models"
	"eventreg/internal/stats"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	pstrings "eventreg/pkg/platform/strings"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service

const maxCompareEvents = 20

// Service is the statistics surface the handler depends on.
type Service interface {
	EventStats(ctx context.Context, event models.Event, paths []string) (*stats.EventStats, error)
	CompareEvents(ctx context.Context, events []models.Event, path string) ([]stats.EventCounts, error)
}

// Handler serves the admin statistics endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the endpoints. The router must restrict them to admins.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/events/{eventID}/{year}/stats", h.HandleEventStats)
	r.Get("/admin/stats/compare", h.HandleCompare)
}

// HandleEventStats handles GET /admin/events/{eventID}/{year}/stats?field=...
func (h *Handler) HandleEventStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	eventID := strings.TrimSpace(chi.URLParam(r, "eventID"))
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if eventID == "" || err != nil || year <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "event id and a positive year are required"))
		return
	}
	fields := pstrings.SplitDedupeAndTrim(r.URL.Query()["field"], ",")

	result, err := h.service.EventStats(ctx, models.Event{ID: eventID, Year: year}, fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "event stats failed",
			"request_id", requestID,
			"event_key", models.CompositeKey(eventID, year),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleCompare handles GET /admin/stats/compare?event=id%3Byear&field=path.
// The semicolon of each event key must be percent-encoded.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	query := r.URL.Query()

	keys := pstrings.DedupeAndTrim(query["event"])
	if len(keys) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "at least one event is required"))
		return
	}
	if len(keys) > maxCompareEvents {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "too many events to compare"))
		return
	}
	events := make([]models.Event, 0, len(keys))
	for _, key := range keys {
		id, year, err := models.ParseCompositeKey(key)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid event key: "+key))
			return
		}
		events = append(events, models.Event{ID: id, Year: year})
	}

	field := strings.TrimSpace(query.Get("field"))
	if field == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "field is required"))
		return
	}

	result, err := h.service.CompareEvents(ctx, events, field)
	if err != nil {
		h.logger.ErrorContext(ctx, "event comparison failed",
			"request_id", requestID,
			"events", len(events),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
