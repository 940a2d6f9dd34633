package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventreg/internal/platform/metrics"
	"eventreg/internal/platform/middleware"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Mounter mounts a feature's endpoints on a router.
type Mounter interface {
	Register(r chi.Router)
}

// PublicMounter is implemented by features with unauthenticated endpoints.
type PublicMounter interface {
	RegisterPublic(r chi.Router)
}

// Deps is everything NewRouter wires together.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Validator    middleware.JWTValidator
	Registration interface {
		Mounter
		PublicMounter
	}
	Stats Mounter
	// MutationLimiter wraps authenticated routes; nil disables it.
	MutationLimiter func(http.Handler) http.Handler
	// Checks run on GET /health; keys name the dependency.
	Checks map[string]HealthCheck
	// Gatherer backs GET /metrics; nil serves the default registry.
	Gatherer http.Handler
}

// NewRouter wires the public, authenticated and admin route groups.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Latency(d.Metrics))
	}
	r.Use(chimw.StripSlashes)

	r.Get("/health", health(d.Checks))
	metricsHandler := d.Gatherer
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		d.Registration.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(d.Validator, d.Logger))
			if d.MutationLimiter != nil {
				r.Use(d.MutationLimiter)
			}
			d.Registration.Register(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(d.Logger))
				d.Stats.Register(r)
			})
		})
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func health(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
