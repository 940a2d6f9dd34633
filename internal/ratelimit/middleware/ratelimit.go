package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"eventreg/internal/platform/metrics"
	"eventreg/internal/platform/middleware"
	"eventreg/internal/ratelimit/models"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
)

// BucketStore is the sliding window backend.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Limiter throttles status-changing requests per authenticated user.
type Limiter struct {
	store   BucketStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New returns a limiter admitting limit mutations per user per window.
func New(store BucketStore, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// LimitMutations counts non-safe methods against the caller's bucket. Safe
// methods and anonymous requests pass through untouched. A failing store lets
// the request through.
func (l *Limiter) LimitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.Email == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		requestID := middleware.GetRequestID(ctx)
		result, err := l.store.Allow(ctx, models.MutationKey(claims.Email), l.limit, l.window)
		if err != nil {
			l.logger.WarnContext(ctx, "rate limit check failed, allowing request",
				"error", err,
				"request_id", requestID,
			)
			l.record("error")
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if !result.Allowed {
			l.logger.InfoContext(ctx, "mutation rate limit exceeded",
				"email", claims.Email,
				"request_id", requestID,
			)
			l.record("rejected")
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter(l.now())))
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many registration changes, try again later"))
			return
		}
		l.record("allowed")
		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) record(decision string) {
	if l.metrics != nil {
		l.metrics.RecordRateLimit(decision)
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
