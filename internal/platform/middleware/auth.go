package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID string
	Email  string
	Member bool
	Admin  bool
}

type contextKeyClaims struct{}

// ContextKeyClaims is exported for tests that build authenticated requests.
var ContextKeyClaims = contextKeyClaims{}

// GetClaims retrieves the authenticated identity; ok is false for anonymous requests.
func GetClaims(ctx context.Context) (JWTClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(JWTClaims)
	return claims, ok
}

// WithClaims injects an authenticated identity into ctx.
func WithClaims(ctx context.Context, claims JWTClaims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, *claims)))
		})
	}
}

// RequireAdmin rejects authenticated callers without the admin claim. It must
// run after RequireAuth.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, ok := GetClaims(ctx)
			if !ok || !claims.Admin {
				logger.WarnContext(ctx, "forbidden - admin required",
					"request_id", GetRequestID(ctx),
					"email", claims.Email,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
