package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventreg/internal/platform/middleware"
)

// AsUser authenticates req as a regular attendee.
func AsUser(req *http.Request, email string, member bool) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), middleware.JWTClaims{
		UserID: "user-" + email,
		Email:  email,
		Member: member,
	}))
}

// AsAdmin authenticates req as an executive with admin rights.
func AsAdmin(req *http.Request, email string) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), middleware.JWTClaims{
		UserID: "admin-" + email,
		Email:  email,
		Admin:  true,
	}))
}

// WithURLParams attaches chi route parameters so handlers can be invoked
// directly without a router.
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
