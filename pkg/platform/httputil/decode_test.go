package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventreg/internal/platform/logger"
	dErrors "eventreg/pkg/domain-errors"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (r *nameRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func decodeBody(body string) (*nameRequest, *httptest.ResponseRecorder, bool) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req, ok := DecodeAndPrepare[nameRequest](w, r, logger.Discard(), context.Background(), "req-1")
	return req, w, ok
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("valid body is normalized", func(t *testing.T) {
		req, _, ok := decodeBody(`{"name":"  ada "}`)
		require.True(t, ok)
		assert.Equal(t, "ada", req.Name)
	})

	t.Run("malformed json is a bad request", func(t *testing.T) {
		_, w, ok := decodeBody(`{"name":`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad_request")
	})

	t.Run("empty body reaches validation", func(t *testing.T) {
		_, w, ok := decodeBody(``)
		assert.False(t, ok)
		assert.Contains(t, w.Body.String(), "validation_error")
	})
}
