// Package client talks to the registration REST service that owns events,
// registrations and payments.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"eventreg/internal/platform/metrics"
	"eventreg/internal/registration/models"
	"eventreg/internal/registration/strategy"
	"eventreg/pkg/platform/sentinel"
)

const tracerName = "eventreg/internal/registration/client"

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// HTTPError is a non-2xx response from the backend. It unwraps to the sentinel
// matching its status class.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return sentinel.ErrNotFound
	case e.StatusCode >= 500:
		return sentinel.ErrUnavailable
	default:
		return sentinel.ErrRejected
	}
}

// Client is the REST implementation of the registration backend. It performs
// exactly one request per call; retries are left to the caller.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithAPIToken(token string) Option {
	return func(c *Client) {
		c.apiToken = token
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New constructs a Client for the service rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}
	c := &Client{
		baseURL:    u.String(),
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type listResponse struct {
	Data []models.Record `json:"data"`
}

// ListByEmail returns every registration belonging to email.
func (c *Client) ListByEmail(ctx context.Context, email string) ([]models.Record, error) {
	q := url.Values{"email": {email}}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/registrations", "/registrations?email", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListByEvent returns every registration of one event instance.
func (c *Client) ListByEvent(ctx context.Context, eventID string, year int) ([]models.Record, error) {
	q := url.Values{"eventID": {eventID}, "year": {strconv.Itoa(year)}}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/registrations", "/registrations?eventID", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetEvent fetches event metadata.
func (c *Client) GetEvent(ctx context.Context, eventID string, year int) (models.Event, error) {
	path := "/events/" + url.PathEscape(eventID) + "/" + strconv.Itoa(year)
	var event models.Event
	if err := c.do(ctx, http.MethodGet, path, "/events/{id}/{year}", nil, nil, &event); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// CreateRegistration posts a new registration.
func (c *Client) CreateRegistration(ctx context.Context, payload strategy.Payload) (strategy.Result, error) {
	var res strategy.Result
	err := c.do(ctx, http.MethodPost, "/registrations", "/registrations", nil, payload, &res)
	return res, err
}

// UpdateRegistration changes an existing registration of email.
func (c *Client) UpdateRegistration(ctx context.Context, email string, payload strategy.Payload) (strategy.Result, error) {
	var res strategy.Result
	path := "/registrations/" + url.PathEscape(email)
	err := c.do(ctx, http.MethodPut, path, "/registrations/{email}", nil, payload, &res)
	return res, err
}

// CreatePayment opens a checkout session and returns its URL.
func (c *Client) CreatePayment(ctx context.Context, payload strategy.Payload) (strategy.Result, error) {
	var res strategy.Result
	err := c.do(ctx, http.MethodPost, "/payments", "/payments", nil, payload, &res)
	return res, err
}

// do performs one request. endpoint is the low-cardinality name used for spans
// and metrics.
func (c *Client) do(ctx context.Context, method, path, endpoint string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "backend "+method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("eventreg.backend.endpoint", endpoint),
	)

	start := time.Now()
	status, err := c.roundTrip(ctx, method, path, query, body, out)
	if c.metrics != nil {
		c.metrics.ObserveBackendRequest(method, endpoint, strconv.Itoa(status), time.Since(start))
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend request failed")
		if c.logger != nil {
			c.logger.WarnContext(ctx, "backend request failed",
				"method", method,
				"endpoint", endpoint,
				"status", status,
				"error", err,
			)
		}
		return err
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) (int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w: %w", method, path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			// empty bodies are allowed on mutations
			return resp.StatusCode, nil
		}
		return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, nil
}
