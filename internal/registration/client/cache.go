package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"eventreg/internal/platform/metrics"
	"eventreg/internal/registration/models"
	"eventreg/internal/registration/strategy"
)

//go:generate mockgen -source=cache.go -destination=mocks/backend-mocks.go -package=mocks Backend

// Backend is the full surface of the registration service.
type Backend interface {
	strategy.Backend
	ListByEmail(ctx context.Context, email string) ([]models.Record, error)
	ListByEvent(ctx context.Context, eventID string, year int) ([]models.Record, error)
	GetEvent(ctx context.Context, eventID string, year int) (models.Event, error)
}

const emailKeyPrefix = "eventreg:registrations:email:"

// RedisCache is a read-through cache in front of a Backend for the by-email
// listing. Entries are keyed by the email exactly as it is sent to the
// backend. Mutations made through this cache drop the entry of the affected
// email; changes made elsewhere (staff check-in tooling, backend jobs) are only
// seen once the entry expires, so ttl is the staleness bound for those. Redis
// failures are logged and the call falls through to the backend.
type RedisCache struct {
	next    Backend
	rdb     redis.UniversalClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type CacheOption func(*RedisCache)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

// NewRedisCache wraps next. ttl bounds how stale a listing may be.
func NewRedisCache(next Backend, rdb redis.UniversalClient, ttl time.Duration, opts ...CacheOption) *RedisCache {
	c := &RedisCache{next: next, rdb: rdb, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func emailKey(email string) string {
	return emailKeyPrefix + email
}

func (c *RedisCache) ListByEmail(ctx context.Context, email string) ([]models.Record, error) {
	key := emailKey(email)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var records []models.Record
		jsonErr := json.Unmarshal(raw, &records)
		if jsonErr == nil {
			c.record("hit")
			return records, nil
		}
		c.warn(ctx, "discarding undecodable cache entry", key, jsonErr)
	case errors.Is(err, redis.Nil):
		c.record("miss")
	default:
		c.record("error")
		c.warn(ctx, "registration cache read failed", key, err)
	}

	records, err := c.next.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(records); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); setErr != nil {
			c.warn(ctx, "registration cache write failed", key, setErr)
		}
	}
	return records, nil
}

func (c *RedisCache) ListByEvent(ctx context.Context, eventID string, year int) ([]models.Record, error) {
	return c.next.ListByEvent(ctx, eventID, year)
}

func (c *RedisCache) GetEvent(ctx context.Context, eventID string, year int) (models.Event, error) {
	return c.next.GetEvent(ctx, eventID, year)
}

func (c *RedisCache) CreateRegistration(ctx context.Context, payload strategy.Payload) (strategy.Result, error) {
	defer c.invalidate(ctx, payloadEmail(payload))
	return c.next.CreateRegistration(ctx, payload)
}

func (c *RedisCache) UpdateRegistration(ctx context.Context, email string, payload strategy.Payload) (strategy.Result, error) {
	defer c.invalidate(ctx, email)
	return c.next.UpdateRegistration(ctx, email, payload)
}

func (c *RedisCache) CreatePayment(ctx context.Context, payload strategy.Payload) (strategy.Result, error) {
	defer c.invalidate(ctx, payloadEmail(payload))
	return c.next.CreatePayment(ctx, payload)
}

// invalidate runs even when the mutation failed; the backend may have applied
// part of it.
func (c *RedisCache) invalidate(ctx context.Context, email string) {
	if email == "" {
		return
	}
	key := emailKey(email)
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		c.warn(ctx, "registration cache invalidation failed", key, err)
	}
}

func payloadEmail(payload strategy.Payload) string {
	email, _ := payload["email"].(string)
	return email
}

func (c *RedisCache) record(result string) {
	if c.metrics != nil {
		c.metrics.RecordCacheLookup(result)
	}
}

func (c *RedisCache) warn(ctx context.Context, msg, key string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "key", key, "error", err)
	}
}
