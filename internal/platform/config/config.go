package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	Environment string
	LogFormat   string
	Backend     Backend
	Redis       RedisConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Registration
}

// Backend configures the registration REST service.
type Backend struct {
	BaseURL  string
	APIToken string
	Timeout  time.Duration
}

// RedisConfig configures the optional registration cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the optional Postgres audit store.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	// Leeway absorbs clock skew with the token issuer.
	Leeway time.Duration
}

// RateLimitConfig bounds status-changing calls per user. A zero
// MutationsPerWindow disables the limiter.
type RateLimitConfig struct {
	MutationsPerWindow int
	Window             time.Duration
}

// Registration holds tunables of the registration and statistics services.
type Registration struct {
	// DefaultStatusModel applies to events that do not name a status model.
	DefaultStatusModel string
	CacheTTL           time.Duration
	StatsConcurrency   int
	AuditBuffer        int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	env := getEnv("EVENTREG_ENV", "development")

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:        getEnv("EVENTREG_ADDR", ":8080"),
		Environment: env,
		LogFormat:   getEnv("LOG_FORMAT", defaultLogFormat(env)),
		Backend: Backend{
			BaseURL:  getEnv("BACKEND_BASE_URL", "http://localhost:4000"),
			APIToken: os.Getenv("BACKEND_API_TOKEN"),
			Timeout:  getDuration("BACKEND_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     getEnv("JWT_ISSUER", "eventreg"),
			Leeway:        getDuration("JWT_LEEWAY", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			MutationsPerWindow: getInt("RATE_LIMIT_MUTATIONS", 20),
			Window:             getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Registration: Registration{
			DefaultStatusModel: getEnv("REGISTRATION_STATUS_MODEL", "current"),
			CacheTTL:           getDuration("REGISTRATION_CACHE_TTL", 30*time.Second),
			StatsConcurrency:   getInt("STATS_MAX_CONCURRENCY", 4),
			AuditBuffer:        getInt("AUDIT_BUFFER", 0),
		},
	}
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "text"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
