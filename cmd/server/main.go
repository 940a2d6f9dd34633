package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	jwttoken "eventreg/internal/jwt_token"
	"eventreg/internal/platform/config"
	"eventreg/internal/platform/httpserver"
	"eventreg/internal/platform/logger"
	"eventreg/internal/platform/metrics"
	"eventreg/internal/platform/redis"
	ratelimit "eventreg/internal/ratelimit/middleware"
	"eventreg/internal/ratelimit/store/bucket"
	"eventreg/internal/registration/client"
	reghandler "eventreg/internal/registration/handler"
	"eventreg/internal/registration/models"
	regservice "eventreg/internal/registration/service"
	"eventreg/internal/stats"
	statshandler "eventreg/internal/stats/handler"
	httptransport "eventreg/internal/transport/http"
	audit "eventreg/pkg/platform/audit"
	"eventreg/pkg/platform/audit/publisher"
	auditmemory "eventreg/pkg/platform/audit/store/memory"
	auditpostgres "eventreg/pkg/platform/audit/store/postgres"
)

// main wires dependencies, serves HTTP and shuts down on SIGINT/SIGTERM.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	m := metrics.New()
	checks := map[string]httptransport.HealthCheck{}

	restClient, err := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		client.WithAPIToken(cfg.Backend.APIToken),
		client.WithLogger(log),
		client.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	var backend client.Backend = restClient

	redisClient, err := redis.Open(context.Background(), cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		backend = client.NewRedisCache(restClient, redisClient.Client, cfg.CacheTTL,
			client.WithCacheLogger(log),
			client.WithCacheMetrics(m),
		)
		checks["redis"] = redisClient.Health
		log.Info("registration cache enabled", "ttl", cfg.CacheTTL.String())
	}

	auditStore, closeStore, err := openAuditStore(cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()
	if db, ok := auditStore.(interface{ Ping(context.Context) error }); ok {
		checks["postgres"] = db.Ping
	}

	var pubOpts []publisher.Option
	pubOpts = append(pubOpts, publisher.WithLogger(log))
	if cfg.AuditBuffer > 0 {
		pubOpts = append(pubOpts, publisher.WithAsyncBuffer(cfg.AuditBuffer))
	}
	auditPublisher := publisher.NewPublisher(auditStore, pubOpts...)
	defer auditPublisher.Close()

	registrations := regservice.New(backend,
		regservice.WithLogger(log),
		regservice.WithMetrics(m),
		regservice.WithAuditPublisher(auditPublisher),
		regservice.WithDefaultStatusModel(models.StatusModel(cfg.DefaultStatusModel)),
	)
	statistics := stats.New(backend,
		stats.WithLogger(log),
		stats.WithConcurrency(cfg.StatsConcurrency),
	)

	var limiter func(http.Handler) http.Handler
	if cfg.RateLimit.MutationsPerWindow > 0 {
		var store ratelimit.BucketStore = bucket.NewInMemoryBucketStore()
		if redisClient != nil {
			store = bucket.NewRedisBucketStore(redisClient.Client)
		}
		limiter = ratelimit.New(store, cfg.RateLimit.MutationsPerWindow, cfg.RateLimit.Window,
			ratelimit.WithLogger(log),
			ratelimit.WithMetrics(m),
		).LimitMutations
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:          log,
		Metrics:         m,
		Validator:       jwttoken.NewValidator(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, jwttoken.WithLeeway(cfg.Auth.Leeway))),
		Registration:    reghandler.New(registrations, log),
		Stats:           statshandler.New(statistics, log),
		Checks:          checks,
		MutationLimiter: limiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting eventreg", "addr", cfg.Addr, "environment", cfg.Environment)
	return httpserver.Serve(ctx, httpserver.New(cfg.Addr, router), log, 10*time.Second)
}

type pgAuditStore struct {
	*auditpostgres.Store
	db *sql.DB
}

func (s pgAuditStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// openAuditStore uses Postgres when DATABASE_URL is set and memory otherwise.
func openAuditStore(cfg config.DatabaseConfig, log *slog.Logger) (audit.Store, func(), error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set, audit trail kept in memory")
		return auditmemory.NewInMemoryStore(), func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := auditpostgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return pgAuditStore{Store: auditpostgres.New(db), db: db}, func() { _ = db.Close() }, nil
}
