package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vaultly/internal/audit"
	"vaultly/internal/jwtauth"
	"vaultly/internal/kyc/cache"
	kycHandler "vaultly/internal/kyc/handler"
	kycMetrics "vaultly/internal/kyc/metrics"
	"vaultly/internal/kyc/registry"
	"vaultly/internal/kyc/service"
	"vaultly/internal/kyc/store"
	"vaultly/internal/kyc/verifier"
	"vaultly/internal/platform/config"
	"vaultly/internal/platform/httpserver"
	"vaultly/internal/platform/logger"
	"vaultly/internal/platform/metrics"
	"vaultly/internal/platform/middleware"
	platformredis "vaultly/internal/platform/redis"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	httpMetrics := metrics.New()
	kycM := kycMetrics.New()

	// Storage: Postgres when a DSN is configured, in-memory otherwise.
	var (
		statuses    store.Store    = store.NewMemoryStore()
		panRegistry registry.Store = registry.NewMemoryStore()
		pool        *pgxpool.Pool
	)
	if cfg.PostgresDSN != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		statuses = store.NewPostgresStore(pool)
		panRegistry = registry.NewPostgresStore(pool)
		log.Info("using postgres storage")
	} else {
		log.Warn("no postgres DSN configured, using in-memory storage")
	}

	// Status cache: shared via Redis when configured, per-process otherwise.
	var statusCache cache.Cache = cache.NewMemoryCache(config.StatusCacheTTL, kycM)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		statusCache = cache.NewRedisCache(redisClient.Client, config.StatusCacheTTL, kycM)
		log.Info("using redis status cache")
	}

	// Verification provider.
	var verifierClient verifier.Client
	switch {
	case cfg.Verifier.UseMock || cfg.Verifier.BaseURL == "":
		verifierClient = verifier.MockClient{Latency: 200 * time.Millisecond}
		log.Warn("using mock PAN verifier")
	default:
		verifierClient = verifier.NewHTTPClient(cfg.Verifier, kycM)
	}

	// Audit trail: Kafka when brokers are configured, in-memory otherwise.
	var auditSink service.AuditSink = audit.NewPublisher(audit.NewMemoryStore())
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka audit sink setup failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaSink.Close(closeCtx); err != nil {
				log.Warn("kafka audit sink close failed", "error", err)
			}
		}()
		auditSink = kafkaSink
		log.Info("publishing audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	}

	kycService := service.New(statuses, panRegistry, statusCache, verifierClient,
		service.WithLogger(log),
		service.WithAuditSink(auditSink),
		service.WithMetrics(kycM),
	)
	handler := kycHandler.New(kycService, log)
	tokens := jwtauth.NewService(cfg.JWTSigningKey, "vaultly")

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Device)
	router.Use(middleware.LatencyMiddleware(httpMetrics))
	router.Use(middleware.Timeout(60 * time.Second))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthz(pool, redisClient))

	router.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(tokens, log))
		handler.Register(r)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(cfg.AdminTokenHash, log))
		handler.RegisterAdmin(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting vaultly kyc service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

// healthz reports liveness plus the health of attached infrastructure.
func healthz(pool *pgxpool.Pool, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, `{"status":"postgres unavailable"}`, http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(ctx); err != nil {
				http.Error(w, `{"status":"redis unavailable"}`, http.StatusServiceUnavailable)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
