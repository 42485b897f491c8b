package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/app"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/database"
	"github.com/stemsi/quiz-backend/internal/handler"
	"github.com/stemsi/quiz-backend/internal/logger"
	"github.com/stemsi/quiz-backend/internal/monitoring"
	"github.com/stemsi/quiz-backend/internal/repository/memory"
	"github.com/stemsi/quiz-backend/internal/tracing"
	"github.com/stemsi/quiz-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
		Service: cfg.ServiceName,
	})
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Quiz Backend")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Tracing ───────────────────────────────────────────────────────
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cfg.ServiceName, cfg.TracingEndpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown tracer provider")
			}
		}()
	}

	// ─── Metrics ───────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.New(reg)

	deps := app.Deps{Metrics: metrics}

	// ─── Storage ───────────────────────────────────────────────────────
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		deps.Storage = app.MemoryStorage(store)

	case config.StoragePostgres:
		if cfg.MigrateOnStart {
			runMigrations(cfg, log)
		}

		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		deps.Storage = app.PostgresStorage(pool)
		deps.Checks = append(deps.Checks, handler.HealthCheck{Name: "postgres", Check: pool.Ping})

	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("Unknown STORAGE_DRIVER")
	}

	// ─── Connect to Redis (submission log) ────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	close(workerDone)

	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		deps.Redis = rdb
		deps.Checks = append(deps.Checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})

		// ─── Start Background Workers ─────────────────────────────────
		workerDone = startSubmissionWorker(workerCtx, rdb, deps, metrics, log)
	} else {
		log.Info().Msg("REDIS_URL not set; submission log disabled")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := app.NewEngine(cfg, log, deps)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Submission worker did not finish in time")
	}

	log.Info().Msg("Shutdown complete")
}

// startSubmissionWorker drains the submission queue into the store until
// ctx is cancelled. The returned channel closes once the worker has flushed.
func startSubmissionWorker(ctx context.Context, rdb *redis.Client, deps app.Deps, metrics *monitoring.Metrics, log zerolog.Logger) chan struct{} {
	queue := worker.NewRedisQueue(rdb, config.WorkerKey.PersistSubmissionsQueue)
	w := worker.NewSubmissionWorker(queue, deps.Storage.Submissions, metrics, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return done
}

func runMigrations(cfg *config.Config, log zerolog.Logger) {
	m, err := database.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open migrations")
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	v, _, _ := m.Version()
	log.Info().Uint("version", v).Msg("Migrations applied")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
