package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/user/listing-collector/internal/adapter/chromedp_browser"
	"github.com/user/listing-collector/internal/adapter/export"
	"github.com/user/listing-collector/internal/adapter/postgres"
	redis_adapter "github.com/user/listing-collector/internal/adapter/redis"
	"github.com/user/listing-collector/internal/collector"
	"github.com/user/listing-collector/internal/usecase"
	"github.com/user/listing-collector/pkg/config"
	"github.com/user/listing-collector/pkg/logger"
	"github.com/user/listing-collector/pkg/metrics"
)

const metricsAddr = ":9091"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String())

	// --- Metrics ---
	metrics.Init()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics listener stopped", "addr", metricsAddr, "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Database Connections ---
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL())
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	if err := postgres.EnsureSchema(ctx, dbpool); err != nil {
		slog.Error("Unable to prepare database schema", "error", err)
		os.Exit(1)
	}
	slog.Info("PostgreSQL connection pool established")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Browser ---
	browser := chromedp_browser.NewChromedpBrowser(chromedp_browser.Options{
		Headless:        cfg.Headless,
		UserAgents:      cfg.UserAgentPool(),
		Proxies:         cfg.ProxyURLs,
		PageLoadTimeout: cfg.PageLoadTimeout(),
		ListWaitTimeout: cfg.ListWaitTimeout(),
	})

	// --- Use Cases ---
	runner := usecase.NewCollectionRunner(browser, export.NewFileExporter(), collector.Options{
		MaxAttempts: cfg.MaxAttempts,
		WaitTimeout: cfg.WaitTimeout(),
		RetryPause:  cfg.RetryPause(),
	})
	worker := usecase.NewRunWorker(
		redis_adapter.NewQueueRepo(rdb),
		postgres.NewRunRepo(dbpool),
		postgres.NewFailedRunRepo(dbpool),
		runner,
		usecase.WorkerConfig{
			OutputDir:     cfg.OutputDir,
			TrimOvershoot: cfg.TrimOvershoot,
			PollInterval:  cfg.WorkerPollInterval(),
		},
	)

	worker.Start(ctx)
	slog.Info("Worker shut down")
}
