package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/kafka"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/config"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/adapters/notify"
)

const serviceName = "notification"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger("notification-service", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, "notification-service")
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	reader, err := kafka.NewClient(cfg.KafkaBrokers).NewReader(cfg.KafkaTopic, getEnv("KAFKA_GROUP_ID", "sabor-notification-service"))
	if err != nil {
		slog.Error("notification service needs KAFKA_BROKERS", "error", err)
		os.Exit(1)
	}
	defer reader.Close()

	m := metrics.NewServerMetrics(serviceName, prometheus.DefaultRegisterer)

	notifiers := notify.Multi{notify.LogNotifier{}}
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.EmailFrom))
		slog.Info("delivering notifications by e-mail", "smtp", cfg.SMTP.Addr())
	}

	srv := &http.Server{
		Addr:              ":" + getEnv("METRICS_PORT", "9102"),
		Handler:           opsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ops server failed", "error", err)
		}
	}()

	slog.Info("notification service consuming", "topic", cfg.KafkaTopic, "ops_addr", srv.Addr)
	if err := notify.Consume(ctx, reader, notify.Metered(notifiers, m)); err != nil {
		slog.Error("consumer stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func opsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
	return r
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
