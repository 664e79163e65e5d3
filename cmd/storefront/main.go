package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	sagasqlite "github.com/jcmexdev/sabor-storefront/internal/coordinator/sagalog/sqlite"
	paymentservice "github.com/jcmexdev/sabor-storefront/internal/payment-service/app"
	paymentrpc "github.com/jcmexdev/sabor-storefront/internal/payment-service/rpc"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/kafka"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/config"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/service"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/adapters/notify"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/adapters/payment"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/httpx"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/infra/sqlite"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	shutdown, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := prepareDatabase(ctx, db, cfg); err != nil {
		return err
	}

	journal, err := sagasqlite.New(db)
	if err != nil {
		return err
	}

	m := metrics.NewServerMetrics(serviceName, prometheus.DefaultRegisterer)

	gateway, closeGateway, err := newGateway(cfg)
	if err != nil {
		return err
	}
	defer closeGateway()

	notifier, closeNotifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}
	defer closeNotifier()
	dispatcher := notify.NewDispatcher(notifier, m)
	defer dispatcher.Wait()

	catalog := sqlite.NewCatalogRepository(db)
	carts := sqlite.NewCartRepository(db)
	engine := service.NewOrderEngine(sqlite.NewOrderRepository(db), carts, gateway, dispatcher,
		service.WithCache(newCache(cfg, serviceName)),
		service.WithJournal(journal),
		service.WithMetrics(m),
		service.WithPaymentTimeout(cfg.PaymentTimeout),
	)

	handler := httpx.NewHandler(httpx.Services{
		Catalog:   service.NewCatalogService(catalog),
		Cart:      service.NewCartService(carts, catalog),
		Customers: service.NewCustomerService(sqlite.NewCustomerRepository(db)),
		Orders:    engine,
		Auth:      service.NewAuthService(sqlite.NewAdminRepository(db), cfg.JWTSecret, cfg.TokenTTL),
		Ping:      db.PingContext,
	})
	router := httpx.NewRouter(handler, httpx.RouterOptions{
		CORSOrigins:    cfg.CORSOrigins,
		Metrics:        m,
		MetricsHandler: metrics.Handler(prometheus.DefaultGatherer),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("storefront HTTP running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func prepareDatabase(ctx context.Context, db *sql.DB, cfg config.Config) error {
	if cfg.Seed {
		if err := sqlite.Seed(ctx, db); err != nil {
			return err
		}
	}
	if cfg.AdminPassword == "" {
		return nil
	}
	hash, err := service.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	return sqlite.EnsureAdmin(ctx, db, cfg.AdminUsername, hash)
}

func newCache(cfg config.Config, name string) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(name)
	}
	return cache.NewRedisCache(cfg.RedisAddr, name)
}

// newGateway dials the payment service when an address is configured and
// otherwise runs the simulator in-process.
func newGateway(cfg config.Config) (ports.PaymentGateway, func(), error) {
	if cfg.PaymentServiceAddr == "" {
		sim := paymentservice.NewSimulator(newCache(cfg, "payment"),
			paymentservice.WithApprovalDwell(cfg.PaymentApprovalDwell))
		slog.Info("payment simulator running in-process", "approval_dwell", cfg.PaymentApprovalDwell)
		return payment.NewLocalGateway(sim), func() {}, nil
	}

	conn, err := grpc.NewClient(cfg.PaymentServiceAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.UnaryClientInterceptor()),
	)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using remote payment service", "addr", cfg.PaymentServiceAddr)
	return payment.NewGRPCGateway(paymentrpc.NewPaymentClient(conn)), func() { _ = conn.Close() }, nil
}

// newNotifier always logs. With Kafka configured events are published for
// the notification service; otherwise SMTP, when set, mails directly.
func newNotifier(cfg config.Config) (ports.Notifier, func(), error) {
	notifiers := notify.Multi{notify.LogNotifier{}}
	closeFn := func() {}

	client := kafka.NewClient(cfg.KafkaBrokers)
	switch {
	case client.Enabled():
		w, err := client.NewWriter(cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		notifiers = append(notifiers, notify.NewKafkaNotifier(w))
		closeFn = func() {
			if err := w.Close(); err != nil {
				slog.Error("kafka writer close failed", "error", err)
			}
		}
		slog.Info("notifications published to kafka", "topic", cfg.KafkaTopic)
	case cfg.SMTP.Enabled():
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.EmailFrom))
		slog.Info("notifications sent by e-mail", "smtp", cfg.SMTP.Addr())
	}
	return notifiers, closeFn, nil
}
