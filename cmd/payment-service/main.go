package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	paymentservice "github.com/jcmexdev/sabor-storefront/internal/payment-service/app"
	paymentrpc "github.com/jcmexdev/sabor-storefront/internal/payment-service/rpc"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/cache"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("payment-service", getEnv("LOG_LEVEL", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, getEnv("OTEL_SERVICE_NAME", "payment-service"))
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

	dwell, err := time.ParseDuration(getEnv("PAYMENT_APPROVAL_DWELL", paymentservice.DefaultApprovalDwell.String()))
	if err != nil {
		slog.Error("invalid PAYMENT_APPROVAL_DWELL", "error", err)
		os.Exit(1)
	}

	addr := ":" + getEnv("PORT", "9091")
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)

	var store cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		store = cache.NewRedisCache(redisAddr, "payment")
	} else {
		store = cache.NewMemoryCache("payment")
	}
	sim := paymentservice.NewSimulator(store,
		paymentservice.WithApprovalDwell(dwell),
		paymentservice.WithMerchant(
			getEnv("PIX_KEY", "pix@surrealsabor.com.br"),
			getEnv("MERCHANT_NAME", "Surreal Sabor"),
			getEnv("MERCHANT_CITY", "SAO PAULO"),
		),
	)
	paymentrpc.RegisterPaymentServer(grpcServer, paymentservice.NewServer(sim))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(paymentrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		healthSrv.Shutdown()
		grpcServer.GracefulStop()
	}()

	slog.Info("payment service gRPC running", "addr", addr, "approval_dwell", dwell)
	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
