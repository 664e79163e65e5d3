package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor lifts the request id and idempotency key from
// incoming metadata into the context.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		var requestID, idempotencyKey string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			requestID = first(md, constants.HeaderRequestID)
			idempotencyKey = first(md, constants.HeaderIdempotencyKey)
		}
		ctx = WithRequestID(ctx, requestID)
		ctx = WithIdempotencyKey(ctx, idempotencyKey)

		slog.InfoContext(ctx, "grpc call",
			"method", info.FullMethod, "request_id", requestID, "idempotency_key", idempotencyKey)

		return handler(ctx, req)
	}
}

func first(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
