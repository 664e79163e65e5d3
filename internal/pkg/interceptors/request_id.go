package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors/constants"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, constants.ContextKeyIdempotencyKey, key)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return id
}

func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	return key
}

// UnaryClientInterceptor copies the request id and idempotency key held in
// the context into outgoing metadata, unless the caller already set them.
func UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(ContextWithPropagatedID(ctx), method, req, reply, cc, opts...)
	}
}

// ContextWithPropagatedID returns ctx with outgoing metadata carrying the
// request id and idempotency key.
func ContextWithPropagatedID(ctx context.Context) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	if id := RequestID(ctx); id != "" && len(md.Get(constants.HeaderRequestID)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderRequestID, id)
	}
	if key := IdempotencyKey(ctx); key != "" && len(md.Get(constants.HeaderIdempotencyKey)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderIdempotencyKey, key)
	}
	return ctx
}
