package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/sabor-storefront/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata puts the request id and idempotency key into the
// context and into outgoing gRPC metadata, and echoes the request id back.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderIdempotencyKey)

		ctx := interceptors.WithRequestID(r.Context(), requestID)
		ctx = interceptors.WithIdempotencyKey(ctx, idempotencyKey)
		ctx = interceptors.ContextWithPropagatedID(ctx)

		if requestID != "" {
			w.Header().Set(middleware.RequestIDHeader, requestID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
