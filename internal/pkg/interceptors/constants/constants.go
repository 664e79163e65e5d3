// Package constants names the request metadata the storefront carries from
// HTTP headers into contexts and gRPC calls to the payment service.
package constants

type contextKey string

// Header names are lower case so they double as gRPC metadata keys.
const (
	HeaderRequestID      = "x-request-id"
	HeaderIdempotencyKey = "x-idempotency-key"
)

const (
	ContextKeyRequestID      contextKey = HeaderRequestID
	ContextKeyIdempotencyKey contextKey = HeaderIdempotencyKey
)
