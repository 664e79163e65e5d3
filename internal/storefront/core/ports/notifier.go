package ports

import (
	"context"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
)

// Notifier delivers one notification synchronously.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification) error
}

// Dispatcher hands notifications off without blocking the caller. Delivery
// failures are the dispatcher's concern and never reach the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, n entity.Notification)
}
