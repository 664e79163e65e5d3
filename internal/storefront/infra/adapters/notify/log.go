package notify

import (
	"context"
	"log/slog"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
)

// LogNotifier writes notifications to the structured log. It is the fallback
// when neither SMTP nor Kafka is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n entity.Notification) error {
	slog.InfoContext(ctx, "notification",
		"kind", n.Kind,
		"order_number", n.OrderNumber,
		"to", n.CustomerEmail,
		"status", n.Status,
		"total", n.TotalAmount.StringFixed(2),
	)
	return nil
}
