package notify

import (
	"context"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

type metered struct {
	next    ports.Notifier
	metrics *metrics.ServerMetrics
}

// Metered counts the outcome of every delivery made through n.
func Metered(n ports.Notifier, m *metrics.ServerMetrics) ports.Notifier {
	return metered{next: n, metrics: m}
}

func (mn metered) Notify(ctx context.Context, n entity.Notification) error {
	if err := mn.next.Notify(ctx, n); err != nil {
		mn.metrics.NotificationDone(string(n.Kind), "failed")
		return err
	}
	mn.metrics.NotificationDone(string(n.Kind), "sent")
	return nil
}
