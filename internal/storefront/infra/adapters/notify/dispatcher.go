// Package notify delivers order notifications: by e-mail, to the log, or as
// Kafka events for the notification service.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/metrics"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

const defaultTimeout = 30 * time.Second

var _ ports.Dispatcher = (*Dispatcher)(nil)

// Dispatcher runs each notification in its own goroutine, detached from the
// caller's cancellation. Failures, panics included, are logged and counted,
// never returned.
type Dispatcher struct {
	notifier ports.Notifier
	metrics  *metrics.ServerMetrics
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher wraps n. m may be nil.
func NewDispatcher(n ports.Notifier, m *metrics.ServerMetrics) *Dispatcher {
	return &Dispatcher{notifier: n, metrics: m, timeout: defaultTimeout}
}

func (d *Dispatcher) Dispatch(ctx context.Context, n entity.Notification) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(ctx, "notifier panicked",
					"kind", n.Kind, "order_number", n.OrderNumber, "panic", r)
				d.metrics.NotificationDone(string(n.Kind), "failed")
			}
		}()

		if err := d.notifier.Notify(ctx, n); err != nil {
			slog.ErrorContext(ctx, "notification failed",
				"kind", n.Kind, "order_number", n.OrderNumber, "error", err)
			d.metrics.NotificationDone(string(n.Kind), "failed")
			return
		}
		d.metrics.NotificationDone(string(n.Kind), "sent")
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
