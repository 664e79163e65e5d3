package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/jcmexdev/sabor-storefront/internal/pkg/kafka"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

// Event is the Kafka envelope of a notification. Messages are keyed by
// order number so one order's events stay ordered.
type Event struct {
	EventID string `json:"event_id"`
	entity.Notification
}

// KafkaNotifier publishes notifications for the notification service to deliver.
type KafkaNotifier struct {
	writer kafka.MessageWriter
}

func NewKafkaNotifier(w kafka.MessageWriter) *KafkaNotifier {
	return &KafkaNotifier{writer: w}
}

func (k *KafkaNotifier) Notify(ctx context.Context, n entity.Notification) error {
	evt := Event{EventID: uuid.NewString(), Notification: n}
	if err := kafka.PublishJSON(ctx, k.writer, n.OrderNumber, evt); err != nil {
		return fmt.Errorf("notify: publish %s for %s: %w", n.Kind, n.OrderNumber, err)
	}
	return nil
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
}

const readRetryDelay = 2 * time.Second

// Consume reads events until ctx is cancelled and hands each one to n.
// Undecodable events and delivery failures are logged and skipped.
func Consume(ctx context.Context, r MessageReader, n ports.Notifier) error {
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			slog.ErrorContext(ctx, "kafka read failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			slog.WarnContext(ctx, "notification event decode failed", "offset", msg.Offset, "error", err)
			continue
		}
		if evt.EventID == "" {
			continue
		}
		if err := n.Notify(ctx, evt.Notification); err != nil {
			slog.ErrorContext(ctx, "notification delivery failed",
				"event_id", evt.EventID, "order_number", evt.OrderNumber, "error", err)
			continue
		}
		slog.InfoContext(ctx, "notification delivered",
			"event_id", evt.EventID, "kind", evt.Kind, "order_number", evt.OrderNumber)
	}
}
