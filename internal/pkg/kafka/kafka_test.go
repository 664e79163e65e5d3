package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestNewClientParsesBrokers(t *testing.T) {
	c := NewClient(" kafka-1:9092, ,kafka-2:9092 ")
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Brokers)
	assert.True(t, c.Enabled())

	empty := NewClient("")
	assert.False(t, empty.Enabled())
	_, err := empty.NewWriter("orders")
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = empty.NewReader("orders", "notifications")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPublishJSON(t *testing.T) {
	w := &captureWriter{}
	require.NoError(t, PublishJSON(context.Background(), w, "SS01", map[string]string{"kind": "order.confirmation"}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "SS01", string(w.msgs[0].Key))
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "order.confirmation", got["kind"])
	assert.False(t, w.msgs[0].Time.IsZero())
}
