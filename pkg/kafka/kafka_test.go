package kafka

import (
	"context"
	"testing"
	"time"

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
	assert.False(t, NewClient("").Enabled())
}

func TestNewWriterFlushesPromptly(t *testing.T) {
	w := NewClient("kafka-1:9092").NewWriter("pos.checkout")
	defer func() { _ = w.Close() }()

	assert.Equal(t, "pos.checkout", w.Topic)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
}

func TestPublishJSON(t *testing.T) {
	w := &captureWriter{}
	err := PublishJSON(context.Background(), w, "key-1", map[string]any{"sale_id": "42"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "key-1", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"sale_id":"42"}`, string(w.msgs[0].Value))
	assert.False(t, w.msgs[0].Time.IsZero())
}

func TestPublishWithoutWriter(t *testing.T) {
	err := PublishRaw(context.Background(), nil, "k", []byte("{}"))
	assert.ErrorIs(t, err, ErrDisabled)
}
