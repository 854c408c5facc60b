package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bogartqtpie/construction-inventory-web/internal/checkout"
	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
	"github.com/bogartqtpie/construction-inventory-web/pkg/kafka"
	"github.com/bogartqtpie/construction-inventory-web/pkg/outbox"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }

type captureWriter struct {
	msgs []segkafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func succeeded() checkout.Outcome {
	return checkout.Outcome{
		Kind:           checkout.KindSucceeded,
		IdempotencyKey: "key-1",
		Items:          []contracts.LineItem{{MaterialID: "1", Qty: 2}},
		HTTPStatus:     200,
		Notice:         checkout.SuccessNotice,
		SaleID:         "42",
		Target:         "/sales/42",
		Duration:       35 * time.Millisecond,
	}
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(succeeded(), fixedNow())

	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, contracts.EventCheckoutSucceeded, evt.Type)
	assert.Equal(t, "key-1", evt.IdempotencyKey)
	assert.Equal(t, "42", evt.SaleID)
	assert.Equal(t, 200, evt.Status)
	assert.EqualValues(t, 35, evt.DurationMS)
	assert.Equal(t, fixedNow(), evt.CreatedAt)

	rejected := NewEvent(checkout.Outcome{Kind: checkout.KindRejected}, fixedNow())
	assert.Equal(t, contracts.EventCheckoutRejected, rejected.Type)
	failed := NewEvent(checkout.Outcome{Kind: checkout.KindTransportFailure}, fixedNow())
	assert.Equal(t, contracts.EventCheckoutTransportFailed, failed.Type)
}

func TestKafkaPublisher(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{Writer: w, Now: fixedNow}
	require.NoError(t, p.Observe(context.Background(), succeeded()))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "key-1", string(w.msgs[0].Key))

	var evt contracts.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &evt))
	assert.Equal(t, contracts.EventCheckoutSucceeded, evt.Type)
	assert.Equal(t, succeeded().Items, evt.Items)
}

func TestKafkaPublisherError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaPublisher{Writer: &captureWriter{err: boom}}
	assert.ErrorIs(t, p.Observe(context.Background(), succeeded()), boom)

	assert.ErrorIs(t, (&KafkaPublisher{}).Observe(context.Background(), succeeded()), kafka.ErrDisabled)
}

type fakeOutbox struct {
	inserted []outbox.Record
	pending  []outbox.Record
	sent     []int64
	fetchErr error
	markErr  error
}

func (f *fakeOutbox) Insert(_ context.Context, eventID, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.inserted = append(f.inserted, outbox.Record{EventID: eventID, Topic: topic, Key: key, Payload: data})
	return nil
}

func (f *fakeOutbox) FetchPending(_ context.Context, limit int) ([]outbox.Record, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkSent(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.sent = append(f.sent, id)
	return nil
}

func TestOutboxPublisher(t *testing.T) {
	store := &fakeOutbox{}
	p := &OutboxPublisher{Store: store, Topic: "pos.checkout", Now: fixedNow}
	require.NoError(t, p.Observe(context.Background(), succeeded()))

	require.Len(t, store.inserted, 1)
	rec := store.inserted[0]
	assert.Equal(t, "pos.checkout", rec.Topic)
	assert.Equal(t, "key-1", rec.Key)

	var evt contracts.Event
	require.NoError(t, json.Unmarshal(rec.Payload, &evt))
	assert.Equal(t, rec.EventID, evt.EventID)
}

func TestRelayFlush(t *testing.T) {
	store := &fakeOutbox{pending: []outbox.Record{
		{ID: 1, Key: "a", Payload: json.RawMessage(`{"n":1}`)},
		{ID: 2, Key: "b", Payload: json.RawMessage(`{"n":2}`)},
		{ID: 3, Key: "c", Payload: json.RawMessage(`{"n":3}`)},
	}}
	w := &captureWriter{}
	r := &Relay{Store: store, Writer: w, Batch: 2}

	n, err := r.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 2}, store.sent)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "a", string(w.msgs[0].Key))
	assert.Equal(t, `{"n":2}`, string(w.msgs[1].Value))
}

func TestRelayFlushStopsAtFirstFailure(t *testing.T) {
	store := &fakeOutbox{pending: []outbox.Record{{ID: 1, Key: "a", Payload: json.RawMessage(`{}`)}}}
	boom := errors.New("broker unavailable")

	n, err := (&Relay{Store: store, Writer: &captureWriter{err: boom}}).Flush(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	assert.Empty(t, store.sent)

	store.fetchErr = errors.New("db down")
	_, err = (&Relay{Store: store, Writer: &captureWriter{}}).Flush(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestRelayRunStopsOnCancel(t *testing.T) {
	store := &fakeOutbox{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&Relay{Store: store, Writer: &captureWriter{}, Interval: time.Millisecond}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublishersAreObservers(t *testing.T) {
	var _ checkout.Observer = &KafkaPublisher{}
	var _ checkout.Observer = &OutboxPublisher{}
}
