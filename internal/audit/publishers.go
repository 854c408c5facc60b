package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/bogartqtpie/construction-inventory-web/internal/checkout"
	"github.com/bogartqtpie/construction-inventory-web/pkg/kafka"
)

// KafkaPublisher publishes each outcome straight to a topic, keyed by the
// submission's idempotency key.
type KafkaPublisher struct {
	Writer kafka.Writer
	Now    func() time.Time
}

func (p *KafkaPublisher) Observe(ctx context.Context, o checkout.Outcome) error {
	evt := NewEvent(o, now(p.Now))
	if err := kafka.PublishJSON(ctx, p.Writer, evt.IdempotencyKey, evt); err != nil {
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	return nil
}

type inserter interface {
	Insert(ctx context.Context, eventID, topic, key string, payload any) error
}

// OutboxPublisher records each outcome in the outbox table for the relay.
type OutboxPublisher struct {
	Store inserter
	Topic string
	Now   func() time.Time
}

func (p *OutboxPublisher) Observe(ctx context.Context, o checkout.Outcome) error {
	evt := NewEvent(o, now(p.Now))
	if err := p.Store.Insert(ctx, evt.EventID, p.Topic, evt.IdempotencyKey, evt); err != nil {
		return fmt.Errorf("outbox insert %s: %w", evt.Type, err)
	}
	return nil
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}
