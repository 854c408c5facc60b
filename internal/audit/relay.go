package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/bogartqtpie/construction-inventory-web/pkg/kafka"
	"github.com/bogartqtpie/construction-inventory-web/pkg/logging"
	"github.com/bogartqtpie/construction-inventory-web/pkg/outbox"
)

type pendingStore interface {
	FetchPending(ctx context.Context, limit int) ([]outbox.Record, error)
	MarkSent(ctx context.Context, id int64) error
}

// Relay moves unsent outbox records to Kafka in id order.
type Relay struct {
	Store    pendingStore
	Writer   kafka.Writer
	Batch    int
	Interval time.Duration
}

// Flush sends one batch. It stops at the first failure so records are never
// published out of order.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	batch := r.Batch
	if batch <= 0 {
		batch = 100
	}
	recs, err := r.Store.FetchPending(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("fetch pending: %w", err)
	}
	sent := 0
	for _, rec := range recs {
		if err := kafka.PublishRaw(ctx, r.Writer, rec.Key, rec.Payload); err != nil {
			return sent, fmt.Errorf("publish outbox record %d: %w", rec.ID, err)
		}
		if err := r.Store.MarkSent(ctx, rec.ID); err != nil {
			return sent, fmt.Errorf("mark outbox record %d sent: %w", rec.ID, err)
		}
		sent++
	}
	return sent, nil
}

// Run flushes every Interval until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		start := time.Now()
		n, err := r.Flush(ctx)
		if err != nil {
			logging.Log(logging.Fields{Service: "outbox-relay", Step: "flush", Status: "error", Message: "outbox flush failed", Err: err})
		} else if n > 0 {
			logging.Log(logging.Fields{Service: "outbox-relay", Step: "flush", Status: "sent", Items: n, DurationMS: time.Since(start).Milliseconds(), Message: "outbox records relayed"})
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
