package contracts

import "time"

// Event is the record emitted once per checkout submission, after the
// cashier has been notified.
type Event struct {
	EventID        string     `json:"event_id"`
	IdempotencyKey string     `json:"idempotency_key"`
	Type           string     `json:"type"`
	Status         int        `json:"status,omitempty"`
	SaleID         string     `json:"sale_id,omitempty"`
	Message        string     `json:"message"`
	Items          []LineItem `json:"items"`
	DurationMS     int64      `json:"duration_ms"`
	CreatedAt      time.Time  `json:"created_at"`
}

const (
	EventCheckoutSucceeded       = "checkout.succeeded"
	EventCheckoutRejected        = "checkout.rejected"
	EventCheckoutTransportFailed = "checkout.transport_failed"
)
