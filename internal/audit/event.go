package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/bogartqtpie/construction-inventory-web/internal/checkout"
	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
)

func eventType(k checkout.Kind) string {
	switch k {
	case checkout.KindSucceeded:
		return contracts.EventCheckoutSucceeded
	case checkout.KindRejected:
		return contracts.EventCheckoutRejected
	default:
		return contracts.EventCheckoutTransportFailed
	}
}

// NewEvent converts a checkout outcome into the record published downstream.
func NewEvent(o checkout.Outcome, now time.Time) contracts.Event {
	return contracts.Event{
		EventID:        uuid.NewString(),
		IdempotencyKey: o.IdempotencyKey,
		Type:           eventType(o.Kind),
		Status:         o.HTTPStatus,
		SaleID:         o.SaleID,
		Message:        o.Notice,
		Items:          o.Items,
		DurationMS:     o.Duration.Milliseconds(),
		CreatedAt:      now.UTC(),
	}
}
