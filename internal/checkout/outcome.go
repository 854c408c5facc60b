package checkout

import (
	"context"
	"strconv"
	"time"

	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
	"github.com/bogartqtpie/construction-inventory-web/pkg/metrics"
)

type Kind string

const (
	KindSucceeded        Kind = "succeeded"
	KindRejected         Kind = "rejected"
	KindTransportFailure Kind = "transport_failure"
)

// Outcome is the terminal result of one submission.
type Outcome struct {
	Kind           Kind
	IdempotencyKey string
	Items          []contracts.LineItem
	HTTPStatus     int
	Body           string
	Response       *contracts.CheckoutResponse
	Notice         string
	SaleID         string
	// Target is the navigation path on success with a sale id, empty on reload.
	Target   string
	Err      error
	Duration time.Duration
}

// Observer receives every outcome after the cashier has been notified.
type Observer interface {
	Observe(ctx context.Context, o Outcome) error
}

type ObserverFunc func(ctx context.Context, o Outcome) error

func (f ObserverFunc) Observe(ctx context.Context, o Outcome) error {
	return f(ctx, o)
}

type metricsObserver struct {
	m *metrics.ClientMetrics
}

func MetricsObserver(m *metrics.ClientMetrics) Observer {
	return metricsObserver{m: m}
}

func (mo metricsObserver) Observe(_ context.Context, o Outcome) error {
	status := "none"
	if o.HTTPStatus != 0 {
		status = strconv.Itoa(o.HTTPStatus)
	}
	mo.m.Checkouts.WithLabelValues(string(o.Kind), status).Inc()
	mo.m.LatencyMS.WithLabelValues(string(o.Kind)).Observe(float64(o.Duration.Milliseconds()))
	return nil
}
