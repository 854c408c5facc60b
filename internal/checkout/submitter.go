package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
	"github.com/bogartqtpie/construction-inventory-web/pkg/idempotency"
	"github.com/bogartqtpie/construction-inventory-web/pkg/logging"
)

// Notifier shows a blocking message to the cashier.
type Notifier interface {
	Notify(text string)
}

// Navigator moves the cashier's view after a successful checkout.
type Navigator interface {
	Navigate(path string)
	Reload()
}

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportError wraps any failure to deliver the request or read its reply.
// Its message is the underlying error's message.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

type Config struct {
	BaseURL string
	// Client defaults to an http.Client without a timeout.
	Client    Doer
	Service   string
	Observers []Observer
	NewKey    func() string
	Now       func() time.Time
}

// Submitter posts a cart to the checkout endpoint and drives the cashier's
// notification and navigation. It keeps no state between calls.
type Submitter struct {
	url       string
	client    Doer
	service   string
	observers []Observer
	newKey    func() string
	now       func() time.Time
	notifier  Notifier
	navigator Navigator
}

func NewSubmitter(cfg Config, notifier Notifier, navigator Navigator) *Submitter {
	s := &Submitter{
		url:       strings.TrimRight(cfg.BaseURL, "/") + contracts.CheckoutPath,
		client:    cfg.Client,
		service:   cfg.Service,
		observers: cfg.Observers,
		newKey:    cfg.NewKey,
		now:       cfg.Now,
		notifier:  notifier,
		navigator: navigator,
	}
	if s.client == nil {
		s.client = &http.Client{}
	}
	if s.service == "" {
		s.service = "pos-checkout"
	}
	if s.newKey == nil {
		s.newKey = idempotency.NewKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit performs one checkout attempt. Every path ends in exactly one
// notification; nothing is retried or returned.
func (s *Submitter) Submit(ctx context.Context, items []contracts.LineItem) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := s.roundTrip(ctx, items)

	s.notifier.Notify(o.Notice)
	if o.Kind == KindSucceeded {
		if o.Target != "" {
			s.navigator.Navigate(o.Target)
		} else {
			s.navigator.Reload()
		}
	}

	s.observe(context.WithoutCancel(ctx), o)
}

func (s *Submitter) roundTrip(ctx context.Context, items []contracts.LineItem) Outcome {
	start := s.now()
	o := Outcome{
		IdempotencyKey: s.newKey(),
		Items:          make([]contracts.LineItem, len(items)),
	}
	copy(o.Items, items)

	status, text, err := s.post(ctx, o.IdempotencyKey, o.Items)
	o.Duration = s.now().Sub(start)
	if err != nil {
		o.Kind = KindTransportFailure
		o.Err = err
		o.Notice = NetworkNotice(err)
		logging.Log(logging.Fields{
			Service:        s.service,
			IdempotencyKey: o.IdempotencyKey,
			Step:           "network_error",
			Status:         string(o.Kind),
			DurationMS:     o.Duration.Milliseconds(),
			Message:        "checkout request failed",
			Err:            err,
		})
		return o
	}

	o.HTTPStatus = status
	o.Body = text
	o.Response = contracts.DecodeCheckoutResponse(text)

	success := status >= 200 && status < 300
	if success && o.Response != nil {
		o.SaleID = o.Response.SaleID
	}

	parsed := "parsed"
	if o.Response == nil {
		parsed = "unparsed"
	}
	logging.Log(logging.Fields{
		Service:        s.service,
		IdempotencyKey: o.IdempotencyKey,
		SaleID:         o.SaleID,
		Step:           "response",
		Status:         parsed,
		HTTPStatus:     status,
		DurationMS:     o.Duration.Milliseconds(),
		Body:           text,
		Message:        "checkout response",
	})

	if !success {
		o.Kind = KindRejected
		o.Notice = FailureNotice(status, o.Response)
		return o
	}

	o.Kind = KindSucceeded
	o.Notice = SuccessNotice
	if o.SaleID != "" {
		o.Target = SalePath(o.SaleID)
	}
	return o
}

// post sends the request and returns the status with the full body text.
func (s *Submitter) post(ctx context.Context, key string, items []contracts.LineItem) (int, string, error) {
	data, err := json.Marshal(contracts.CheckoutRequest{Items: items})
	if err != nil {
		return 0, "", &TransportError{Op: "encode", Err: err}
	}

	logging.Log(logging.Fields{
		Service:        s.service,
		IdempotencyKey: key,
		Step:           "send",
		Items:          len(items),
		Body:           string(data),
		Message:        "sending payload to " + contracts.CheckoutPath,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return 0, "", &TransportError{Op: "build", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	idempotency.Set(req, key)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, "", &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", &TransportError{Op: "read", Err: err}
	}
	return resp.StatusCode, string(body), nil
}

func (s *Submitter) observe(ctx context.Context, o Outcome) {
	for _, obs := range s.observers {
		if err := obs.Observe(ctx, o); err != nil {
			logging.Log(logging.Fields{
				Service:        s.service,
				IdempotencyKey: o.IdempotencyKey,
				Step:           "observe",
				Status:         string(o.Kind),
				Message:        "outcome observer failed",
				Err:            err,
			})
		}
	}
}
