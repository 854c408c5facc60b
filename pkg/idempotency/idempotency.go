package idempotency

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const Header = "Idempotency-Key"

// Key returns the trimmed idempotency key of an incoming request.
func Key(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(Header))
}

// NewKey returns a fresh key for one outgoing submission.
func NewKey() string {
	return uuid.NewString()
}

func Set(req *http.Request, key string) {
	if key != "" {
		req.Header.Set(Header, key)
	}
}
