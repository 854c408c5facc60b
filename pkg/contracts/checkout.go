package contracts

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// CheckoutPath is the server endpoint receiving checkout submissions.
const CheckoutPath = "/checkout"

type LineItem struct {
	MaterialID string `json:"material_id"`
	Qty        int    `json:"qty"`
}

type CheckoutRequest struct {
	Items []LineItem `json:"items"`
}

// CheckoutResponse holds the optional fields a checkout endpoint may return.
// Empty strings mean the field was absent.
type CheckoutResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	SaleID  string `json:"sale_id,omitempty"`
}

var errNotObject = errors.New("checkout response is not a JSON object")

// UnmarshalJSON accepts any scalar for the known fields. The inventory
// server returns sale_id as an integer, so numbers are rendered as text.
// null, false, 0, "" and composite values count as absent.
func (r *CheckoutResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errNotObject
	}
	r.Error = scalarText(raw["error"])
	r.Message = scalarText(raw["message"])
	r.SaleID = scalarText(raw["sale_id"])
	return nil
}

// DecodeCheckoutResponse parses a response body. It returns nil when the
// text is not a JSON object; callers treat that as "no structured data".
func DecodeCheckoutResponse(text string) *CheckoutResponse {
	var resp CheckoutResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil
	}
	return &resp
}

// numberText prints f the way a browser script would: integral values
// without a fraction or exponent, others in shortest form. Zero is absent.
func numberText(f float64) string {
	switch {
	case f == 0:
		return ""
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			if i == 0 {
				return ""
			}
			return strconv.FormatInt(i, 10)
		}
		f, err := x.Float64()
		if err != nil {
			return x.String()
		}
		return numberText(f)
	case bool:
		if x {
			return "true"
		}
	}
	return ""
}
