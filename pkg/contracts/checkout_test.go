package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutRequestPreservesOrder(t *testing.T) {
	req := CheckoutRequest{Items: []LineItem{
		{MaterialID: "7", Qty: 1},
		{MaterialID: "2", Qty: 5},
		{MaterialID: "7", Qty: 3},
	}}

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"items":[{"material_id":"7","qty":1},{"material_id":"2","qty":5},{"material_id":"7","qty":3}]}`,
		string(data))
}

func TestDecodeCheckoutResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *CheckoutResponse
	}{
		{"string fields", `{"error":"out of stock","message":"m","sale_id":"S-1"}`, &CheckoutResponse{Error: "out of stock", Message: "m", SaleID: "S-1"}},
		{"integer sale id", `{"success":true,"message":"Checkout successful","sale_id":42,"low":[]}`, &CheckoutResponse{Message: "Checkout successful", SaleID: "42"}},
		{"integral float sale id", `{"sale_id":1.0}`, &CheckoutResponse{SaleID: "1"}},
		{"exponent sale id", `{"sale_id":1e2}`, &CheckoutResponse{SaleID: "100"}},
		{"fractional sale id", `{"sale_id":2.5}`, &CheckoutResponse{SaleID: "2.5"}},
		{"numeric error", `{"error":4.0e1}`, &CheckoutResponse{Error: "40"}},
		{"float zero is absent", `{"sale_id":0.0}`, &CheckoutResponse{}},
		{"zero sale id is absent", `{"sale_id":0}`, &CheckoutResponse{}},
		{"null fields are absent", `{"error":null,"sale_id":null}`, &CheckoutResponse{}},
		{"empty object", `{}`, &CheckoutResponse{}},
		{"composite values are absent", `{"error":{"code":1},"message":["x"]}`, &CheckoutResponse{}},
		{"true renders as text", `{"error":true}`, &CheckoutResponse{Error: "true"}},
		{"html page", `<html><body>Bad Gateway</body></html>`, nil},
		{"empty body", ``, nil},
		{"json null", `null`, nil},
		{"json array", `[1,2]`, nil},
		{"json string", `"oops"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeCheckoutResponse(tt.text))
		})
	}
}
