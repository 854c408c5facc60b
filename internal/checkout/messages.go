package checkout

import (
	"fmt"

	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
)

const (
	SuccessNotice = "✅ Checkout successful"

	failurePrefix = "❌ Checkout failed: "
	networkPrefix = "⚠️ Network error: "
)

// RejectionReason prefers the server's error, then its message, then the
// bare HTTP status.
func RejectionReason(status int, resp *contracts.CheckoutResponse) string {
	if resp != nil {
		if resp.Error != "" {
			return resp.Error
		}
		if resp.Message != "" {
			return resp.Message
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

func FailureNotice(status int, resp *contracts.CheckoutResponse) string {
	return failurePrefix + RejectionReason(status, resp)
}

func NetworkNotice(err error) string {
	return networkPrefix + err.Error()
}

// SalePath is the sale page for id, with id inserted verbatim.
func SalePath(saleID string) string {
	return "/sales/" + saleID
}
