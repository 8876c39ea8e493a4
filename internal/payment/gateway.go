// Package payment wraps the external payment gateway. A nil Gateway means
// the platform runs in test mode: orders and payments are simulated locally
// while all other side effects (ticket PDF, email) still happen for real.
package payment

import "context"

// TestSecret signs simulated payments when no live gateway is configured.
const TestSecret = "test_secret_key"

// Order is the gateway-side handle created to collect payment for a booking.
type Order struct {
	ID       string
	Amount   int64 // minor units (paise)
	Currency string
}

// Gateway creates remote orders and exposes the credentials used to
// authenticate completed payments.
type Gateway interface {
	// CreateOrder creates a remote order for the given amount in minor
	// units, using receipt as the idempotency/receipt key.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	// KeyID is the public key the frontend checkout needs.
	KeyID() string
	// Secret is the shared secret for payment signature verification.
	Secret() string
}

// placeholder credential values that ship in sample configs. Any of these
// (or empty) means no live gateway.
var placeholderCreds = map[string]struct{}{
	"":                  {},
	"test_mode":         {},
	"rzp_test_xxxxxxxx": {},
	"your_secret_key":   {},
}

// Configured reports whether the key pair looks like real gateway
// credentials rather than placeholders.
func Configured(keyID, keySecret string) bool {
	if _, ok := placeholderCreds[keyID]; ok {
		return false
	}
	if _, ok := placeholderCreds[keySecret]; ok {
		return false
	}
	return true
}
