package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay is the live Gateway implementation.
type Razorpay struct {
	client *razorpay.Client
	keyID  string
	secret string
}

// NewRazorpay creates a Razorpay gateway client.
func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
		secret: keySecret,
	}
}

// CreateOrder creates a Razorpay order with immediate payment capture.
func (r *Razorpay) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	body, err := r.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order create: missing order id in response")
	}
	out := &Order{ID: id, Amount: amount, Currency: currency}
	// Razorpay echoes amount/currency; prefer its values when present.
	if v, ok := body["amount"].(float64); ok {
		out.Amount = int64(v)
	}
	if v, ok := body["currency"].(string); ok {
		out.Currency = v
	}
	return out, nil
}

// KeyID returns the public key ID.
func (r *Razorpay) KeyID() string { return r.keyID }

// Secret returns the shared secret for signature verification.
func (r *Razorpay) Secret() string { return r.secret }
