package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	sig := Sign("order_123", "pay_456", "s3cret")

	assert.Len(t, sig, 64, "hex-encoded SHA-256 digest")
	assert.Equal(t, sig, Sign("order_123", "pay_456", "s3cret"), "deterministic")
	assert.NotEqual(t, sig, Sign("order_123", "pay_456", "other"), "secret must matter")
	assert.NotEqual(t, sig, Sign("order_124", "pay_456", "s3cret"), "order id must matter")
}

func TestVerifySignature(t *testing.T) {
	sig := Sign("order_123", "pay_456", "s3cret")

	assert.True(t, VerifySignature("order_123", "pay_456", sig, "s3cret"))
	assert.False(t, VerifySignature("order_123", "pay_456", sig, "wrong"))
	assert.False(t, VerifySignature("order_123", "pay_999", sig, "s3cret"))
	assert.False(t, VerifySignature("order_123", "pay_456", "", "s3cret"))
	assert.False(t, VerifySignature("order_123", "pay_456", sig+"00", "s3cret"))
}

func TestConfigured(t *testing.T) {
	cases := []struct {
		name      string
		keyID     string
		keySecret string
		want      bool
	}{
		{"real credentials", "rzp_live_abc123", "real_secret", true},
		{"empty key", "", "real_secret", false},
		{"empty secret", "rzp_live_abc123", "", false},
		{"test_mode placeholder", "test_mode", "test_mode", false},
		{"sample key placeholder", "rzp_test_xxxxxxxx", "real_secret", false},
		{"sample secret placeholder", "rzp_live_abc123", "your_secret_key", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Configured(tc.keyID, tc.keySecret))
		})
	}
}
