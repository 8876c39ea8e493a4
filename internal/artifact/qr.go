package artifact

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/eventhive/backend/internal/models"
)

// qrSize is the rendered QR raster edge in pixels.
const qrSize = 256

// Payload builds the plain-text QR content for a booking. Scanners at the
// venue parse this format, so it must stay stable.
func Payload(b *models.Booking, e *models.Event, u *models.User) string {
	return fmt.Sprintf("BookingID:%d | Event:%s | User:%s | Tickets:%d", b.ID, e.Title, u.Name, b.Quantity)
}

// EncodeQR renders the payload as a PNG QR code (error-correction Low),
// entirely in memory.
func EncodeQR(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Low, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
