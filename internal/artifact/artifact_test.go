package artifact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhive/backend/internal/models"
)

func sampleBooking() (*models.Booking, *models.Event, *models.User) {
	b := &models.Booking{
		ID:         42,
		TicketType: "VIP",
		Quantity:   2,
		Status:     models.BookingConfirmed,
	}
	e := &models.Event{
		ID:       7,
		Title:    "GopherCon India",
		Date:     "2026-09-12",
		Time:     "10:00",
		Location: "Bengaluru",
	}
	u := &models.User{ID: 1, Name: "Asha", Email: "asha@example.com"}
	return b, e, u
}

func TestPayload(t *testing.T) {
	b, e, u := sampleBooking()
	assert.Equal(t, "BookingID:42 | Event:GopherCon India | User:Asha | Tickets:2", Payload(b, e, u))
}

func TestEncodeQR(t *testing.T) {
	png, err := EncodeQR("BookingID:42 | Event:GopherCon India | User:Asha | Tickets:2")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")), "must be a PNG")
}

func TestGeneratorRender(t *testing.T) {
	b, e, u := sampleBooking()

	pdf, err := NewGenerator(false).Render(b, e, u)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "must be a PDF")
	assert.Greater(t, len(pdf), 1000, "page with text and embedded QR image")
}

func TestGeneratorRenderTestMode(t *testing.T) {
	b, e, u := sampleBooking()

	live, err := NewGenerator(false).Render(b, e, u)
	require.NoError(t, err)
	test, err := NewGenerator(true).Render(b, e, u)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(test, []byte("%PDF")))
	assert.Greater(t, len(test), len(live), "watermark adds content")
}
