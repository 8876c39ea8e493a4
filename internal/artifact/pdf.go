package artifact

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/eventhive/backend/internal/models"
)

// Generator renders one-page printable tickets for confirmed bookings.
// In test mode (no live payment gateway) every page carries a visible
// watermark so the document cannot pass for a paid ticket.
type Generator struct {
	testMode bool
}

// NewGenerator creates a ticket generator. testMode must reflect whether a
// live payment gateway is configured.
func NewGenerator(testMode bool) *Generator {
	return &Generator{testMode: testMode}
}

// A4 layout constants, in points.
const (
	pageWidth  = 595.0
	pageHeight = 842.0
	margin     = 50.0
	qrBox      = 150.0
)

// Render produces the ticket PDF for a booking as an in-memory buffer,
// reusable for both the email attachment and direct download.
func (g *Generator) Render(b *models.Booking, e *models.Event, u *models.User) ([]byte, error) {
	png, err := EncodeQR(Payload(b, e, u))
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()

	// Title banner
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(margin, margin+30, "EventHive Ticket")
	pdf.Line(margin, margin+40, pageWidth-margin, margin+40)

	// Event details block
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, margin+80, "Event Details:")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(margin, margin+110, fmt.Sprintf("Event: %s", e.Title))
	pdf.Text(margin, margin+135, fmt.Sprintf("Date: %s at %s", e.Date, e.Time))
	pdf.Text(margin, margin+160, fmt.Sprintf("Location: %s", e.Location))

	// Attendee details block
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, margin+210, "Attendee Details:")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(margin, margin+235, fmt.Sprintf("Name: %s", u.Name))
	pdf.Text(margin, margin+260, fmt.Sprintf("Ticket Type: %s", b.TicketType))
	pdf.Text(margin, margin+285, fmt.Sprintf("Quantity: %d", b.Quantity))
	pdf.Text(margin, margin+310, fmt.Sprintf("Booking ID: %d", b.ID))
	pdf.Text(margin, margin+335, fmt.Sprintf("Status: %s", b.Status))

	// QR code, right side, aligned with the attendee block
	qrX := pageWidth - margin - qrBox - 50
	qrY := margin + 60.0
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("ticket-qr", qrX, qrY, qrBox, qrBox, false, opts, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(qrX, qrY+qrBox+20, "Scan at event entrance")

	if g.testMode {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.SetTextColor(255, 0, 0)
		pdf.Text(margin, pageHeight-margin-20, "TEST MODE - NOT A REAL TICKET")
		pdf.SetTextColor(0, 0, 0)
	}

	// Footer
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Text(margin, pageHeight-margin, "Thank you for using EventHive!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
