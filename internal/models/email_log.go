package models

import "time"

// EmailLogStatus for delivery.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records a ticket email delivery attempt for a booking.
type EmailLog struct {
	ID           int64      `json:"id"`
	BookingID    int64      `json:"booking_id"`
	Recipient    string     `json:"recipient"`
	Subject      string     `json:"subject,omitempty"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
