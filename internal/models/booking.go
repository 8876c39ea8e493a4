package models

import "time"

// BookingStatus is the booking lifecycle state. Transitions are strictly
// one-way out of pending; confirmed and failed are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingFailed    BookingStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingFailed
}

// Booking is a user's request for a quantity of a ticket type for an event.
// TicketType is a denormalized copy of the referenced ticket's type at
// creation time.
type Booking struct {
	ID         int64         `json:"booking_id"`
	UserID     int64         `json:"user_id"`
	EventID    int64         `json:"event_id"`
	TicketID   int64         `json:"ticket_id"`
	TicketType string        `json:"ticket_type"`
	Quantity   int           `json:"quantity"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
