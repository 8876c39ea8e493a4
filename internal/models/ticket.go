package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTicketMaxQuantity is the advisory cap assigned to tickets created
// lazily through the booking flow. It is stored but not enforced against
// actual bookings.
const DefaultTicketMaxQuantity = 100

// Ticket is a priced category of admission to an event (e.g. "VIP"), not an
// individual physical ticket. (event_id, type) is unique; the booking flow
// creates tickets with an atomic upsert.
type Ticket struct {
	ID          int64           `json:"id"`
	EventID     int64           `json:"event_id"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	MaxQuantity int             `json:"max_quantity"`
	CreatedAt   time.Time       `json:"created_at"`
}
