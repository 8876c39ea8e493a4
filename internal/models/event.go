package models

import "time"

// Event represents an event listing. Date and time are opaque display
// strings supplied by the organizer, not validated calendar types.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}
