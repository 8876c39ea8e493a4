package bookings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/eventhive/backend/internal/models"
)

// Repository handles booking and ticket persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a bookings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookingColumns = `id, user_id, event_id, ticket_id, ticket_type, quantity, status, created_at, updated_at`

// UpsertTicket atomically creates or returns the ticket for
// (event_id, type). The (event_id, type) unique constraint makes concurrent
// first-time bookings for the same type converge on a single row.
func (r *Repository) UpsertTicket(ctx context.Context, eventID int64, ticketType string, price decimal.Decimal) (*models.Ticket, error) {
	const q = `INSERT INTO tickets (event_id, type, price, max_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, type) DO UPDATE SET type = EXCLUDED.type
		RETURNING id, event_id, type, price, max_quantity, created_at`
	var t models.Ticket
	err := r.pool.QueryRow(ctx, q, eventID, ticketType, price, models.DefaultTicketMaxQuantity).
		Scan(&t.ID, &t.EventID, &t.Type, &t.Price, &t.MaxQuantity, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTicketByEventType returns the ticket for (event_id, type), if any.
func (r *Repository) GetTicketByEventType(ctx context.Context, eventID int64, ticketType string) (*models.Ticket, error) {
	const q = `SELECT id, event_id, type, price, max_quantity, created_at
		FROM tickets WHERE event_id = $1 AND type = $2`
	var t models.Ticket
	err := r.pool.QueryRow(ctx, q, eventID, ticketType).
		Scan(&t.ID, &t.EventID, &t.Type, &t.Price, &t.MaxQuantity, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateBooking inserts a new booking with status pending.
func (r *Repository) CreateBooking(ctx context.Context, b *models.Booking) error {
	const q = `INSERT INTO bookings (user_id, event_id, ticket_id, ticket_type, quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	b.Status = models.BookingPending
	return r.pool.QueryRow(ctx, q, b.UserID, b.EventID, b.TicketID, b.TicketType, b.Quantity, string(b.Status)).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetBooking returns a booking by ID.
func (r *Repository) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var b models.Booking
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketID, &b.TicketType, &b.Quantity, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SetStatus transitions a booking out of pending and returns the resulting
// status. Terminal statuses are never overwritten, so repeating a
// verification cannot revive a failed booking or fail a confirmed one.
func (r *Repository) SetStatus(ctx context.Context, id int64, status models.BookingStatus) (models.BookingStatus, error) {
	const q = `UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`
	if _, err := r.pool.Exec(ctx, q, id, string(status)); err != nil {
		return "", err
	}
	var current models.BookingStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrBookingNotFound
	}
	if err != nil {
		return "", err
	}
	return current, nil
}

// ListByEvent returns all bookings for an event.
func (r *Repository) ListByEvent(ctx context.Context, eventID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE event_id = $1 ORDER BY id`, eventID)
}

// ListByUser returns all bookings made by a user.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *Repository) list(ctx context.Context, q string, arg int64) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketID, &b.TicketType, &b.Quantity, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
