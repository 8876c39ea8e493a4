package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eventhive/backend/internal/models"
)

// Repository handles email_logs persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record inserts a delivery attempt.
func (r *Repository) Record(ctx context.Context, el *models.EmailLog) error {
	const q = `INSERT INTO email_logs (booking_id, recipient, subject, status, error_message, sent_at)
		VALUES ($1, $2, $3, $4, NULLIF($5,''), $6)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, el.BookingID, el.Recipient, el.Subject, el.Status, el.ErrorMessage, el.SentAt).
		Scan(&el.ID, &el.CreatedAt)
}

// ListByBooking returns delivery attempts for a booking, newest first.
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*models.EmailLog, error) {
	const q = `SELECT id, booking_id, recipient, COALESCE(subject,''), status, COALESCE(error_message,''), sent_at, created_at
		FROM email_logs
		WHERE booking_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.EmailLog
	for rows.Next() {
		var el models.EmailLog
		if err := rows.Scan(&el.ID, &el.BookingID, &el.Recipient, &el.Subject, &el.Status, &el.ErrorMessage, &el.SentAt, &el.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &el)
	}
	return list, rows.Err()
}
