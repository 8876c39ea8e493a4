// Package notify delivers ticket emails over SMTP. Delivery is best-effort:
// a confirmed booking stays confirmed even when its email cannot be sent.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/eventhive/backend/config"
	"github.com/eventhive/backend/internal/models"
)

// ErrNoRecipient means neither an explicit recipient nor a registered user
// email was available.
var ErrNoRecipient = errors.New("no email address specified for ticket delivery")

// EmailLogger records delivery attempts. Satisfied by *Repository.
type EmailLogger interface {
	Record(ctx context.Context, el *models.EmailLog) error
}

// Mailer sends ticket emails with the PDF attached.
type Mailer struct {
	cfg    config.EmailConfig
	logs   EmailLogger
	logger *zap.Logger
}

// NewMailer creates a mailer. logs may be nil to skip delivery auditing.
func NewMailer(cfg config.EmailConfig, logs EmailLogger, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logs: logs, logger: logger}
}

// SendTicket emails the ticket PDF for a confirmed booking. recipient
// overrides the user's registered email when non-empty. The returned error
// is informational; callers must not fail the surrounding operation on it.
func (m *Mailer) SendTicket(ctx context.Context, b *models.Booking, e *models.Event, u *models.User, pdf []byte, recipient string) error {
	to := recipient
	if to == "" {
		to = u.Email
	}
	if to == "" {
		return ErrNoRecipient
	}

	subject := fmt.Sprintf("Your Ticket for %s", e.Title)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking for '%s' is confirmed!\n"+
			"Booking ID: %d\n"+
			"Tickets: %d (%s)\n\n"+
			"Your ticket is attached as a PDF with QR code.\n"+
			"Please show it at the event entrance.\n\n"+
			"Thanks,\nEventHive",
		u.Name, e.Title, b.ID, b.Quantity, b.TicketType,
	)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	msg.Attach(fmt.Sprintf("ticket_%d.pdf", b.ID),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	err := dialer.DialAndSend(msg)

	m.record(ctx, b.ID, to, subject, err)
	if err != nil {
		m.logger.Error("ticket email delivery failed",
			zap.Int64("booking_id", b.ID),
			zap.String("recipient", to),
			zap.Error(err),
		)
		return fmt.Errorf("send ticket email: %w", err)
	}
	m.logger.Info("ticket email sent",
		zap.Int64("booking_id", b.ID),
		zap.String("recipient", to),
	)
	return nil
}

func (m *Mailer) record(ctx context.Context, bookingID int64, recipient, subject string, sendErr error) {
	if m.logs == nil {
		return
	}
	el := &models.EmailLog{
		BookingID: bookingID,
		Recipient: recipient,
		Subject:   subject,
		Status:    models.EmailLogStatusSent,
	}
	if sendErr != nil {
		el.Status = models.EmailLogStatusFailed
		el.ErrorMessage = sendErr.Error()
	} else {
		now := time.Now()
		el.SentAt = &now
	}
	if err := m.logs.Record(ctx, el); err != nil {
		m.logger.Warn("record email log", zap.Error(err))
	}
}
