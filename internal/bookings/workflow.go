package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eventhive/backend/internal/models"
	"github.com/eventhive/backend/internal/payment"
)

// Workflow errors. Messages are user-visible; handlers map them to HTTP
// statuses at the API boundary.
var (
	ErrMissingFields         = errors.New("user_id, event_id, ticket_type, amount are required")
	ErrAmountInvalid         = errors.New("amount and quantity must be > 0")
	ErrInvalidReference      = errors.New("Invalid user or event")
	ErrBookingNotFound       = errors.New("Booking not found")
	ErrMissingPaymentFields  = errors.New("Missing required fields")
	ErrMissingPaymentDetails = errors.New("Missing payment details")
	ErrSignatureMismatch     = errors.New("Invalid signature")
	ErrBookingClosed         = errors.New("Booking already failed")
	ErrBookingNotConfirmed   = errors.New("Booking not confirmed")
	ErrGateway               = errors.New("Payment gateway error")
)

// BookingStore is the persistence surface the workflow needs.
// Satisfied by *Repository.
type BookingStore interface {
	UpsertTicket(ctx context.Context, eventID int64, ticketType string, price decimal.Decimal) (*models.Ticket, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	SetStatus(ctx context.Context, id int64, status models.BookingStatus) (models.BookingStatus, error)
}

// UserStore resolves booking users. Satisfied by *users.Repository.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// EventStore resolves booking events. Satisfied by *events.Repository.
type EventStore interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// Renderer produces the ticket PDF. Satisfied by *artifact.Generator.
type Renderer interface {
	Render(b *models.Booking, e *models.Event, u *models.User) ([]byte, error)
}

// Mailer delivers the ticket email. Satisfied by *notify.Mailer.
type Mailer interface {
	SendTicket(ctx context.Context, b *models.Booking, e *models.Event, u *models.User, pdf []byte, recipient string) error
}

// Workflow drives a booking from intent-to-pay to confirmed-with-ticket or
// failed. A nil gateway puts the whole workflow in test mode: order creation
// and payment verification are simulated, while ticket generation and email
// delivery still happen for real.
type Workflow struct {
	store    BookingStore
	users    UserStore
	events   EventStore
	gateway  payment.Gateway
	renderer Renderer
	mailer   Mailer
	logger   *zap.Logger
}

// NewWorkflow wires the payment workflow. gateway may be nil (test mode).
func NewWorkflow(store BookingStore, users UserStore, events EventStore, gateway payment.Gateway, renderer Renderer, mailer Mailer, logger *zap.Logger) *Workflow {
	return &Workflow{
		store:    store,
		users:    users,
		events:   events,
		gateway:  gateway,
		renderer: renderer,
		mailer:   mailer,
		logger:   logger,
	}
}

// TestMode reports whether no live payment gateway is configured.
func (w *Workflow) TestMode() bool {
	return w.gateway == nil
}

// CreateOrderInput is the validated input for CreateOrder. Amount is a whole
// number in rupees; the gateway receives paise.
type CreateOrderInput struct {
	UserID        int64
	EventID       int64
	TicketType    string
	Quantity      int
	Amount        int64
	CustomerEmail string
}

// OrderDescriptor is the checkout handle returned to the client.
type OrderDescriptor struct {
	Key           string `json:"key"`
	OrderID       string `json:"order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	BookingID     int64  `json:"booking_id"`
	TestMode      bool   `json:"test_mode"`
	CustomerEmail string `json:"customer_email"`
}

// CreateOrder validates the request, lazily creates the (event, type)
// ticket, persists a pending booking, and opens a payment order — simulated
// locally when no gateway is configured.
func (w *Workflow) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderDescriptor, error) {
	if in.UserID == 0 || in.EventID == 0 || in.TicketType == "" || in.Amount == 0 {
		return nil, ErrMissingFields
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Amount <= 0 || in.Quantity <= 0 {
		return nil, ErrAmountInvalid
	}

	if _, err := w.users.GetByID(ctx, in.UserID); err != nil {
		return nil, ErrInvalidReference
	}
	if _, err := w.events.GetByID(ctx, in.EventID); err != nil {
		return nil, ErrInvalidReference
	}

	unitPrice := decimal.NewFromInt(in.Amount).Div(decimal.NewFromInt(int64(in.Quantity)))
	ticket, err := w.store.UpsertTicket(ctx, in.EventID, in.TicketType, unitPrice)
	if err != nil {
		return nil, fmt.Errorf("upsert ticket: %w", err)
	}

	booking := &models.Booking{
		UserID:     in.UserID,
		EventID:    in.EventID,
		TicketID:   ticket.ID,
		TicketType: in.TicketType,
		Quantity:   in.Quantity,
	}
	if err := w.store.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if w.gateway == nil {
		return &OrderDescriptor{
			Key:           "test_key",
			OrderID:       fmt.Sprintf("test_order_%d_%d", booking.ID, time.Now().Unix()),
			Amount:        in.Amount * 100,
			Currency:      "INR",
			BookingID:     booking.ID,
			TestMode:      true,
			CustomerEmail: in.CustomerEmail,
		}, nil
	}

	order, err := w.gateway.CreateOrder(ctx, in.Amount*100, "INR", fmt.Sprintf("booking_%d", booking.ID))
	if err != nil {
		w.failBooking(ctx, booking.ID)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	return &OrderDescriptor{
		Key:           w.gateway.KeyID(),
		OrderID:       order.ID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		BookingID:     booking.ID,
		TestMode:      false,
		CustomerEmail: in.CustomerEmail,
	}, nil
}

// VerifyPaymentInput is the input for VerifyPayment.
type VerifyPaymentInput struct {
	OrderID       string
	PaymentID     string
	Signature     string
	BookingID     int64
	CustomerEmail string
	TestMode      bool
}

// VerifyResult is the verification outcome. Email reports ticket delivery
// ("sent" or "failed"); delivery failure never fails the verification.
type VerifyResult struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
	BookingID int64  `json:"booking_id"`
	Email     string `json:"email"`
	TestMode  bool   `json:"test_mode"`
}

// VerifyPayment authenticates a completed payment and confirms the booking.
// In test mode (no gateway, or explicitly requested) the payment id and
// signature are synthesized and the booking is confirmed unconditionally.
// Once confirmed, the ticket PDF is generated and emailed best-effort.
func (w *Workflow) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*VerifyResult, error) {
	if in.OrderID == "" || in.BookingID == 0 {
		return nil, ErrMissingPaymentFields
	}

	booking, err := w.store.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	testMode := w.gateway == nil || in.TestMode
	paymentID := in.PaymentID

	if testMode {
		if paymentID == "" {
			paymentID = fmt.Sprintf("test_pay_%d_%d", booking.ID, time.Now().Unix())
		}
		if in.Signature == "" {
			in.Signature = payment.Sign(in.OrderID, paymentID, payment.TestSecret)
		}
	} else {
		if paymentID == "" || in.Signature == "" {
			return nil, ErrMissingPaymentDetails
		}
		if !payment.VerifySignature(in.OrderID, paymentID, in.Signature, w.gateway.Secret()) {
			w.failBooking(ctx, booking.ID)
			return nil, ErrSignatureMismatch
		}
	}

	status, err := w.store.SetStatus(ctx, booking.ID, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}
	if status != models.BookingConfirmed {
		return nil, ErrBookingClosed
	}
	booking.Status = models.BookingConfirmed

	emailStatus := w.issueTicketEmail(ctx, booking, in.CustomerEmail)

	return &VerifyResult{
		Status:    "success",
		PaymentID: paymentID,
		BookingID: booking.ID,
		Email:     emailStatus,
		TestMode:  testMode,
	}, nil
}

// IssueTicket renders the ticket PDF for a booking (download path).
func (w *Workflow) IssueTicket(ctx context.Context, bookingID int64) ([]byte, error) {
	booking, err := w.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	event, err := w.events.GetByID(ctx, booking.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event for booking %d: %w", bookingID, err)
	}
	user, err := w.users.GetByID(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user for booking %d: %w", bookingID, err)
	}
	return w.renderer.Render(booking, event, user)
}

// ResendTicketEmail re-issues the ticket email for a confirmed booking.
// Returns the delivery status ("sent" or "failed").
func (w *Workflow) ResendTicketEmail(ctx context.Context, bookingID int64, recipient string) (string, error) {
	booking, err := w.store.GetBooking(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.Status != models.BookingConfirmed {
		return "", ErrBookingNotConfirmed
	}
	return w.issueTicketEmail(ctx, booking, recipient), nil
}

// issueTicketEmail generates the artifact and attempts delivery. Any
// failure is logged and reported as status data, never as an error: a
// confirmed booking must stay confirmed.
func (w *Workflow) issueTicketEmail(ctx context.Context, booking *models.Booking, recipient string) string {
	event, err := w.events.GetByID(ctx, booking.EventID)
	if err != nil {
		w.logger.Error("ticket issuance: load event", zap.Int64("booking_id", booking.ID), zap.Error(err))
		return "failed"
	}
	user, err := w.users.GetByID(ctx, booking.UserID)
	if err != nil {
		w.logger.Error("ticket issuance: load user", zap.Int64("booking_id", booking.ID), zap.Error(err))
		return "failed"
	}
	pdf, err := w.renderer.Render(booking, event, user)
	if err != nil {
		w.logger.Error("ticket issuance: render", zap.Int64("booking_id", booking.ID), zap.Error(err))
		return "failed"
	}
	if err := w.mailer.SendTicket(ctx, booking, event, user, pdf, recipient); err != nil {
		return "failed"
	}
	return "sent"
}

func (w *Workflow) failBooking(ctx context.Context, id int64) {
	if _, err := w.store.SetStatus(ctx, id, models.BookingFailed); err != nil {
		w.logger.Error("mark booking failed", zap.Int64("booking_id", id), zap.Error(err))
	}
}
