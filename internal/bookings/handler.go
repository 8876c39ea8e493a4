package bookings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventhive/backend/internal/models"
	"github.com/eventhive/backend/pkg/response"
)

// BookingLister is the read surface the listing endpoints need.
// Satisfied by *Repository.
type BookingLister interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
}

// EmailAudit reads the ticket email delivery trail. Satisfied by
// *notify.Repository.
type EmailAudit interface {
	ListByBooking(ctx context.Context, bookingID int64) ([]*models.EmailLog, error)
}

// Handler handles booking HTTP endpoints.
type Handler struct {
	workflow *Workflow
	store    BookingLister
	users    UserStore
	events   EventStore
	emails   EmailAudit
	logger   *zap.Logger
}

// NewHandler creates a bookings handler.
func NewHandler(workflow *Workflow, store BookingLister, users UserStore, events EventStore, emails EmailAudit, logger *zap.Logger) *Handler {
	return &Handler{workflow: workflow, store: store, users: users, events: events, emails: emails, logger: logger}
}

// CreateOrderRequest is the body for POST /bookings/create-order.
type CreateOrderRequest struct {
	UserID        int64  `json:"user_id"`
	EventID       int64  `json:"event_id"`
	TicketType    string `json:"ticket_type"`
	Quantity      int    `json:"quantity"`
	Amount        int64  `json:"amount"`
	CustomerEmail string `json:"customer_email"`
}

// CreateOrder handles POST /bookings/create-order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "amount must be an integer value in INR")
		return
	}

	order, err := h.workflow.CreateOrder(c.Request.Context(), CreateOrderInput{
		UserID:        req.UserID,
		EventID:       req.EventID,
		TicketType:    req.TicketType,
		Quantity:      req.Quantity,
		Amount:        req.Amount,
		CustomerEmail: req.CustomerEmail,
	})
	switch {
	case err == nil:
		response.Created(c, order)
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrAmountInvalid), errors.Is(err, ErrInvalidReference):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrGateway):
		response.Internal(c, err.Error())
	default:
		h.logger.Error("create order", zap.Error(err))
		response.Internal(c, "failed to create order")
	}
}

// VerifyPaymentRequest is the body for POST /bookings/verify-payment.
// Field names follow the gateway's checkout callback payload.
type VerifyPaymentRequest struct {
	OrderID       string `json:"razorpay_order_id"`
	PaymentID     string `json:"razorpay_payment_id"`
	Signature     string `json:"razorpay_signature"`
	BookingID     int64  `json:"booking_id"`
	CustomerEmail string `json:"customer_email"`
	TestMode      bool   `json:"test_mode"`
}

// VerifyPayment handles POST /bookings/verify-payment.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.workflow.VerifyPayment(c.Request.Context(), VerifyPaymentInput{
		OrderID:       req.OrderID,
		PaymentID:     req.PaymentID,
		Signature:     req.Signature,
		BookingID:     req.BookingID,
		CustomerEmail: req.CustomerEmail,
		TestMode:      req.TestMode,
	})
	switch {
	case err == nil:
		response.OK(c, result)
	case errors.Is(err, ErrSignatureMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failed", "reason": "Invalid signature"})
	case errors.Is(err, ErrMissingPaymentFields), errors.Is(err, ErrMissingPaymentDetails), errors.Is(err, ErrBookingClosed):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(c, "Booking not found")
	default:
		h.logger.Error("verify payment", zap.Error(err))
		response.Internal(c, "failed to verify payment")
	}
}

// ListByEvent handles GET /bookings/event/:id (organizer view).
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.store.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("list bookings by event", zap.Error(err))
		response.Internal(c, "failed to list bookings")
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, b := range list {
		out = append(out, gin.H{
			"booking_id":  b.ID,
			"user_id":     b.UserID,
			"ticket_type": b.TicketType,
			"quantity":    b.Quantity,
			"status":      b.Status,
		})
	}
	response.OK(c, out)
}

// ListByUser handles GET /bookings/user/:id.
func (h *Handler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	list, err := h.store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list bookings by user", zap.Error(err))
		response.Internal(c, "failed to list bookings")
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, b := range list {
		out = append(out, gin.H{
			"booking_id":  b.ID,
			"event_id":    b.EventID,
			"ticket_type": b.TicketType,
			"quantity":    b.Quantity,
			"status":      b.Status,
		})
	}
	response.OK(c, out)
}

// GetByID handles GET /bookings/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	booking, err := h.store.GetBooking(c.Request.Context(), id)
	if errors.Is(err, ErrBookingNotFound) {
		response.NotFound(c, "Booking not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to load booking")
		return
	}

	var eventTitle, userName interface{}
	if event, err := h.events.GetByID(c.Request.Context(), booking.EventID); err == nil {
		eventTitle = event.Title
	}
	if user, err := h.users.GetByID(c.Request.Context(), booking.UserID); err == nil {
		userName = user.Name
	}

	response.OK(c, gin.H{
		"booking_id":  booking.ID,
		"event":       eventTitle,
		"user":        userName,
		"ticket_type": booking.TicketType,
		"quantity":    booking.Quantity,
		"status":      booking.Status,
	})
}

// DownloadTicket handles GET /bookings/:id/ticket. Streams the ticket PDF
// as an attachment.
func (h *Handler) DownloadTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	pdf, err := h.workflow.IssueTicket(c.Request.Context(), id)
	if errors.Is(err, ErrBookingNotFound) {
		response.NotFound(c, "Booking not found")
		return
	}
	if err != nil {
		h.logger.Error("download ticket", zap.Int64("booking_id", id), zap.Error(err))
		response.Internal(c, "failed to generate ticket")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListEmails handles GET /bookings/:id/emails. Returns the ticket email
// delivery trail for a booking, newest first.
func (h *Handler) ListEmails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	if _, err := h.store.GetBooking(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.NotFound(c, "Booking not found")
			return
		}
		response.Internal(c, "failed to load booking")
		return
	}
	logs, err := h.emails.ListByBooking(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list email logs", zap.Int64("booking_id", id), zap.Error(err))
		response.Internal(c, "failed to list email logs")
		return
	}
	if logs == nil {
		logs = []*models.EmailLog{}
	}
	response.OK(c, logs)
}

// ResendEmail handles POST /bookings/:id/email/resend. Re-sends the ticket
// email for a confirmed booking, optionally to an explicit recipient.
func (h *Handler) ResendEmail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}
	var body struct {
		CustomerEmail string `json:"customer_email"`
	}
	_ = c.ShouldBindJSON(&body)

	status, err := h.workflow.ResendTicketEmail(c.Request.Context(), id, body.CustomerEmail)
	switch {
	case err == nil:
		response.OK(c, gin.H{"status": "success", "booking_id": id, "email": status})
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(c, "Booking not found")
	case errors.Is(err, ErrBookingNotConfirmed):
		response.BadRequest(c, err.Error())
	default:
		h.logger.Error("resend ticket email", zap.Int64("booking_id", id), zap.Error(err))
		response.Internal(c, "failed to resend ticket email")
	}
}
