package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventhive/backend/internal/models"
	"github.com/eventhive/backend/internal/payment"
)

func newTestRouter(f *workflowFixture, gateway payment.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	workflow := f.workflow(gateway)
	handler := NewHandler(workflow, f.store, f.users, f.events, &fakeEmailAudit{}, zap.NewNop())

	router := gin.New()
	group := router.Group("/bookings")
	group.POST("/create-order", handler.CreateOrder)
	group.POST("/verify-payment", handler.VerifyPayment)
	group.GET("/event/:id", handler.ListByEvent)
	group.GET("/user/:id", handler.ListByUser)
	group.GET("/:id", handler.GetByID)
	group.GET("/:id/ticket", handler.DownloadTicket)
	group.POST("/:id/email/resend", handler.ResendEmail)
	group.GET("/:id/emails", handler.ListEmails)
	return router
}

type fakeEmailAudit struct {
	logs []*models.EmailLog
}

func (f *fakeEmailAudit) ListByBooking(_ context.Context, bookingID int64) ([]*models.EmailLog, error) {
	var out []*models.EmailLog
	for _, el := range f.logs {
		if el.BookingID == bookingID {
			out = append(out, el)
		}
	}
	return out, nil
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandlerCreateOrder(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "quantity": 2, "amount": 1000,
		"customer_email": "asha@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["test_mode"])
	assert.Equal(t, "test_key", body["key"])
	assert.Equal(t, float64(100000), body["amount"])
	assert.Equal(t, "INR", body["currency"])
	assert.NotEmpty(t, body["order_id"])
}

func TestHandlerCreateOrderMissingFields(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"event_id": 1, "ticket_type": "VIP", "amount": 1000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user_id, event_id, ticket_type, amount are required", decodeBody(t, rec)["error"])
}

func TestHandlerCreateOrderUnknownEvent(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 42, "ticket_type": "VIP", "amount": 1000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid user or event", decodeBody(t, rec)["error"])
}

func TestHandlerVerifyPayment(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeBody(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/bookings/verify-payment", gin.H{
		"razorpay_order_id": order["order_id"],
		"booking_id":        order["booking_id"],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "sent", body["email"])
	assert.Equal(t, true, body["test_mode"])
}

func TestHandlerVerifyPaymentUnknownBooking(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/verify-payment", gin.H{
		"razorpay_order_id": "test_order_999_1", "booking_id": 999,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", decodeBody(t, rec)["error"])
}

func TestHandlerVerifyPaymentBadSignature(t *testing.T) {
	f := newFixture()
	gw := &fakeGateway{secret: "s3cret"}
	router := newTestRouter(f, gw)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	order := decodeBody(t, rec)

	rec = doJSON(t, router, http.MethodPost, "/bookings/verify-payment", gin.H{
		"razorpay_order_id":   order["order_id"],
		"razorpay_payment_id": "pay_123",
		"razorpay_signature":  "forged",
		"booking_id":          order["booking_id"],
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "Invalid signature", body["reason"])
}

func TestHandlerGetByID(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "quantity": 3, "amount": 900,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/bookings/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["booking_id"])
	assert.Equal(t, "GopherCon India", body["event"])
	assert.Equal(t, "Asha", body["user"])
	assert.Equal(t, "VIP", body["ticket_type"])
	assert.Equal(t, float64(3), body["quantity"])
	assert.Equal(t, "pending", body["status"])
}

func TestHandlerGetByIDNotFound(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodGet, "/bookings/77", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", decodeBody(t, rec)["error"])

	rec = doJSON(t, router, http.MethodGet, "/bookings/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListings(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/bookings/event/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byEvent []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byEvent))
	require.Len(t, byEvent, 1)
	assert.Equal(t, float64(1), byEvent[0]["user_id"])
	assert.Equal(t, "VIP", byEvent[0]["ticket_type"])

	rec = doJSON(t, router, http.MethodGet, "/bookings/user/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byUser []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &byUser))
	require.Len(t, byUser, 1)
	assert.Equal(t, float64(1), byUser[0]["event_id"])

	rec = doJSON(t, router, http.MethodGet, "/bookings/event/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandlerDownloadTicket(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/bookings/1/ticket", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="ticket_1.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doJSON(t, router, http.MethodGet, "/bookings/999/ticket", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", decodeBody(t, rec)["error"])
}

func TestHandlerListEmails(t *testing.T) {
	f := newFixture()
	gin.SetMode(gin.TestMode)
	workflow := f.workflow(nil)
	audit := &fakeEmailAudit{logs: []*models.EmailLog{
		{ID: 1, BookingID: 1, Recipient: "asha@example.com", Status: models.EmailLogStatusSent},
	}}
	handler := NewHandler(workflow, f.store, f.users, f.events, audit, zap.NewNop())
	router := gin.New()
	router.GET("/bookings/:id/emails", handler.ListEmails)

	require.NoError(t, f.store.CreateBooking(context.Background(), &models.Booking{
		UserID: 1, EventID: 1, TicketID: 1, TicketType: "VIP", Quantity: 1,
	}))

	rec := doJSON(t, router, http.MethodGet, "/bookings/1/emails", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "asha@example.com", logs[0]["recipient"])

	rec = doJSON(t, router, http.MethodGet, "/bookings/99/emails", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Booking not found", decodeBody(t, rec)["error"])
}

func TestHandlerResendEmail(t *testing.T) {
	f := newFixture()
	router := newTestRouter(f, nil)
	ctx := context.Background()

	rec := doJSON(t, router, http.MethodPost, "/bookings/create-order", gin.H{
		"user_id": 1, "event_id": 1, "ticket_type": "VIP", "amount": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/bookings/1/email/resend", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Booking not confirmed", decodeBody(t, rec)["error"])

	_, err := f.store.SetStatus(ctx, 1, models.BookingConfirmed)
	require.NoError(t, err)

	rec = doJSON(t, router, http.MethodPost, "/bookings/1/email/resend", gin.H{"customer_email": "new@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "sent", body["email"])
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "new@example.com", f.mailer.sent[0].recipient)
}
