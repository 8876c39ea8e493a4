package events

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventhive/backend/internal/models"
	"github.com/eventhive/backend/pkg/response"
)

// CreateRequest is the body for POST /events/.
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Location    string `json:"location" binding:"required"`
}

// UpdateRequest is the body for PUT /events/:id. Absent fields keep their
// stored values.
type UpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /events/.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list events", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, list)
}

// Create handles POST /events/ (organizer only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, gin.H{"message": "Event created successfully", "event_id": e.ID})
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Event not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, e)
}

// Update handles PUT /events/:id (organizer only).
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	err = h.repo.Update(c.Request.Context(), id, req.Title, req.Description, req.Category, req.Date, req.Time, req.Location)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Event not found")
		return
	}
	if err != nil {
		h.logger.Error("update event", zap.Int64("event_id", id), zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, gin.H{"message": "Event updated successfully"})
}

// Delete handles DELETE /events/:id (organizer only).
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	err = h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "Event not found")
		return
	}
	if err != nil {
		h.logger.Error("delete event", zap.Int64("event_id", id), zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	response.OK(c, gin.H{"message": "Event deleted successfully"})
}
