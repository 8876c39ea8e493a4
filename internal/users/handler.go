package users

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventhive/backend/internal/auth"
	"github.com/eventhive/backend/internal/middleware"
	"github.com/eventhive/backend/internal/models"
	"github.com/eventhive/backend/pkg/response"
	"github.com/eventhive/backend/pkg/utils"
)

// RegisterRequest is the body for POST /users/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"` // optional, defaults to attendee
}

// LoginRequest is the body for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles user HTTP endpoints.
type Handler struct {
	repo     *Repository
	tokens   *auth.TokenService
	sessions *auth.SessionStore
	logger   *zap.Logger
}

// NewHandler creates a users handler.
func NewHandler(repo *Repository, tokens *auth.TokenService, sessions *auth.SessionStore, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, tokens: tokens, sessions: sessions, logger: logger}
}

// Register handles POST /users/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	role := models.RoleAttendee
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.Valid() {
			response.BadRequest(c, "invalid role")
			return
		}
	}

	ctx := c.Request.Context()
	if taken, err := h.repo.EmailExists(ctx, req.Email); err != nil {
		response.Internal(c, "failed to create user")
		return
	} else if taken {
		response.BadRequest(c, "Email already registered")
		return
	}
	if taken, err := h.repo.PhoneExists(ctx, req.Phone); err != nil {
		response.Internal(c, "failed to create user")
		return
	} else if taken {
		response.BadRequest(c, "Phone already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(ctx, req.Name, req.Email, req.Phone, hash, role)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	response.Created(c, gin.H{"message": "User registered successfully", "user_id": user.ID})
}

// Login handles POST /users/login. On success it establishes a server-side
// session and returns its bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "Invalid password")
		return
	}

	token, sessionID, err := h.tokens.Generate(user.ID, user.Role)
	if err != nil {
		response.Internal(c, "failed to create session")
		return
	}
	if err := h.sessions.Create(c.Request.Context(), sessionID, user.ID, h.tokens.TTL()); err != nil {
		response.Internal(c, "failed to create session")
		return
	}

	response.OK(c, gin.H{
		"message": "Login successful",
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
		"token":   token,
	})
}

// Logout handles POST /users/logout. Revokes the server-side session.
func (h *Handler) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.ContextSessionID)
	if err := h.sessions.Delete(c.Request.Context(), sessionID); err != nil {
		response.Internal(c, "failed to end session")
		return
	}
	response.OK(c, gin.H{"message": "Logged out successfully"})
}

// Profile handles GET /users/profile. Returns the authenticated user.
func (h *Handler) Profile(c *gin.Context) {
	userID := c.GetInt64(middleware.ContextUserID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}
	response.OK(c, publicUser(user))
}

// GetByID handles GET /users/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "User not found")
		return
	}
	response.OK(c, publicUser(user))
}

func publicUser(u *models.User) gin.H {
	return gin.H{
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
		"phone":   u.Phone,
		"role":    u.Role,
	}
}
