package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventhive/backend/internal/auth"
	"github.com/eventhive/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role in gin context.
	ContextUserRole = "user_role"
	// ContextSessionID is the key for the login session ID in gin context.
	ContextSessionID = "session_id"
)

// Auth returns a middleware that validates the session token and checks the
// server-side session record. A signed token whose session was deleted
// (logout) is rejected.
func Auth(tokens *auth.TokenService, sessions *auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		live, err := sessions.Exists(c.Request.Context(), claims.ID)
		if err != nil || !live {
			response.Unauthorized(c, "session expired")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Set(ContextSessionID, claims.ID)
		c.Next()
	}
}
