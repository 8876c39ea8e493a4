package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhive/backend/internal/auth"
	"github.com/eventhive/backend/internal/models"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.TokenService, redismock.ClientMock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenService("unit-test-secret", 24)
	rdb, mock := redismock.NewClientMock()
	sessions := auth.NewSessionStore(rdb)

	router := gin.New()
	router.GET("/me", Auth(tokens, sessions), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(ContextUserID),
			"role":    c.MustGet(ContextUserRole),
		})
	})
	return router, tokens, mock
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthAcceptsLiveSession(t *testing.T) {
	router, tokens, mock := newAuthRouter(t)

	token, sessionID, err := tokens.Generate(42, models.RoleAttendee)
	require.NoError(t, err)
	mock.ExpectExists("session:" + sessionID).SetVal(1)

	rec := get(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	router, _, _ := newAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer not.a.token").Code)
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	router, tokens, mock := newAuthRouter(t)

	token, sessionID, err := tokens.Generate(42, models.RoleAttendee)
	require.NoError(t, err)
	mock.ExpectExists("session:" + sessionID).SetVal(0)

	rec := get(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(role models.Role, withContext bool) *gin.Engine {
		router := gin.New()
		seed := func(c *gin.Context) {
			if withContext {
				c.Set(ContextUserRole, role)
			}
			c.Next()
		}
		router.POST("/events", seed, RequireRole(models.RoleOrganizer), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		return router
	}

	do := func(router *gin.Engine) int {
		req := httptest.NewRequest(http.MethodPost, "/events", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, do(newRouter(models.RoleOrganizer, true)))
	assert.Equal(t, http.StatusForbidden, do(newRouter(models.RoleAttendee, true)))
	assert.Equal(t, http.StatusUnauthorized, do(newRouter(models.RoleOrganizer, false)))
}
