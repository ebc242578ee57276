package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/domain/entity"
	"github.com/vidtube/backend/pkg/helpers"
	"github.com/vidtube/backend/pkg/response"
)

// Context keys set by the auth gate.
const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// UserResolver loads the user a validated token belongs to.
// repository.UserRepository satisfies it.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// bearerToken extracts the access token from the cookie or, failing that,
// from the Authorization header.
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Auth is the gate protecting authenticated routes: it validates the access
// token, resolves the user minus secrets, and attaches it to the context.
// Downstream handlers trust the context and never re-verify. Every failure
// mode is reported as 401.
func Auth(users UserResolver, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token")
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid access token")
			return
		}
		c.Set(CtxUserKey, u.Public())
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but lets
// anonymous requests through (channel pages show isSubscribed only for
// logged-in viewers).
func OptionalAuth(users UserResolver, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		if u, err := users.GetByID(c.Request.Context(), claims.UserID); err == nil {
			c.Set(CtxUserKey, u.Public())
			c.Set(CtxUserIDKey, u.ID)
		}
		c.Next()
	}
}
