package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rental-booking/internal/domain/user"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/cookie"
	"rental-booking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errMissingToken = errors.New("access token required")

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// extractToken prefers the cookie set at login, then a bearer header.
func extractToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		principal, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p usecase.Principal) {
	c.Set(ctxUserIDKey, p.UserID)
	c.Set(ctxUserRoleKey, p.Role)
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}
