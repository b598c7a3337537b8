package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"luminara/internal/domain/user"
	"luminara/internal/infrastructure/auth"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

// UserLoader resolves the authenticated user from a token's SID claim.
type UserLoader interface {
	GetBySID(ctx context.Context, sid string) (*user.User, error)
}

type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLoader
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, users UserLoader, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger,
	}
}

// RequireAuth verifies the bearer token and loads the user into the gin
// context under "user_id", "user_sid" and "user_locale".
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		usr, err := m.users.GetBySID(c.Request.Context(), claims.UserSID)
		if err != nil {
			m.logger.Errorw("failed to load authenticated user", "user_sid", claims.UserSID, "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, "failed to load user")
			c.Abort()
			return
		}
		if usr == nil || !usr.IsActive() {
			utils.ErrorResponse(c, http.StatusUnauthorized, "account unavailable")
			c.Abort()
			return
		}

		c.Set("user_id", usr.ID())
		c.Set("user_sid", usr.SID())
		c.Set("user_locale", usr.Locale())

		c.Next()
	}
}
