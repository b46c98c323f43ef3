package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
)

// RequireAdmin creates a middleware that allows only admin accounts past.
// Runs after AuthMiddleware; the session identity resolves the role.
func RequireAdmin(userService portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		phone, ok := GetUserPhoneFromContext(c)
		if !ok {
			logger.Error("Phone not found in context for admin check")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		user, err := userService.GetUserByPhone(c.Request.Context(), phone)
		if err != nil {
			logger.Warn("Admin check failed to resolve account", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		if user.Role != domain.RoleAdmin {
			logger.Warn("Non-admin attempted admin operation", slog.String("role", string(user.Role)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		c.Next()
	}
}
