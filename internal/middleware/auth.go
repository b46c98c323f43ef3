package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketpay/pocketpay-backend/internal/utils"
)

// unauthorizedBody matches the contract the PocketPay frontends expect on
// any session failure.
var unauthorizedBody = gin.H{"message": "unauthorized access"}

// AuthMiddleware creates a Gin middleware handler that validates the session
// JWT carried in the httponly cookie. An absent, expired, or otherwise
// invalid token short-circuits the request with 401 before any mutation runs.
func AuthMiddleware(jwtSecret string, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString, err := c.Cookie(cookieName)
		if err != nil || tokenString == "" {
			logger.Warn("Session cookie missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret)
		if err != nil {
			logger.Warn("Invalid session token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		phone := claims.Subject
		if phone == "" {
			logger.Error("Phone (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
			return
		}

		ctxWithPhone := context.WithValue(c.Request.Context(), phoneKey, phone)
		enrichedLogger := logger.With(slog.String("phone", phone))
		ctxWithLoggerAndPhone := context.WithValue(ctxWithPhone, loggerCtxKey, enrichedLogger)
		c.Request = c.Request.WithContext(ctxWithLoggerAndPhone)

		c.Next()
	}
}
