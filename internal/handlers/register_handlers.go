package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/middleware"
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", home)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public routes: registration, login, session issue and teardown.
	registerAuthRoutes(r, cfg, services)

	// Everything else sits behind the session cookie.
	protected := r.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.TokenCookieName))
	registerUserRoutes(protected, services.User)
	registerLedgerRoutes(protected, services.Ledger)
	registerNotificationRoutes(protected, services.Notifier)

	// Admin routes layer a role check on top of the session.
	admin := protected.Group("", middleware.RequireAdmin(services.User))
	registerAdminRoutes(admin, services.User)
}

func home(c *gin.Context) {
	c.String(200, "Hello from PocketPay Server..")
}
