package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
	"github.com/pocketpay/pocketpay-backend/internal/middleware"
	"github.com/pocketpay/pocketpay-backend/internal/platform/config"
)

// authHandler handles registration, login, and the session cookie lifecycle.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cookieName   string
	isProduction bool
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		userService:  us,
		tokenService: ts,
		cookieName:   cfg.TokenCookieName,
		isProduction: cfg.IsProduction,
	}
}

// registerAuthRoutes sets up the public routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.User, services.Token, cfg)

	r.POST("/users", h.register)
	r.GET("/users", h.login)
	r.POST("/jwt", h.issueSessionToken)
	r.POST("/logout", h.logout)
}

// register creates a new account. A phone or email that is already taken
// answers with the compatibility message instead of a hard failure.
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind registration request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusOK, dto.MessageResponse{Message: "User Already Exist"})
			return
		}
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login verifies a phone + PIN pair passed as query parameters.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.LoginParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), params.Phone, params.Pin)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusOK, dto.SoftErrorResponse{ErrorMessage: "Invalid credentials"})
			return
		}
		logger.Error("Failed to authenticate user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:  "Login successful",
		LoggedIn: true,
		User:     dto.ToUserResponse(user),
	})
}

// issueSessionToken signs a JWT for the given phone and sets it as the
// httponly session cookie.
func (h *authHandler) issueSessionToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SessionTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	token, expiry, err := h.tokenService.GenerateSessionToken(c.Request.Context(), req.Phone)
	if err != nil {
		logger.Error("Failed to generate session token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.setSessionCookie(c, token, int(time.Until(expiry).Seconds()))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// logout clears the session cookie.
func (h *authHandler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// setSessionCookie writes the token cookie. Cross-site frontends need
// SameSite=None, which browsers only accept together with Secure.
func (h *authHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	if h.isProduction {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cookieName, token, maxAge, "/", "", h.isProduction, true)
}
