package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	portssvc "github.com/pocketpay/pocketpay-backend/internal/core/ports/services"
	"github.com/pocketpay/pocketpay-backend/internal/dto"
	"github.com/pocketpay/pocketpay-backend/internal/middleware"
)

// userHandler handles account lookups and the admin management surface.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers the session-protected account routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	rg.GET("/role/:email", h.getRoleByEmail)
}

// registerAdminRoutes registers the admin-only account management routes.
func registerAdminRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	rg.GET("/allUsers", h.listUsers)
	rg.PATCH("/users/:phone/verify", h.verifyUser)
	rg.PATCH("/users/:phone/email", h.updateEmail)
	rg.DELETE("/users/:phone", h.deleteUser)
}

// getRoleByEmail resolves the account kind behind an email address. The
// frontend routes its dashboards off this answer.
func (h *userHandler) getRoleByEmail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	email := c.Param("email")

	role, err := h.userService.GetRoleByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to get role by email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": string(role)})
}

// listUsers returns a paginated list of all accounts.
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// verifyUser marks an account verified and returns the updated account.
func (h *userHandler) verifyUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phone := c.Param("phone")

	user, err := h.userService.VerifyUser(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to verify user", slog.String("error", err.Error()), slog.String("phone", phone))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateEmail changes an account's email address.
func (h *userHandler) updateEmail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phone := c.Param("phone")

	var req dto.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.userService.UpdateEmail(c.Request.Context(), phone, req.Email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to update email", slog.String("error", err.Error()), slog.String("phone", phone))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update email"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Email updated"})
}

// deleteUser removes an account.
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phone := c.Param("phone")

	if err := h.userService.DeleteUser(c.Request.Context(), phone); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to delete user", slog.String("error", err.Error()), slog.String("phone", phone))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "User deleted"})
}
