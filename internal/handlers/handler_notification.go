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

// notificationHandler handles the in-app notification surface.
type notificationHandler struct {
	notifier portssvc.NotifierSvcFacade
}

// newNotificationHandler creates a new notificationHandler.
func newNotificationHandler(n portssvc.NotifierSvcFacade) *notificationHandler {
	return &notificationHandler{notifier: n}
}

// registerNotificationRoutes registers the notification routes.
func registerNotificationRoutes(rg *gin.RouterGroup, notifier portssvc.NotifierSvcFacade) {
	h := newNotificationHandler(notifier)

	rg.GET("/notifications/:phone", h.listNotifications)
	rg.PATCH("/notifications/:id/read", h.markRead)
}

// listNotifications returns the notifications for the calling phone, newest first.
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	phone := c.Param("phone")

	if !senderMatchesSession(c, phone) {
		return
	}

	notifications, err := h.notifier.ListNotifications(c.Request.Context(), phone)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponses(notifications))
}

// markRead flags a notification as read.
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	notificationID := c.Param("id")

	if err := h.notifier.MarkRead(c.Request.Context(), notificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		logger.Error("Failed to mark notification read", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notification updated"})
}
