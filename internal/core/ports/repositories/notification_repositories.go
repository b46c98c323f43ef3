package repositories

import (
	"context"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
)

// NotificationRepository defines persistence for in-app notifications
type NotificationRepository interface {
	// SaveNotification persists a new notification.
	SaveNotification(ctx context.Context, n domain.Notification) error

	// FindNotificationsByPhone retrieves notifications for a phone, newest first.
	FindNotificationsByPhone(ctx context.Context, phone string) ([]domain.Notification, error)

	// MarkNotificationRead sets the read flag of a notification.
	MarkNotificationRead(ctx context.Context, notificationID string) error
}
