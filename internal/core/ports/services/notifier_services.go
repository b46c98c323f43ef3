package services

import (
	"context"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
)

// NotifierSvcFacade delivers in-app notifications. Dispatch is asynchronous
// and fire-and-forget: Notify hands the message to a background worker after
// the calling mutation has committed, and a delivery failure must never
// propagate back to the caller.
type NotifierSvcFacade interface {
	// Notify enqueues a message for a phone number. Never blocks the caller
	// beyond the queue handoff; drops (and logs) when the queue is full.
	Notify(phone string, message string)

	// ListNotifications retrieves notifications for a phone, newest first.
	ListNotifications(ctx context.Context, phone string) ([]domain.Notification, error)

	// MarkRead flags a notification as read.
	MarkRead(ctx context.Context, notificationID string) error

	// Close stops the background worker after draining the queue.
	Close()
}
