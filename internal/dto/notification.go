package dto

import (
	"time"

	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
)

// NotificationResponse is the serialized shape of one notification.
type NotificationResponse struct {
	NotificationID string `json:"notificationID"`
	Phone          string `json:"phone"`
	Message        string `json:"message"`
	Read           bool   `json:"read"`
	CreatedAt      string `json:"createdAt"`
}

// ToNotificationResponses converts domain notifications to response DTOs.
func ToNotificationResponses(ns []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			NotificationID: n.NotificationID,
			Phone:          n.Phone,
			Message:        n.Message,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}
