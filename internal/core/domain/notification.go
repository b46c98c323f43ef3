package domain

import "time"

// Notification is an in-app message addressed to a phone number.
// It is only ever mutated by marking it read.
type Notification struct {
	NotificationID string    `json:"notificationID"`
	Phone          string    `json:"phone"`
	Message        string    `json:"message"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"createdAt"`
}
