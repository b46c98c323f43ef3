package models

import "time"

// Notification is the database representation of a notification row.
type Notification struct {
	NotificationID string    `db:"notification_id"`
	Phone          string    `db:"phone"`
	Message        string    `db:"message"`
	Read           bool      `db:"read"`
	CreatedAt      time.Time `db:"created_at"`
}
