package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pocketpay/pocketpay-backend/internal/apperrors"
	"github.com/pocketpay/pocketpay-backend/internal/core/domain"
	portsrepo "github.com/pocketpay/pocketpay-backend/internal/core/ports/repositories"
	"github.com/pocketpay/pocketpay-backend/internal/models"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// NewPgxNotificationRepository creates a new repository for notification data.
func NewPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxNotificationRepository implements portsrepo.NotificationRepository
var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

// SaveNotification persists a new notification.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, phone, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, n.NotificationID, n.Phone, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification %s: %w", n.NotificationID, err)
	}
	return nil
}

// FindNotificationsByPhone retrieves notifications for a phone, newest first.
func (r *PgxNotificationRepository) FindNotificationsByPhone(ctx context.Context, phone string) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, phone, message, read, created_at
		FROM notifications
		WHERE phone = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for %s: %w", phone, err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.NotificationID, &m.Phone, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, domain.Notification{
			NotificationID: m.NotificationID,
			Phone:          m.Phone,
			Message:        m.Message,
			Read:           m.Read,
			CreatedAt:      m.CreatedAt,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", rows.Err())
	}
	return notifications, nil
}

// MarkNotificationRead sets the read flag of a notification.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE notification_id = $1;`, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
