package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// NotificationsRepository covers the per-user notification feed. Creation
// mostly happens inside other repositories' transactions via
// insertNotificationTx; CreateNotification exists for flows with no
// surrounding transaction.
type NotificationsRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (string, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

// insertNotificationTx writes a notification row inside an existing
// transaction so it commits or rolls back with the flow that caused it.
func insertNotificationTx(ctx context.Context, tx *sql.Tx, n *domain.Notification) error {
	err := tx.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, type, title, description, metadata, priority)
		 VALUES ($1::uuid, $2, $3, $4, COALESCE($5::jsonb, '{}'::jsonb), $6)
		 RETURNING notification_id::text`,
		n.UserID, n.Type, n.Title, n.Description, nullableJSON(n.Metadata), n.Priority,
	).Scan(&n.NotificationID)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}
