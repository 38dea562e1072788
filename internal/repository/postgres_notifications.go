package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type PostgresNotificationsRepository struct {
	db *sql.DB
}

func NewPostgresNotificationsRepository(db *sql.DB) *PostgresNotificationsRepository {
	return &PostgresNotificationsRepository{db: db}
}

var _ NotificationsRepository = (*PostgresNotificationsRepository)(nil)

func (r *PostgresNotificationsRepository) CreateNotification(ctx context.Context, n *domain.Notification) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, type, title, description, metadata, priority)
		 VALUES ($1::uuid, $2, $3, $4, COALESCE($5::jsonb, '{}'::jsonb), $6)
		 RETURNING notification_id::text`,
		n.UserID, n.Type, n.Title, n.Description, nullableJSON(n.Metadata), n.Priority,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	return id, nil
}

func (r *PostgresNotificationsRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT notification_id::text, user_id::text, type, title, description, metadata, priority, is_read, created_at
	          FROM notifications WHERE user_id = $1::uuid`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var items []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Type, &n.Title, &n.Description, &n.Metadata, &n.Priority, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, &n)
	}
	return items, rows.Err()
}

func (r *PostgresNotificationsRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE notification_id = $1::uuid AND user_id = $2::uuid`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresNotificationsRepository) Delete(ctx context.Context, userID, notificationID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications
		 WHERE notification_id = $1::uuid AND user_id = $2::uuid`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
