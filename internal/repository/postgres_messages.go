package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type PostgresMessagesRepository struct {
	db *sql.DB
}

func NewPostgresMessagesRepository(db *sql.DB) *PostgresMessagesRepository {
	return &PostgresMessagesRepository{db: db}
}

var _ MessagesRepository = (*PostgresMessagesRepository)(nil)

func (r *PostgresMessagesRepository) InsertMessage(ctx context.Context, m *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Advancing the counter takes a row lock on the lease, serializing
	// concurrent senders so seq is gapless and strictly increasing.
	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE leases SET message_seq = message_seq + 1
		 WHERE lease_id = $1::uuid
		 RETURNING message_seq`,
		m.LeaseID,
	).Scan(&seq)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to advance message seq: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO messages (lease_id, sender_id, seq, body)
		 VALUES ($1::uuid, $2::uuid, $3, $4)
		 RETURNING message_id::text, created_at`,
		m.LeaseID, m.SenderID, seq, m.Body,
	).Scan(&m.MessageID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	m.Seq = seq

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message insert: %w", err)
	}
	return nil
}

func (r *PostgresMessagesRepository) ListByLease(ctx context.Context, leaseID string, afterSeq int64) ([]*domain.MessageWithSender, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			m.message_id::text,
			m.lease_id::text,
			m.sender_id::text,
			m.seq,
			m.body,
			m.created_at,
			COALESCE(NULLIF(TRIM(p.first_name || ' ' || p.last_name), ''), p.email) AS sender_name
		 FROM messages m
		 JOIN profiles p ON p.profile_id = m.sender_id
		 WHERE m.lease_id = $1::uuid AND m.seq > $2
		 ORDER BY m.seq ASC`,
		leaseID, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var items []*domain.MessageWithSender
	for rows.Next() {
		var m domain.MessageWithSender
		if err := rows.Scan(&m.MessageID, &m.LeaseID, &m.SenderID, &m.Seq, &m.Body, &m.CreatedAt, &m.SenderName); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

func (r *PostgresMessagesRepository) MarkRead(ctx context.Context, leaseID, readerID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO message_reads (message_id, user_id)
		 SELECT m.message_id, $2::uuid
		 FROM messages m
		 WHERE m.lease_id = $1::uuid AND m.sender_id <> $2::uuid
		 ON CONFLICT (message_id, user_id) DO NOTHING`,
		leaseID, readerID)
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (r *PostgresMessagesRepository) UnreadCount(ctx context.Context, leaseID, readerID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM messages m
		 WHERE m.lease_id = $1::uuid
		   AND m.sender_id <> $2::uuid
		   AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.message_id AND mr.user_id = $2::uuid
		   )`,
		leaseID, readerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
