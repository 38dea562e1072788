package repository

import (
	"context"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// MessagesRepository is the append-only per-lease message log. InsertMessage
// assigns the per-lease monotonic seq inside its transaction, so ordering is
// decided by the counter, not by insert timestamps.
type MessagesRepository interface {
	// InsertMessage fills m.MessageID, m.Seq and m.CreatedAt on success.
	InsertMessage(ctx context.Context, m *domain.Message) error

	// ListByLease returns messages ordered by seq ascending, each joined
	// with the sender's display name. afterSeq > 0 returns only rows with a
	// higher seq (incremental catch-up).
	ListByLease(ctx context.Context, leaseID string, afterSeq int64) ([]*domain.MessageWithSender, error)

	// MarkRead writes read markers for every counterpart message the reader
	// has not marked yet.
	MarkRead(ctx context.Context, leaseID, readerID string) error

	// UnreadCount counts counterpart messages without the reader's marker.
	UnreadCount(ctx context.Context, leaseID, readerID string) (int, error)
}
