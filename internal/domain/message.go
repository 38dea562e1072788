package domain

import "time"

// Message maps the messages table. Append-only: no edit or delete operation
// exists. Seq is assigned per lease inside the insert transaction and is the
// ordering authority (created_at is informational only).
type Message struct {
	MessageID string    `db:"message_id"`
	LeaseID   string    `db:"lease_id"`
	SenderID  string    `db:"sender_id"`
	Seq       int64     `db:"seq"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

// MessageWithSender is a message joined with the sender's display name, the
// shape the thread view consumes.
type MessageWithSender struct {
	Message
	SenderName string `db:"sender_name"`
}
