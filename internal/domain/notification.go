package domain

import (
	"encoding/json"
	"time"
)

// Notification types written by the flows in this service.
const (
	NotificationTypeLeaseCreated        = "lease_created"
	NotificationTypeLeaseTerminated     = "lease_terminated"
	NotificationTypeApplicationReceived = "application_received"
	NotificationTypeApplicationDecided  = "application_decided"
)

// Notification priorities.
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// Notification maps the notifications table. Rows are written as side
// effects of other flows; the user lists, marks read, and deletes them.
type Notification struct {
	NotificationID string          `db:"notification_id"`
	UserID         string          `db:"user_id"`
	Type           string          `db:"type"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	Metadata       json.RawMessage `db:"metadata"`
	Priority       string          `db:"priority"`
	IsRead         bool            `db:"is_read"`
	CreatedAt      time.Time       `db:"created_at"`
}
