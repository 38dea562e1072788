// Package realtime fans events out to live subscribers: new messages to the
// open thread views, notifications to the bell icon. Redis pub/sub carries
// events across instances; the memory bus serves single-instance dev mode
// and tests. Subscription lifetime is the caller's connection lifetime.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event kinds carried on the bus.
const (
	EventMessageCreated      = "message_created"
	EventNotificationCreated = "notification_created"
)

// Event is the wire unit. Payload carries the full entity so subscribers
// merge incrementally instead of re-fetching the whole thread.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Bus publishes and subscribes by topic.
type Bus interface {
	Publish(ctx context.Context, topic string, ev Event) error
	// Subscribe returns a receive channel and a cancel func that must be
	// called when the subscriber goes away. The channel is closed after
	// cancel.
	Subscribe(ctx context.Context, topic string) (<-chan Event, func(), error)
}

// LeaseMessagesTopic is the per-lease thread topic.
func LeaseMessagesTopic(leaseID string) string {
	return fmt.Sprintf("lease:%s:messages", leaseID)
}

// UserNotificationsTopic is the per-user notification topic.
func UserNotificationsTopic(userID string) string {
	return fmt.Sprintf("user:%s:notifications", userID)
}

// NewEvent marshals payload into an Event.
func NewEvent(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}
