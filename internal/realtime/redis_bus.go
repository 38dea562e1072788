package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisBus carries events over redis pub/sub so every API instance sees
// every event.
type RedisBus struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisBus(client *redis.Client, logger *zap.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

var _ Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, topic string, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, topic, raw).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string) (<-chan Event, func(), error) {
	sub := b.client.Subscribe(ctx, topic)
	// Force the subscription onto the wire before we report success.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan Event, 16)
	done := make(chan struct{})

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed realtime event",
						zap.String("topic", topic), zap.Error(err))
					continue
				}
				select {
				case out <- ev:
				case <-done:
					return
				default:
					// Slow subscriber: drop rather than block the pump.
					b.logger.Warn("dropping realtime event for slow subscriber",
						zap.String("topic", topic))
				}
			}
		}
	}()

	cancel := func() {
		close(done)
		_ = sub.Close()
	}
	return out, cancel, nil
}
