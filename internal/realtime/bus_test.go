package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestMemoryBusFanOut(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()
	topic := LeaseMessagesTopic("lease-1")

	first, cancelFirst, err := bus.Subscribe(ctx, topic)
	require.NoError(t, err)
	second, cancelSecond, err := bus.Subscribe(ctx, topic)
	require.NoError(t, err)
	defer cancelSecond()

	ev, err := NewEvent(EventMessageCreated, map[string]string{"body": "hello"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, topic, ev))

	assert.Equal(t, EventMessageCreated, waitEvent(t, first).Type)
	assert.Equal(t, EventMessageCreated, waitEvent(t, second).Type)

	// After cancel the channel closes and no more events arrive.
	cancelFirst()
	_, open := <-first
	assert.False(t, open)

	// Publishing to a topic with no subscribers is fine.
	require.NoError(t, bus.Publish(ctx, UserNotificationsTopic("user-1"), ev))
}

func TestMemoryBusTopicIsolation(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, cancel, err := bus.Subscribe(ctx, LeaseMessagesTopic("lease-1"))
	require.NoError(t, err)
	defer cancel()

	ev, err := NewEvent(EventMessageCreated, map[string]string{"body": "elsewhere"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, LeaseMessagesTopic("lease-2"), ev))

	select {
	case <-ch:
		t.Fatal("event leaked across topics")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisBusPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bus := NewRedisBus(client, zap.NewNop())
	ctx := context.Background()
	topic := LeaseMessagesTopic("lease-1")

	ch, cancel, err := bus.Subscribe(ctx, topic)
	require.NoError(t, err)
	defer cancel()

	ev, err := NewEvent(EventNotificationCreated, map[string]string{"title": "Lease created"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, topic, ev))

	got := waitEvent(t, ch)
	assert.Equal(t, EventNotificationCreated, got.Type)
	assert.Contains(t, string(got.Payload), "Lease created")
}

func TestRedisBusCancelClosesChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bus := NewRedisBus(client, zap.NewNop())
	ch, cancel, err := bus.Subscribe(context.Background(), "topic")
	require.NoError(t, err)

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
