package realtime

import (
	"context"
	"sync"
)

// MemoryBus is a process-local Bus for dev mode and tests.
type MemoryBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Event // topic -> subID -> channel
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[string]map[int]chan Event{}}
}

var _ Bus = (*MemoryBus)(nil)

func (b *MemoryBus) Publish(_ context.Context, topic string, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop, same policy as the redis bus.
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context, topic string) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Event, 16)
	if b.subs[topic] == nil {
		b.subs[topic] = map[int]chan Event{}
	}
	b.subs[topic][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[topic][id]; ok {
			delete(b.subs[topic], id)
			close(sub)
		}
	}
	return ch, cancel, nil
}
