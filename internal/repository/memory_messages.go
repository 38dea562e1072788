package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// MemoryMessagesRepository assigns seq under one mutex, matching the
// serialization the postgres implementation gets from the lease row lock.
// Sender names are resolved through the profiles repository.
type MemoryMessagesRepository struct {
	mu       sync.Mutex
	messages map[string][]domain.Message        // leaseID -> messages in seq order
	seqs     map[string]int64                   // leaseID -> last seq
	reads    map[string]map[string]struct{}     // messageID -> readers
	profiles *MemoryProfilesRepository
}

func NewMemoryMessagesRepository(profiles *MemoryProfilesRepository) *MemoryMessagesRepository {
	return &MemoryMessagesRepository{
		messages: map[string][]domain.Message{},
		seqs:     map[string]int64{},
		reads:    map[string]map[string]struct{}{},
		profiles: profiles,
	}
}

var _ MessagesRepository = (*MemoryMessagesRepository)(nil)

func (r *MemoryMessagesRepository) InsertMessage(_ context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seqs[m.LeaseID]++
	m.Seq = r.seqs[m.LeaseID]
	m.MessageID = uuid.NewString()
	m.CreatedAt = time.Now()
	r.messages[m.LeaseID] = append(r.messages[m.LeaseID], *m)
	return nil
}

func (r *MemoryMessagesRepository) ListByLease(ctx context.Context, leaseID string, afterSeq int64) ([]*domain.MessageWithSender, error) {
	r.mu.Lock()
	msgs := append([]domain.Message(nil), r.messages[leaseID]...)
	r.mu.Unlock()

	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Seq < msgs[j].Seq })

	var items []*domain.MessageWithSender
	for _, m := range msgs {
		if m.Seq <= afterSeq {
			continue
		}
		name := m.SenderID
		if r.profiles != nil {
			if p, err := r.profiles.GetProfile(ctx, m.SenderID); err == nil {
				name = p.DisplayName()
			}
		}
		items = append(items, &domain.MessageWithSender{Message: m, SenderName: name})
	}
	return items, nil
}

func (r *MemoryMessagesRepository) MarkRead(_ context.Context, leaseID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[leaseID] {
		if m.SenderID == readerID {
			continue
		}
		if r.reads[m.MessageID] == nil {
			r.reads[m.MessageID] = map[string]struct{}{}
		}
		r.reads[m.MessageID][readerID] = struct{}{}
	}
	return nil
}

func (r *MemoryMessagesRepository) UnreadCount(_ context.Context, leaseID, readerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, m := range r.messages[leaseID] {
		if m.SenderID == readerID {
			continue
		}
		if _, read := r.reads[m.MessageID][readerID]; !read {
			count++
		}
	}
	return count, nil
}
