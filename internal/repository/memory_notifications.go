package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type MemoryNotificationsRepository struct {
	mu            sync.RWMutex
	notifications map[string]domain.Notification
}

func NewMemoryNotificationsRepository() *MemoryNotificationsRepository {
	return &MemoryNotificationsRepository{notifications: map[string]domain.Notification{}}
}

var _ NotificationsRepository = (*MemoryNotificationsRepository)(nil)

func (r *MemoryNotificationsRepository) CreateNotification(_ context.Context, n *domain.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *n
	stored.NotificationID = uuid.NewString()
	stored.CreatedAt = time.Now()
	if stored.Priority == "" {
		stored.Priority = domain.NotificationPriorityNormal
	}
	r.notifications[stored.NotificationID] = stored
	n.NotificationID = stored.NotificationID
	return stored.NotificationID, nil
}

func (r *MemoryNotificationsRepository) ListByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	var items []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		copied := n
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryNotificationsRepository) MarkRead(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[notificationID]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.IsRead = true
	r.notifications[notificationID] = n
	return nil
}

func (r *MemoryNotificationsRepository) Delete(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[notificationID]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	delete(r.notifications, notificationID)
	return nil
}
