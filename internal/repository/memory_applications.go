package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type MemoryApplicationsRepository struct {
	mu            sync.Mutex
	applications  map[string]domain.Application
	properties    *MemoryPropertiesRepository
	notifications *MemoryNotificationsRepository
}

func NewMemoryApplicationsRepository(properties *MemoryPropertiesRepository, notifications *MemoryNotificationsRepository) *MemoryApplicationsRepository {
	return &MemoryApplicationsRepository{
		applications:  map[string]domain.Application{},
		properties:    properties,
		notifications: notifications,
	}
}

var _ ApplicationsRepository = (*MemoryApplicationsRepository)(nil)

func (r *MemoryApplicationsRepository) CreateApplication(_ context.Context, a *domain.Application) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *a
	stored.ApplicationID = uuid.NewString()
	stored.Status = domain.ApplicationStatusPending
	stored.SubmittedAt = time.Now()
	r.applications[stored.ApplicationID] = stored
	return stored.ApplicationID, nil
}

func (r *MemoryApplicationsRepository) GetApplication(_ context.Context, applicationID string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.applications[applicationID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (r *MemoryApplicationsRepository) ListByProperty(_ context.Context, propertyID string) ([]*domain.Application, error) {
	return r.list(func(a domain.Application) bool { return a.PropertyID == propertyID })
}

func (r *MemoryApplicationsRepository) ListByLandlord(_ context.Context, landlordID string) ([]*domain.Application, error) {
	return r.list(func(a domain.Application) bool {
		return r.properties.owner(a.PropertyID) == landlordID
	})
}

func (r *MemoryApplicationsRepository) ListByTenant(_ context.Context, tenantID string) ([]*domain.Application, error) {
	return r.list(func(a domain.Application) bool { return a.TenantID == tenantID })
}

func (r *MemoryApplicationsRepository) list(match func(domain.Application) bool) ([]*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*domain.Application
	for _, a := range r.applications {
		if !match(a) {
			continue
		}
		copied := a
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.After(items[j].SubmittedAt)
	})
	return items, nil
}

func (r *MemoryApplicationsRepository) DecideApplication(ctx context.Context, applicationID, status string, notif *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.applications[applicationID]
	if !ok || a.Status != domain.ApplicationStatusPending {
		return ErrNotFound
	}
	a.Status = status
	r.applications[applicationID] = a

	if notif != nil && r.notifications != nil {
		if _, err := r.notifications.CreateNotification(ctx, notif); err != nil {
			return err
		}
	}
	return nil
}
