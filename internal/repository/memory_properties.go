package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type MemoryPropertiesRepository struct {
	mu         sync.RWMutex
	properties map[string]domain.Property // propertyID -> property
}

func NewMemoryPropertiesRepository() *MemoryPropertiesRepository {
	return &MemoryPropertiesRepository{properties: map[string]domain.Property{}}
}

var _ PropertiesRepository = (*MemoryPropertiesRepository)(nil)

func (r *MemoryPropertiesRepository) CreateProperty(_ context.Context, p *domain.Property) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *p
	stored.PropertyID = uuid.NewString()
	stored.IsAvailable = true
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.properties[stored.PropertyID] = stored
	return stored.PropertyID, nil
}

func (r *MemoryPropertiesRepository) GetProperty(_ context.Context, propertyID string) (*domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.properties[propertyID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *MemoryPropertiesRepository) ListByLandlord(_ context.Context, landlordID string) ([]*domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.Property
	for _, p := range r.properties {
		if p.LandlordID != landlordID {
			continue
		}
		copied := p
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *MemoryPropertiesRepository) ListAvailable(_ context.Context, filters PropertyFilters, page, size int) ([]*domain.Property, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*domain.Property
	for _, p := range r.properties {
		if !p.IsAvailable {
			continue
		}
		if filters.City != "" && !strings.EqualFold(p.City, filters.City) {
			continue
		}
		copied := p
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryPropertiesRepository) UpdateProperty(_ context.Context, landlordID string, p *domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.properties[p.PropertyID]
	if !ok || existing.LandlordID != landlordID {
		return ErrNotFound
	}
	updated := *p
	updated.LandlordID = existing.LandlordID
	updated.IsAvailable = existing.IsAvailable
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	r.properties[p.PropertyID] = updated
	return nil
}

// setAvailability is used by MemoryLeasesRepository inside its own lock to
// mirror the transactional availability flip.
func (r *MemoryPropertiesRepository) setAvailability(propertyID string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.properties[propertyID]; ok {
		p.IsAvailable = available
		p.UpdatedAt = time.Now()
		r.properties[propertyID] = p
	}
}

// owner reports the landlord owning propertyID, or "" when absent.
func (r *MemoryPropertiesRepository) owner(propertyID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.properties[propertyID]; ok {
		return p.LandlordID
	}
	return ""
}
