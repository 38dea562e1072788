package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// MemoryLeasesRepository mirrors the postgres transaction semantics under a
// single mutex: the create path checks the active-lease invariant and flips
// the property atomically, so the concurrency tests exercise the same
// guarantees the partial unique index provides.
type MemoryLeasesRepository struct {
	mu            sync.Mutex
	leases        map[string]domain.Lease
	leaseTenants  map[string][]domain.LeaseTenant // leaseID -> rows
	properties    *MemoryPropertiesRepository
	notifications *MemoryNotificationsRepository
}

func NewMemoryLeasesRepository(properties *MemoryPropertiesRepository, notifications *MemoryNotificationsRepository) *MemoryLeasesRepository {
	return &MemoryLeasesRepository{
		leases:        map[string]domain.Lease{},
		leaseTenants:  map[string][]domain.LeaseTenant{},
		properties:    properties,
		notifications: notifications,
	}
}

var _ LeasesRepository = (*MemoryLeasesRepository)(nil)

func (r *MemoryLeasesRepository) CreateLease(ctx context.Context, lease *domain.Lease, tenants []domain.LeaseTenant, notif *domain.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	owner := r.properties.owner(lease.PropertyID)
	if owner == "" || owner != lease.LandlordID {
		return "", ErrNotFound
	}

	if lease.Status == domain.LeaseStatusActive {
		for _, l := range r.leases {
			if l.PropertyID == lease.PropertyID && l.Status == domain.LeaseStatusActive {
				return "", ErrActiveLeaseExists
			}
		}
	}

	stored := *lease
	stored.LeaseID = uuid.NewString()
	stored.CreatedAt = time.Now()
	r.leases[stored.LeaseID] = stored

	rows := make([]domain.LeaseTenant, 0, len(tenants))
	for _, t := range tenants {
		t.LeaseTenantID = uuid.NewString()
		t.LeaseID = stored.LeaseID
		rows = append(rows, t)
	}
	r.leaseTenants[stored.LeaseID] = rows

	r.properties.setAvailability(stored.PropertyID, false)

	if notif != nil && r.notifications != nil {
		if _, err := r.notifications.CreateNotification(ctx, notif); err != nil {
			return "", err
		}
	}
	return stored.LeaseID, nil
}

func (r *MemoryLeasesRepository) GetLease(_ context.Context, leaseID string) (*domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leases[leaseID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := l
	return &copied, nil
}

func (r *MemoryLeasesRepository) GetActiveByProperty(_ context.Context, propertyID string) (*domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leases {
		if l.PropertyID == propertyID && l.Status == domain.LeaseStatusActive {
			copied := l
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryLeasesRepository) ListByLandlord(_ context.Context, landlordID string) ([]*domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*domain.Lease
	for _, l := range r.leases {
		if l.LandlordID != landlordID {
			continue
		}
		copied := l
		items = append(items, &copied)
	}
	sortLeases(items)
	return items, nil
}

func (r *MemoryLeasesRepository) ListByTenant(_ context.Context, tenantID string) ([]*domain.Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*domain.Lease
	for _, l := range r.leases {
		if !l.TenantID.Valid || l.TenantID.String != tenantID {
			continue
		}
		copied := l
		items = append(items, &copied)
	}
	sortLeases(items)
	return items, nil
}

func sortLeases(items []*domain.Lease) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func (r *MemoryLeasesRepository) ListLeaseTenants(_ context.Context, leaseID string) ([]*domain.LeaseTenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.leaseTenants[leaseID]
	items := make([]*domain.LeaseTenant, 0, len(rows))
	for i := range rows {
		copied := rows[i]
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsPrimary != items[j].IsPrimary {
			return items[i].IsPrimary
		}
		return items[i].TenantName < items[j].TenantName
	})
	return items, nil
}

func (r *MemoryLeasesRepository) TerminateLease(ctx context.Context, leaseID, landlordID string, notif *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leases[leaseID]
	if !ok || l.LandlordID != landlordID || l.Status != domain.LeaseStatusActive {
		return ErrNotFound
	}
	l.Status = domain.LeaseStatusExpired
	r.leases[leaseID] = l
	r.properties.setAvailability(l.PropertyID, true)

	if notif != nil && r.notifications != nil {
		if _, err := r.notifications.CreateNotification(ctx, notif); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryLeasesRepository) ExpireDue(_ context.Context, asOf time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expired := 0
	for id, l := range r.leases {
		if l.Status == domain.LeaseStatusActive && l.LeaseEndDate.Before(asOf) {
			l.Status = domain.LeaseStatusExpired
			r.leases[id] = l
			r.properties.setAvailability(l.PropertyID, true)
			expired++
		}
	}
	return expired, nil
}
