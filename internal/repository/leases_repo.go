package repository

import (
	"context"
	"time"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// LeasesRepository covers the lease lifecycle. Creation and termination are
// single transactions: the lease rows, the lease_tenants rows, the property
// availability flip and the notification row commit or roll back together,
// so no partially-created lease is ever visible.
type LeasesRepository interface {
	// CreateLease inserts the lease, its tenant rows and the notification,
	// and flips the property's availability, atomically. Returns
	// ErrActiveLeaseExists when the property already carries an active lease
	// (decided by the partial unique index, not only by the pre-check).
	CreateLease(ctx context.Context, lease *domain.Lease, tenants []domain.LeaseTenant, notif *domain.Notification) (string, error)

	GetLease(ctx context.Context, leaseID string) (*domain.Lease, error)
	GetActiveByProperty(ctx context.Context, propertyID string) (*domain.Lease, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Lease, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Lease, error)
	ListLeaseTenants(ctx context.Context, leaseID string) ([]*domain.LeaseTenant, error)

	// TerminateLease moves an active lease to expired, re-opens the property
	// and writes the notification, atomically.
	TerminateLease(ctx context.Context, leaseID, landlordID string, notif *domain.Notification) error

	// ExpireDue flips every active lease whose end date has passed to
	// expired and re-opens the affected properties. Returns the number of
	// leases expired.
	ExpireDue(ctx context.Context, asOf time.Time) (int, error)
}
