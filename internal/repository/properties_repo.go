package repository

import (
	"context"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// PropertyFilters narrows property listings.
type PropertyFilters struct {
	City          string
	AvailableOnly bool
}

// PropertiesRepository covers landlord-scoped property CRUD plus the public
// available-property listing tenants browse. The is_available flag is NOT
// writable here; it only changes inside the lease transactions.
type PropertiesRepository interface {
	CreateProperty(ctx context.Context, p *domain.Property) (string, error)
	GetProperty(ctx context.Context, propertyID string) (*domain.Property, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Property, error)
	ListAvailable(ctx context.Context, filters PropertyFilters, page, size int) ([]*domain.Property, int, error)
	UpdateProperty(ctx context.Context, landlordID string, p *domain.Property) error
}
