package repository

import (
	"context"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// ApplicationsRepository covers tenant application intake and the landlord
// decision path. DecideApplication transitions pending -> approved/rejected
// exactly once and writes the applicant's notification in the same
// transaction.
type ApplicationsRepository interface {
	CreateApplication(ctx context.Context, a *domain.Application) (string, error)
	GetApplication(ctx context.Context, applicationID string) (*domain.Application, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*domain.Application, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Application, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Application, error)
	DecideApplication(ctx context.Context, applicationID, status string, notif *domain.Notification) error
}
