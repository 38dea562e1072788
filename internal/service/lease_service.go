package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

// LeaseService drives the lease lifecycle. Creation is all-or-nothing: the
// lease, its tenant rows, the property availability flip and the creation
// notification commit in one repository transaction.
type LeaseService interface {
	CreateLease(ctx context.Context, req CreateLeaseRequest) (*LeaseDetail, error)
	GetLease(ctx context.Context, caller Principal, leaseID string) (*LeaseDetail, error)
	ListLeases(ctx context.Context, caller Principal) ([]*domain.Lease, error)
	TerminateLease(ctx context.Context, landlordID, leaseID string) error
	// ExpireDue moves active leases past their end date to expired.
	ExpireDue(ctx context.Context) (int, error)
}

// LeaseTenantInput is one tenant entry on the lease form.
type LeaseTenantInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateLeaseRequest struct {
	LandlordID string
	PropertyID string
	// TenantID optionally links the primary tenant's account.
	TenantID string

	Tenants []LeaseTenantInput

	MonthlyRent     float64
	SecurityDeposit float64
	PetDeposit      float64

	StartDate time.Time
	EndDate   time.Time

	// Status is draft or active; empty means active.
	Status string

	UtilitiesIncluded []string
	SpecialTerms      string
	HasPets           bool
	ReminderSettings  json.RawMessage

	// SignatureName must be the landlord's typed signature.
	SignatureName string
}

// LeaseDetail is a lease with its tenant rows.
type LeaseDetail struct {
	Lease   *domain.Lease         `json:"lease"`
	Tenants []*domain.LeaseTenant `json:"tenants"`
}

type leaseService struct {
	leases     repository.LeasesRepository
	properties repository.PropertiesRepository
	logger     *zap.Logger
}

func NewLeaseService(leases repository.LeasesRepository, properties repository.PropertiesRepository, logger *zap.Logger) LeaseService {
	return &leaseService{leases: leases, properties: properties, logger: logger}
}

// nonBlankTenants filters the form entries down to the ones with a name.
func nonBlankTenants(inputs []LeaseTenantInput) []LeaseTenantInput {
	var out []LeaseTenantInput
	for _, t := range inputs {
		if strings.TrimSpace(t.Name) != "" {
			t.Name = strings.TrimSpace(t.Name)
			out = append(out, t)
		}
	}
	return out
}

func (s *leaseService) CreateLease(ctx context.Context, req CreateLeaseRequest) (*LeaseDetail, error) {
	// Fail fast before any write.
	if req.PropertyID == "" {
		return nil, fmt.Errorf("%w: property is required", ErrValidation)
	}
	tenants := nonBlankTenants(req.Tenants)
	if len(tenants) == 0 {
		return nil, fmt.Errorf("%w: at least one tenant name is required", ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: lease start and end dates are required", ErrValidation)
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: lease end date must be after the start date", ErrValidation)
	}
	if req.MonthlyRent <= 0 {
		return nil, fmt.Errorf("%w: monthly rent must be positive", ErrValidation)
	}
	if strings.TrimSpace(req.SignatureName) == "" {
		return nil, fmt.Errorf("%w: signature name is required", ErrValidation)
	}
	status := req.Status
	if status == "" {
		status = domain.LeaseStatusActive
	}
	if status != domain.LeaseStatusDraft && status != domain.LeaseStatusActive {
		return nil, fmt.Errorf("%w: status must be draft or active", ErrValidation)
	}

	property, err := s.properties.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.LandlordID != req.LandlordID {
		return nil, ErrForbidden
	}

	names := make([]string, 0, len(tenants))
	rows := make([]domain.LeaseTenant, 0, len(tenants))
	for i, t := range tenants {
		names = append(names, t.Name)
		rows = append(rows, domain.LeaseTenant{
			TenantName:  t.Name,
			TenantEmail: nullString(strings.TrimSpace(t.Email)),
			TenantPhone: nullString(strings.TrimSpace(t.Phone)),
			IsPrimary:   i == 0,
		})
	}

	lease := &domain.Lease{
		PropertyID:        req.PropertyID,
		LandlordID:        req.LandlordID,
		TenantID:          nullString(req.TenantID),
		TenantName:        strings.Join(names, ", "),
		MonthlyRent:       req.MonthlyRent,
		SecurityDeposit:   req.SecurityDeposit,
		PetDeposit:        req.PetDeposit,
		LeaseStartDate:    req.StartDate,
		LeaseEndDate:      req.EndDate,
		Status:            status,
		UtilitiesIncluded: pq.StringArray(req.UtilitiesIncluded),
		SpecialTerms:      nullString(strings.TrimSpace(req.SpecialTerms)),
		HasPets:           req.HasPets,
		ReminderSettings:  req.ReminderSettings,
	}

	metadata, _ := json.Marshal(map[string]string{"property_id": req.PropertyID})
	notif := &domain.Notification{
		UserID:      req.LandlordID,
		Type:        domain.NotificationTypeLeaseCreated,
		Title:       "Lease created",
		Description: fmt.Sprintf("Lease for %s signed by %s", property.Title, strings.TrimSpace(req.SignatureName)),
		Metadata:    metadata,
		Priority:    domain.NotificationPriorityNormal,
	}

	leaseID, err := s.leases.CreateLease(ctx, lease, rows, notif)
	if err != nil {
		if errors.Is(err, repository.ErrActiveLeaseExists) {
			s.logger.Warn("lease creation rejected: active lease exists",
				zap.String("property_id", req.PropertyID),
				zap.String("landlord_id", req.LandlordID),
			)
			return nil, err
		}
		s.logger.Error("lease creation failed",
			zap.String("property_id", req.PropertyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("lease created",
		zap.String("lease_id", leaseID),
		zap.String("property_id", req.PropertyID),
		zap.Int("tenant_count", len(rows)),
	)

	created, err := s.leases.GetLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	createdTenants, err := s.leases.ListLeaseTenants(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	return &LeaseDetail{Lease: created, Tenants: createdTenants}, nil
}

func (s *leaseService) GetLease(ctx context.Context, caller Principal, leaseID string) (*LeaseDetail, error) {
	lease, err := s.leases.GetLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if !leaseParty(lease, caller) {
		return nil, ErrForbidden
	}
	tenants, err := s.leases.ListLeaseTenants(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	return &LeaseDetail{Lease: lease, Tenants: tenants}, nil
}

// leaseParty reports whether the caller is the landlord or the linked tenant.
func leaseParty(lease *domain.Lease, caller Principal) bool {
	if lease.LandlordID == caller.UserID {
		return true
	}
	return lease.TenantID.Valid && lease.TenantID.String == caller.UserID
}

func (s *leaseService) ListLeases(ctx context.Context, caller Principal) ([]*domain.Lease, error) {
	if caller.Role == domain.RoleLandlord {
		return s.leases.ListByLandlord(ctx, caller.UserID)
	}
	return s.leases.ListByTenant(ctx, caller.UserID)
}

func (s *leaseService) TerminateLease(ctx context.Context, landlordID, leaseID string) error {
	metadata, _ := json.Marshal(map[string]string{"lease_id": leaseID})
	notif := &domain.Notification{
		UserID:      landlordID,
		Type:        domain.NotificationTypeLeaseTerminated,
		Title:       "Lease terminated",
		Description: "The lease was terminated and the property is available again",
		Metadata:    metadata,
		Priority:    domain.NotificationPriorityNormal,
	}
	if err := s.leases.TerminateLease(ctx, leaseID, landlordID, notif); err != nil {
		s.logger.Error("lease termination failed",
			zap.String("lease_id", leaseID), zap.Error(err))
		return err
	}
	s.logger.Info("lease terminated", zap.String("lease_id", leaseID))
	return nil
}

func (s *leaseService) ExpireDue(ctx context.Context) (int, error) {
	n, err := s.leases.ExpireDue(ctx, time.Now())
	if err != nil {
		s.logger.Error("lease expiry sweep failed", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired due leases", zap.Int("count", n))
	}
	return n, nil
}
