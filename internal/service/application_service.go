package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

// ErrConsentRequired rejects a submission whose consent box was not ticked;
// nothing is written in that case.
var ErrConsentRequired = errors.New("consent is required to submit an application")

// ApplicationService covers tenant application intake and the landlord
// decision path.
type ApplicationService interface {
	Submit(ctx context.Context, req SubmitApplicationRequest) (*domain.Application, error)
	ListForLandlord(ctx context.Context, landlordID, propertyID string) ([]*domain.Application, error)
	ListOwn(ctx context.Context, tenantID string) ([]*domain.Application, error)
	Decide(ctx context.Context, req DecideApplicationRequest) error
}

type SubmitApplicationRequest struct {
	TenantID   string
	PropertyID string

	FullName string
	Email    string
	Phone    string

	CurrentAddress string
	Employer       string
	JobTitle       string
	AnnualIncome   float64

	ReferenceName  string
	ReferencePhone string

	MoveInDate time.Time
	Notes      string

	Consent bool
}

type DecideApplicationRequest struct {
	LandlordID    string
	ApplicationID string
	Approve       bool
}

type applicationService struct {
	applications repository.ApplicationsRepository
	properties   repository.PropertiesRepository
	logger       *zap.Logger
}

func NewApplicationService(applications repository.ApplicationsRepository, properties repository.PropertiesRepository, logger *zap.Logger) ApplicationService {
	return &applicationService{applications: applications, properties: properties, logger: logger}
}

func (s *applicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (*domain.Application, error) {
	// The consent check runs before anything else touches the network or
	// the database.
	if !req.Consent {
		return nil, ErrConsentRequired
	}
	if req.PropertyID == "" {
		return nil, fmt.Errorf("%w: property is required", ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}

	if _, err := s.properties.GetProperty(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	a := &domain.Application{
		PropertyID:     req.PropertyID,
		TenantID:       req.TenantID,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          nullString(strings.TrimSpace(req.Phone)),
		CurrentAddress: nullString(strings.TrimSpace(req.CurrentAddress)),
		Employer:       nullString(strings.TrimSpace(req.Employer)),
		JobTitle:       nullString(strings.TrimSpace(req.JobTitle)),
		AnnualIncome:   nullFloat(req.AnnualIncome, req.AnnualIncome > 0),
		ReferenceName:  nullString(strings.TrimSpace(req.ReferenceName)),
		ReferencePhone: nullString(strings.TrimSpace(req.ReferencePhone)),
		MoveInDate:     nullTime(req.MoveInDate),
		Notes:          nullString(strings.TrimSpace(req.Notes)),
	}

	id, err := s.applications.CreateApplication(ctx, a)
	if err != nil {
		s.logger.Error("application submission failed",
			zap.String("property_id", req.PropertyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("application submitted",
		zap.String("application_id", id),
		zap.String("property_id", req.PropertyID),
	)
	return s.applications.GetApplication(ctx, id)
}

func (s *applicationService) ListForLandlord(ctx context.Context, landlordID, propertyID string) ([]*domain.Application, error) {
	if propertyID == "" {
		return s.applications.ListByLandlord(ctx, landlordID)
	}
	property, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.LandlordID != landlordID {
		return nil, ErrForbidden
	}
	return s.applications.ListByProperty(ctx, propertyID)
}

func (s *applicationService) ListOwn(ctx context.Context, tenantID string) ([]*domain.Application, error) {
	return s.applications.ListByTenant(ctx, tenantID)
}

func (s *applicationService) Decide(ctx context.Context, req DecideApplicationRequest) error {
	a, err := s.applications.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		return err
	}
	property, err := s.properties.GetProperty(ctx, a.PropertyID)
	if err != nil {
		return err
	}
	if property.LandlordID != req.LandlordID {
		return ErrForbidden
	}

	status := domain.ApplicationStatusRejected
	title := "Application update"
	description := fmt.Sprintf("Your application for %s was not approved", property.Title)
	if req.Approve {
		status = domain.ApplicationStatusApproved
		description = fmt.Sprintf("Your application for %s was approved", property.Title)
	}

	metadata, _ := json.Marshal(map[string]string{
		"application_id": req.ApplicationID,
		"property_id":    a.PropertyID,
		"status":         status,
	})
	notif := &domain.Notification{
		UserID:      a.TenantID,
		Type:        domain.NotificationTypeApplicationDecided,
		Title:       title,
		Description: description,
		Metadata:    metadata,
		Priority:    domain.NotificationPriorityHigh,
	}

	if err := s.applications.DecideApplication(ctx, req.ApplicationID, status, notif); err != nil {
		s.logger.Error("application decision failed",
			zap.String("application_id", req.ApplicationID), zap.Error(err))
		return err
	}
	s.logger.Info("application decided",
		zap.String("application_id", req.ApplicationID),
		zap.String("status", status),
	)
	return nil
}
