package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

// PropertyService covers landlord property CRUD and the public browse list.
type PropertyService interface {
	CreateProperty(ctx context.Context, req PropertyRequest) (*domain.Property, error)
	UpdateProperty(ctx context.Context, propertyID string, req PropertyRequest) (*domain.Property, error)
	GetProperty(ctx context.Context, propertyID string) (*domain.Property, error)
	ListOwn(ctx context.Context, landlordID string) ([]*domain.Property, error)
	ListAvailable(ctx context.Context, city string, page, size int) ([]*domain.Property, int, error)
}

// PropertyRequest is the create/update payload.
type PropertyRequest struct {
	LandlordID  string
	Title       string
	Address     string
	City        string
	Province    string
	PostalCode  string
	MonthlyRent float64
	Bedrooms    int
	Bathrooms   float64
	SquareFeet  int
	Amenities   []string
	Description string
}

type propertyService struct {
	properties repository.PropertiesRepository
	logger     *zap.Logger
}

func NewPropertyService(properties repository.PropertiesRepository, logger *zap.Logger) PropertyService {
	return &propertyService{properties: properties, logger: logger}
}

func (s *propertyService) validate(req PropertyRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Address) == "" || strings.TrimSpace(req.City) == "" {
		return fmt.Errorf("%w: address and city are required", ErrValidation)
	}
	if req.MonthlyRent <= 0 {
		return fmt.Errorf("%w: monthly rent must be positive", ErrValidation)
	}
	return nil
}

func (s *propertyService) toDomain(req PropertyRequest) *domain.Property {
	return &domain.Property{
		LandlordID:  req.LandlordID,
		Title:       strings.TrimSpace(req.Title),
		Address:     strings.TrimSpace(req.Address),
		City:        strings.TrimSpace(req.City),
		Province:    strings.TrimSpace(req.Province),
		PostalCode:  strings.TrimSpace(req.PostalCode),
		MonthlyRent: req.MonthlyRent,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		SquareFeet:  nullInt64(req.SquareFeet),
		Amenities:   pq.StringArray(req.Amenities),
		Description: nullString(strings.TrimSpace(req.Description)),
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, req PropertyRequest) (*domain.Property, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	p := s.toDomain(req)
	id, err := s.properties.CreateProperty(ctx, p)
	if err != nil {
		s.logger.Error("property creation failed",
			zap.String("landlord_id", req.LandlordID), zap.Error(err))
		return nil, err
	}
	return s.properties.GetProperty(ctx, id)
}

func (s *propertyService) UpdateProperty(ctx context.Context, propertyID string, req PropertyRequest) (*domain.Property, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	p := s.toDomain(req)
	p.PropertyID = propertyID
	if err := s.properties.UpdateProperty(ctx, req.LandlordID, p); err != nil {
		return nil, err
	}
	return s.properties.GetProperty(ctx, propertyID)
}

func (s *propertyService) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	return s.properties.GetProperty(ctx, propertyID)
}

func (s *propertyService) ListOwn(ctx context.Context, landlordID string) ([]*domain.Property, error) {
	return s.properties.ListByLandlord(ctx, landlordID)
}

func (s *propertyService) ListAvailable(ctx context.Context, city string, page, size int) ([]*domain.Property, int, error) {
	return s.properties.ListAvailable(ctx, repository.PropertyFilters{City: city, AvailableOnly: true}, page, size)
}
