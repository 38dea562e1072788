package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

type applicationFixture struct {
	properties    *repository.MemoryPropertiesRepository
	applications  *repository.MemoryApplicationsRepository
	notifications *repository.MemoryNotificationsRepository
	svc           ApplicationService
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	properties := repository.NewMemoryPropertiesRepository()
	notifications := repository.NewMemoryNotificationsRepository()
	applications := repository.NewMemoryApplicationsRepository(properties, notifications)
	return &applicationFixture{
		properties:    properties,
		applications:  applications,
		notifications: notifications,
		svc:           NewApplicationService(applications, properties, zap.NewNop()),
	}
}

func (f *applicationFixture) addProperty(t *testing.T, landlordID string) string {
	t.Helper()
	id, err := f.properties.CreateProperty(context.Background(), &domain.Property{
		LandlordID:  landlordID,
		Title:       "Oak Flat",
		Address:     "7 Oak Ave",
		City:        "Halifax",
		MonthlyRent: 1500,
	})
	require.NoError(t, err)
	return id
}

func validApplication(tenantID, propertyID string) SubmitApplicationRequest {
	return SubmitApplicationRequest{
		TenantID:   tenantID,
		PropertyID: propertyID,
		FullName:   "Jordan Baker",
		Email:      "jordan@example.com",
		MoveInDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Consent:    true,
	}
}

func TestSubmitApplicationRequiresConsent(t *testing.T) {
	f := newApplicationFixture(t)
	propertyID := f.addProperty(t, "landlord-1")

	req := validApplication("tenant-1", propertyID)
	req.Consent = false
	_, err := f.svc.Submit(context.Background(), req)
	require.ErrorIs(t, err, ErrConsentRequired)

	// No row was written.
	items, err := f.applications.ListByTenant(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubmitApplicationValidation(t *testing.T) {
	f := newApplicationFixture(t)
	propertyID := f.addProperty(t, "landlord-1")

	for _, tc := range []struct {
		name   string
		mutate func(*SubmitApplicationRequest)
	}{
		{"missing property", func(r *SubmitApplicationRequest) { r.PropertyID = "" }},
		{"missing name", func(r *SubmitApplicationRequest) { r.FullName = " " }},
		{"missing email", func(r *SubmitApplicationRequest) { r.Email = "" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := validApplication("tenant-1", propertyID)
			tc.mutate(&req)
			_, err := f.svc.Submit(context.Background(), req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSubmitApplicationUnknownProperty(t *testing.T) {
	f := newApplicationFixture(t)
	_, err := f.svc.Submit(context.Background(), validApplication("tenant-1", "missing"))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSubmitApplication(t *testing.T) {
	f := newApplicationFixture(t)
	propertyID := f.addProperty(t, "landlord-1")

	a, err := f.svc.Submit(context.Background(), validApplication("tenant-1", propertyID))
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, a.Status)
	assert.Equal(t, "Jordan Baker", a.FullName)

	// Landlord sees it, another landlord does not.
	items, err := f.svc.ListForLandlord(context.Background(), "landlord-1", "")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = f.svc.ListForLandlord(context.Background(), "landlord-2", "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecideApplication(t *testing.T) {
	f := newApplicationFixture(t)
	propertyID := f.addProperty(t, "landlord-1")

	a, err := f.svc.Submit(context.Background(), validApplication("tenant-1", propertyID))
	require.NoError(t, err)

	// A stranger cannot decide it.
	err = f.svc.Decide(context.Background(), DecideApplicationRequest{
		LandlordID:    "landlord-2",
		ApplicationID: a.ApplicationID,
		Approve:       true,
	})
	require.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.svc.Decide(context.Background(), DecideApplicationRequest{
		LandlordID:    "landlord-1",
		ApplicationID: a.ApplicationID,
		Approve:       true,
	}))

	got, err := f.applications.GetApplication(context.Background(), a.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, got.Status)

	// The tenant was notified.
	notifs, err := f.notifications.ListByUser(context.Background(), "tenant-1", false, 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, domain.NotificationTypeApplicationDecided, notifs[0].Type)

	// A decided application cannot be decided again.
	err = f.svc.Decide(context.Background(), DecideApplicationRequest{
		LandlordID:    "landlord-1",
		ApplicationID: a.ApplicationID,
		Approve:       false,
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}
