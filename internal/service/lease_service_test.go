package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

type leaseFixture struct {
	properties    *repository.MemoryPropertiesRepository
	leases        *repository.MemoryLeasesRepository
	notifications *repository.MemoryNotificationsRepository
	svc           LeaseService
}

func newLeaseFixture(t *testing.T) *leaseFixture {
	t.Helper()
	properties := repository.NewMemoryPropertiesRepository()
	notifications := repository.NewMemoryNotificationsRepository()
	leases := repository.NewMemoryLeasesRepository(properties, notifications)
	return &leaseFixture{
		properties:    properties,
		leases:        leases,
		notifications: notifications,
		svc:           NewLeaseService(leases, properties, zap.NewNop()),
	}
}

func (f *leaseFixture) addProperty(t *testing.T, landlordID string) string {
	t.Helper()
	id, err := f.properties.CreateProperty(context.Background(), &domain.Property{
		LandlordID:  landlordID,
		Title:       "Maple Duplex",
		Address:     "12 Maple St",
		City:        "Halifax",
		MonthlyRent: 1800,
	})
	require.NoError(t, err)
	return id
}

func validLeaseRequest(landlordID, propertyID string) CreateLeaseRequest {
	return CreateLeaseRequest{
		LandlordID:    landlordID,
		PropertyID:    propertyID,
		Tenants:       []LeaseTenantInput{{Name: "Jordan Baker", Email: "jordan@example.com"}},
		MonthlyRent:   1800,
		StartDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC),
		SignatureName: "Alex Landlord",
	}
}

func TestCreateLeaseValidation(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	cases := []struct {
		name   string
		mutate func(*CreateLeaseRequest)
	}{
		{"missing property", func(r *CreateLeaseRequest) { r.PropertyID = "" }},
		{"no tenants", func(r *CreateLeaseRequest) { r.Tenants = nil }},
		{"blank tenant names only", func(r *CreateLeaseRequest) {
			r.Tenants = []LeaseTenantInput{{Name: "   "}, {Name: ""}}
		}},
		{"missing dates", func(r *CreateLeaseRequest) { r.StartDate = time.Time{} }},
		{"end before start", func(r *CreateLeaseRequest) {
			r.StartDate, r.EndDate = r.EndDate, r.StartDate
		}},
		{"zero rent", func(r *CreateLeaseRequest) { r.MonthlyRent = 0 }},
		{"missing signature", func(r *CreateLeaseRequest) { r.SignatureName = "  " }},
		{"bad status", func(r *CreateLeaseRequest) { r.Status = "pending" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validLeaseRequest(landlord, propertyID)
			tc.mutate(&req)
			_, err := f.svc.CreateLease(context.Background(), req)
			require.ErrorIs(t, err, ErrValidation)

			// Nothing was written.
			leases, listErr := f.leases.ListByLandlord(context.Background(), landlord)
			require.NoError(t, listErr)
			assert.Empty(t, leases)
		})
	}
}

func TestCreateLease(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	req := validLeaseRequest(landlord, propertyID)
	req.Tenants = []LeaseTenantInput{
		{Name: "Jordan Baker", Email: "jordan@example.com"},
		{Name: "   "},
		{Name: "Sam Reed"},
	}

	detail, err := f.svc.CreateLease(context.Background(), req)
	require.NoError(t, err)

	// Only the two non-blank entries became rows; the first is primary.
	require.Len(t, detail.Tenants, 2)
	assert.True(t, detail.Tenants[0].IsPrimary)
	assert.Equal(t, "Jordan Baker", detail.Tenants[0].TenantName)
	assert.Equal(t, "Jordan Baker, Sam Reed", detail.Lease.TenantName)
	assert.Equal(t, domain.LeaseStatusActive, detail.Lease.Status)

	// The property is no longer listed as available.
	p, err := f.properties.GetProperty(context.Background(), propertyID)
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)

	// The landlord got a creation notification.
	notifs, err := f.notifications.ListByUser(context.Background(), landlord, false, 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, domain.NotificationTypeLeaseCreated, notifs[0].Type)
}

func TestCreateLeaseRejectsSecondActive(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	_, err := f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
	require.NoError(t, err)

	_, err = f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
	require.ErrorIs(t, err, repository.ErrActiveLeaseExists)
}

func TestCreateLeaseDraftDoesNotBlock(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	draft := validLeaseRequest(landlord, propertyID)
	draft.Status = domain.LeaseStatusDraft
	_, err := f.svc.CreateLease(context.Background(), draft)
	require.NoError(t, err)

	_, err = f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
	require.NoError(t, err)
}

func TestCreateLeaseConcurrentOneWinner(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrActiveLeaseExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, conflicts)
}

func TestCreateLeaseWrongLandlord(t *testing.T) {
	f := newLeaseFixture(t)
	propertyID := f.addProperty(t, "landlord-1")

	_, err := f.svc.CreateLease(context.Background(), validLeaseRequest("landlord-2", propertyID))
	require.ErrorIs(t, err, ErrForbidden)
}

func TestTerminateLeaseReopensProperty(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	detail, err := f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
	require.NoError(t, err)

	require.NoError(t, f.svc.TerminateLease(context.Background(), landlord, detail.Lease.LeaseID))

	p, err := f.properties.GetProperty(context.Background(), propertyID)
	require.NoError(t, err)
	assert.True(t, p.IsAvailable)

	// A second lease can now be signed.
	_, err = f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
	require.NoError(t, err)
}

func TestTerminateLeaseNotOwner(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	detail, err := f.svc.CreateLease(context.Background(), validLeaseRequest(landlord, propertyID))
	require.NoError(t, err)

	err = f.svc.TerminateLease(context.Background(), "landlord-2", detail.Lease.LeaseID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExpireDue(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	req := validLeaseRequest(landlord, propertyID)
	req.StartDate = time.Now().AddDate(-1, 0, 0)
	req.EndDate = time.Now().AddDate(0, 0, -1)
	detail, err := f.svc.CreateLease(context.Background(), req)
	require.NoError(t, err)

	n, err := f.svc.ExpireDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.leases.GetLease(context.Background(), detail.Lease.LeaseID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseStatusExpired, got.Status)

	p, err := f.properties.GetProperty(context.Background(), propertyID)
	require.NoError(t, err)
	assert.True(t, p.IsAvailable)
}

func TestGetLeaseParties(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	tenant := "tenant-1"
	propertyID := f.addProperty(t, landlord)

	req := validLeaseRequest(landlord, propertyID)
	req.TenantID = tenant
	detail, err := f.svc.CreateLease(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.GetLease(context.Background(), Principal{UserID: landlord, Role: domain.RoleLandlord}, detail.Lease.LeaseID)
	require.NoError(t, err)

	_, err = f.svc.GetLease(context.Background(), Principal{UserID: tenant, Role: domain.RoleTenant}, detail.Lease.LeaseID)
	require.NoError(t, err)

	_, err = f.svc.GetLease(context.Background(), Principal{UserID: "stranger", Role: domain.RoleTenant}, detail.Lease.LeaseID)
	require.ErrorIs(t, err, ErrForbidden)
}
