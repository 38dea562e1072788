package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

func newLeaseMock(t *testing.T) (*PostgresLeasesRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresLeasesRepository(db), mock
}

func sampleLease() *domain.Lease {
	return &domain.Lease{
		PropertyID:     "11111111-1111-1111-1111-111111111111",
		LandlordID:     "22222222-2222-2222-2222-222222222222",
		TenantName:     "Jordan Baker",
		MonthlyRent:    1800,
		LeaseStartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		LeaseEndDate:   time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:         domain.LeaseStatusActive,
	}
}

func TestCreateLeaseUniqueIndexConflict(t *testing.T) {
	repo, mock := newLeaseMock(t)
	lease := sampleLease()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT landlord_id::text FROM properties`).
		WithArgs(lease.PropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"landlord_id"}).AddRow(lease.LandlordID))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leases`).
		WithArgs(lease.PropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// The pre-check passed but a concurrent commit landed first; the partial
	// unique index rejects the insert.
	mock.ExpectQuery(`INSERT INTO leases`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_leases_active_property"})
	mock.ExpectRollback()

	_, err := repo.CreateLease(context.Background(), lease, nil, nil)
	require.ErrorIs(t, err, ErrActiveLeaseExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLeasePreCheckConflict(t *testing.T) {
	repo, mock := newLeaseMock(t)
	lease := sampleLease()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT landlord_id::text FROM properties`).
		WithArgs(lease.PropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"landlord_id"}).AddRow(lease.LandlordID))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leases`).
		WithArgs(lease.PropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.CreateLease(context.Background(), lease, nil, nil)
	require.ErrorIs(t, err, ErrActiveLeaseExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLeaseUnknownProperty(t *testing.T) {
	repo, mock := newLeaseMock(t)
	lease := sampleLease()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT landlord_id::text FROM properties`).
		WithArgs(lease.PropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"landlord_id"}))
	mock.ExpectRollback()

	_, err := repo.CreateLease(context.Background(), lease, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLeaseForeignProperty(t *testing.T) {
	repo, mock := newLeaseMock(t)
	lease := sampleLease()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT landlord_id::text FROM properties`).
		WithArgs(lease.PropertyID).
		WillReturnRows(sqlmock.NewRows([]string{"landlord_id"}).AddRow("33333333-3333-3333-3333-333333333333"))
	mock.ExpectRollback()

	_, err := repo.CreateLease(context.Background(), lease, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLeaseCommitsWholeBatch(t *testing.T) {
	repo, mock := newLeaseMock(t)
	lease := sampleLease()
	tenants := []domain.LeaseTenant{
		{TenantName: "Jordan Baker", IsPrimary: true},
		{TenantName: "Sam Reed"},
	}
	notif := &domain.Notification{
		UserID: lease.LandlordID,
		Type:   domain.NotificationTypeLeaseCreated,
		Title:  "Lease created",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT landlord_id::text FROM properties`).
		WillReturnRows(sqlmock.NewRows([]string{"landlord_id"}).AddRow(lease.LandlordID))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM leases`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO leases`).
		WillReturnRows(sqlmock.NewRows([]string{"lease_id"}).AddRow("44444444-4444-4444-4444-444444444444"))
	mock.ExpectExec(`INSERT INTO lease_tenants`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO lease_tenants`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE properties SET is_available = FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"notification_id"}).AddRow("55555555-5555-5555-5555-555555555555"))
	mock.ExpectCommit()

	id, err := repo.CreateLease(context.Background(), lease, tenants, notif)
	require.NoError(t, err)
	assert.Equal(t, "44444444-4444-4444-4444-444444444444", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTerminateLeaseNotActive(t *testing.T) {
	repo, mock := newLeaseMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE leases SET status = 'expired'`).
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}))
	mock.ExpectRollback()

	err := repo.TerminateLease(context.Background(), "lease-1", "landlord-1", nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireDueReopensProperties(t *testing.T) {
	repo, mock := newLeaseMock(t)
	asOf := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE leases SET status = 'expired'`).
		WithArgs(asOf).
		WillReturnRows(sqlmock.NewRows([]string{"property_id"}).
			AddRow("11111111-1111-1111-1111-111111111111").
			AddRow("66666666-6666-6666-6666-666666666666"))
	mock.ExpectExec(`UPDATE properties SET is_available = TRUE`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.ExpireDue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
