package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

func TestRentRollExport(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	ctx := context.Background()

	firstProperty := f.addProperty(t, landlord)
	secondProperty := f.addProperty(t, landlord)

	_, err := f.svc.CreateLease(ctx, validLeaseRequest(landlord, firstProperty))
	require.NoError(t, err)

	second := validLeaseRequest(landlord, secondProperty)
	second.Tenants = []LeaseTenantInput{{Name: "Sam Reed"}}
	second.MonthlyRent = 2100
	_, err = f.svc.CreateLease(ctx, second)
	require.NoError(t, err)

	exporter := NewRentRollExporter(f.leases, f.properties, zap.NewNop())
	data, err := exporter.Export(ctx, landlord)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Rent Roll")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two leases
	assert.Equal(t, RentRollHeader, rows[0][:len(RentRollHeader)])

	names := []string{rows[1][2], rows[2][2]}
	assert.Contains(t, names, "Jordan Baker")
	assert.Contains(t, names, "Sam Reed")
}

func TestRentRollExportEmpty(t *testing.T) {
	properties := repository.NewMemoryPropertiesRepository()
	leases := repository.NewMemoryLeasesRepository(properties, repository.NewMemoryNotificationsRepository())
	exporter := NewRentRollExporter(leases, properties, zap.NewNop())

	data, err := exporter.Export(context.Background(), "landlord-1")
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Rent Roll")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestRentRollExportStatusColumn(t *testing.T) {
	f := newLeaseFixture(t)
	landlord := "landlord-1"
	propertyID := f.addProperty(t, landlord)

	req := validLeaseRequest(landlord, propertyID)
	req.StartDate = time.Now().AddDate(0, -6, 0)
	req.EndDate = time.Now().AddDate(0, 6, 0)
	_, err := f.svc.CreateLease(context.Background(), req)
	require.NoError(t, err)

	exporter := NewRentRollExporter(f.leases, f.properties, zap.NewNop())
	data, err := exporter.Export(context.Background(), landlord)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Rent Roll")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "active", rows[1][8])
}
