package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
)

// RentRollHeader is the export column layout.
var RentRollHeader = []string{
	"Property",
	"Address",
	"Tenants",
	"Monthly Rent",
	"Security Deposit",
	"Pet Deposit",
	"Start Date",
	"End Date",
	"Status",
}

// RentRollExporter builds the landlord's lease book as an .xlsx workbook.
type RentRollExporter interface {
	Export(ctx context.Context, landlordID string) ([]byte, error)
}

type rentRollExporter struct {
	leases     repository.LeasesRepository
	properties repository.PropertiesRepository
	logger     *zap.Logger
}

func NewRentRollExporter(leases repository.LeasesRepository, properties repository.PropertiesRepository, logger *zap.Logger) RentRollExporter {
	return &rentRollExporter{leases: leases, properties: properties, logger: logger}
}

func (e *rentRollExporter) Export(ctx context.Context, landlordID string) ([]byte, error) {
	leases, err := e.leases.ListByLandlord(ctx, landlordID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Rent Roll"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, h := range RentRollHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, lease := range leases {
		title := ""
		address := ""
		if p, err := e.properties.GetProperty(ctx, lease.PropertyID); err == nil {
			title = p.Title
			address = fmt.Sprintf("%s, %s", p.Address, p.City)
		} else {
			e.logger.Warn("rent roll: property lookup failed",
				zap.String("property_id", lease.PropertyID), zap.Error(err))
		}

		values := []any{
			title,
			address,
			lease.TenantName,
			lease.MonthlyRent,
			lease.SecurityDeposit,
			lease.PetDeposit,
			lease.LeaseStartDate.Format("2006-01-02"),
			lease.LeaseEndDate.Format("2006-01-02"),
			lease.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
