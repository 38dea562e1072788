package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

type PostgresApplicationsRepository struct {
	db *sql.DB
}

func NewPostgresApplicationsRepository(db *sql.DB) *PostgresApplicationsRepository {
	return &PostgresApplicationsRepository{db: db}
}

var _ ApplicationsRepository = (*PostgresApplicationsRepository)(nil)

const applicationColumns = `
	application_id::text,
	property_id::text,
	tenant_id::text,
	full_name,
	email,
	phone,
	current_address,
	employer,
	job_title,
	annual_income,
	reference_name,
	reference_phone,
	move_in_date,
	notes,
	status,
	submitted_at
`

func scanApplication(s interface {
	Scan(dest ...any) error
}) (*domain.Application, error) {
	var a domain.Application
	err := s.Scan(
		&a.ApplicationID,
		&a.PropertyID,
		&a.TenantID,
		&a.FullName,
		&a.Email,
		&a.Phone,
		&a.CurrentAddress,
		&a.Employer,
		&a.JobTitle,
		&a.AnnualIncome,
		&a.ReferenceName,
		&a.ReferencePhone,
		&a.MoveInDate,
		&a.Notes,
		&a.Status,
		&a.SubmittedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	return &a, nil
}

func (r *PostgresApplicationsRepository) CreateApplication(ctx context.Context, a *domain.Application) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO applications
		 (property_id, tenant_id, full_name, email, phone, current_address,
		  employer, job_title, annual_income, reference_name, reference_phone,
		  move_in_date, notes, status)
		 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 'pending')
		 RETURNING application_id::text`,
		a.PropertyID, a.TenantID, a.FullName, a.Email, a.Phone, a.CurrentAddress,
		a.Employer, a.JobTitle, a.AnnualIncome, a.ReferenceName, a.ReferencePhone,
		a.MoveInDate, a.Notes,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create application: %w", err)
	}
	return id, nil
}

func (r *PostgresApplicationsRepository) GetApplication(ctx context.Context, applicationID string) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE application_id = $1::uuid`, applicationID)
	return scanApplication(row)
}

func (r *PostgresApplicationsRepository) ListByProperty(ctx context.Context, propertyID string) ([]*domain.Application, error) {
	return r.listApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE property_id = $1::uuid ORDER BY submitted_at DESC`, propertyID)
}

func (r *PostgresApplicationsRepository) ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Application, error) {
	return r.listApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications a
		 WHERE EXISTS (
			SELECT 1 FROM properties p
			WHERE p.property_id = a.property_id AND p.landlord_id = $1::uuid
		 )
		 ORDER BY submitted_at DESC`, landlordID)
}

func (r *PostgresApplicationsRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Application, error) {
	return r.listApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE tenant_id = $1::uuid ORDER BY submitted_at DESC`, tenantID)
}

func (r *PostgresApplicationsRepository) listApplications(ctx context.Context, query string, args ...any) ([]*domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var items []*domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *PostgresApplicationsRepository) DecideApplication(ctx context.Context, applicationID, status string, notif *domain.Notification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Only a pending application can be decided, and only once.
	res, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = $2
		 WHERE application_id = $1::uuid AND status = 'pending'`,
		applicationID, status)
	if err != nil {
		return fmt.Errorf("failed to decide application: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if notif != nil {
		if err := insertNotificationTx(ctx, tx, notif); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit application decision: %w", err)
	}
	return nil
}
