package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// PostgresLeasesRepository implements LeasesRepository against the leases,
// lease_tenants, properties and notifications tables.
type PostgresLeasesRepository struct {
	db *sql.DB
}

func NewPostgresLeasesRepository(db *sql.DB) *PostgresLeasesRepository {
	return &PostgresLeasesRepository{db: db}
}

var _ LeasesRepository = (*PostgresLeasesRepository)(nil)

const leaseColumns = `
	lease_id::text,
	property_id::text,
	landlord_id::text,
	tenant_id::text,
	tenant_name,
	monthly_rent,
	security_deposit,
	pet_deposit,
	lease_start_date,
	lease_end_date,
	status,
	utilities_included,
	special_terms,
	has_pets,
	reminder_settings,
	message_seq,
	created_at
`

func scanLease(s interface {
	Scan(dest ...any) error
}) (*domain.Lease, error) {
	var l domain.Lease
	err := s.Scan(
		&l.LeaseID,
		&l.PropertyID,
		&l.LandlordID,
		&l.TenantID,
		&l.TenantName,
		&l.MonthlyRent,
		&l.SecurityDeposit,
		&l.PetDeposit,
		&l.LeaseStartDate,
		&l.LeaseEndDate,
		&l.Status,
		&l.UtilitiesIncluded,
		&l.SpecialTerms,
		&l.HasPets,
		&l.ReminderSettings,
		&l.MessageSeq,
		&l.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan lease: %w", err)
	}
	return &l, nil
}

func isActiveLeaseConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == "uniq_leases_active_property"
	}
	return false
}

func (r *PostgresLeasesRepository) CreateLease(ctx context.Context, lease *domain.Lease, tenants []domain.LeaseTenant, notif *domain.Notification) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the property row so the availability flip cannot interleave with
	// a concurrent create/terminate on the same property.
	var ownerID string
	err = tx.QueryRowContext(ctx,
		`SELECT landlord_id::text FROM properties WHERE property_id = $1::uuid FOR UPDATE`,
		lease.PropertyID,
	).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to lock property: %w", err)
	}
	if ownerID != lease.LandlordID {
		return "", ErrNotFound
	}

	// Friendly pre-check. The unique index below remains the authority.
	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leases WHERE property_id = $1::uuid AND status = 'active'`,
		lease.PropertyID,
	).Scan(&existing)
	if err != nil {
		return "", fmt.Errorf("failed to check active lease: %w", err)
	}
	if existing > 0 {
		return "", ErrActiveLeaseExists
	}

	var leaseID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO leases
		 (property_id, landlord_id, tenant_id, tenant_name,
		  monthly_rent, security_deposit, pet_deposit,
		  lease_start_date, lease_end_date, status,
		  utilities_included, special_terms, has_pets, reminder_settings)
		 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		         COALESCE($14::jsonb, '{}'::jsonb))
		 RETURNING lease_id::text`,
		lease.PropertyID, lease.LandlordID, lease.TenantID, lease.TenantName,
		lease.MonthlyRent, lease.SecurityDeposit, lease.PetDeposit,
		lease.LeaseStartDate, lease.LeaseEndDate, lease.Status,
		pq.Array([]string(lease.UtilitiesIncluded)), lease.SpecialTerms,
		lease.HasPets, nullableJSON(lease.ReminderSettings),
	).Scan(&leaseID)
	if err != nil {
		if isActiveLeaseConflict(err) {
			return "", ErrActiveLeaseExists
		}
		return "", fmt.Errorf("failed to insert lease: %w", err)
	}

	for _, t := range tenants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lease_tenants (lease_id, tenant_name, tenant_email, tenant_phone, is_primary)
			 VALUES ($1::uuid, $2, $3, $4, $5)`,
			leaseID, t.TenantName, t.TenantEmail, t.TenantPhone, t.IsPrimary,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert lease tenant: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE properties SET is_available = FALSE, updated_at = now()
		 WHERE property_id = $1::uuid`,
		lease.PropertyID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to update property availability: %w", err)
	}

	if notif != nil {
		if err := insertNotificationTx(ctx, tx, notif); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		if isActiveLeaseConflict(err) {
			return "", ErrActiveLeaseExists
		}
		return "", fmt.Errorf("failed to commit lease creation: %w", err)
	}
	return leaseID, nil
}

func (r *PostgresLeasesRepository) GetLease(ctx context.Context, leaseID string) (*domain.Lease, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leaseColumns+` FROM leases WHERE lease_id = $1::uuid`, leaseID)
	return scanLease(row)
}

func (r *PostgresLeasesRepository) GetActiveByProperty(ctx context.Context, propertyID string) (*domain.Lease, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leaseColumns+` FROM leases
		 WHERE property_id = $1::uuid AND status = 'active'`, propertyID)
	return scanLease(row)
}

func (r *PostgresLeasesRepository) ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Lease, error) {
	return r.listLeases(ctx,
		`SELECT `+leaseColumns+` FROM leases
		 WHERE landlord_id = $1::uuid ORDER BY created_at DESC`, landlordID)
}

func (r *PostgresLeasesRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Lease, error) {
	return r.listLeases(ctx,
		`SELECT `+leaseColumns+` FROM leases
		 WHERE tenant_id = $1::uuid ORDER BY created_at DESC`, tenantID)
}

func (r *PostgresLeasesRepository) listLeases(ctx context.Context, query string, args ...any) ([]*domain.Lease, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	var items []*domain.Lease
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (r *PostgresLeasesRepository) ListLeaseTenants(ctx context.Context, leaseID string) ([]*domain.LeaseTenant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT lease_tenant_id::text, lease_id::text, tenant_name, tenant_email, tenant_phone, is_primary
		 FROM lease_tenants WHERE lease_id = $1::uuid
		 ORDER BY is_primary DESC, tenant_name ASC`, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lease tenants: %w", err)
	}
	defer rows.Close()

	var items []*domain.LeaseTenant
	for rows.Next() {
		var t domain.LeaseTenant
		if err := rows.Scan(&t.LeaseTenantID, &t.LeaseID, &t.TenantName, &t.TenantEmail, &t.TenantPhone, &t.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan lease tenant: %w", err)
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}

func (r *PostgresLeasesRepository) TerminateLease(ctx context.Context, leaseID, landlordID string, notif *domain.Notification) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var propertyID string
	err = tx.QueryRowContext(ctx,
		`UPDATE leases SET status = 'expired'
		 WHERE lease_id = $1::uuid AND landlord_id = $2::uuid AND status = 'active'
		 RETURNING property_id::text`,
		leaseID, landlordID,
	).Scan(&propertyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to terminate lease: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE properties SET is_available = TRUE, updated_at = now()
		 WHERE property_id = $1::uuid`, propertyID)
	if err != nil {
		return fmt.Errorf("failed to re-open property: %w", err)
	}

	if notif != nil {
		if err := insertNotificationTx(ctx, tx, notif); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lease termination: %w", err)
	}
	return nil
}

func (r *PostgresLeasesRepository) ExpireDue(ctx context.Context, asOf time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`UPDATE leases SET status = 'expired'
		 WHERE status = 'active' AND lease_end_date < $1
		 RETURNING property_id::text`, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to expire leases: %w", err)
	}
	var propertyIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan expired lease: %w", err)
		}
		propertyIDs = append(propertyIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if len(propertyIDs) > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE properties SET is_available = TRUE, updated_at = now()
			 WHERE property_id = ANY($1::uuid[])`, pq.Array(propertyIDs))
		if err != nil {
			return 0, fmt.Errorf("failed to re-open expired properties: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit expiry sweep: %w", err)
	}
	return len(propertyIDs), nil
}

// nullableJSON maps empty reminder settings to SQL NULL so the column
// default applies.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
