package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// PostgresPropertiesRepository implements PropertiesRepository against the
// properties table.
type PostgresPropertiesRepository struct {
	db *sql.DB
}

func NewPostgresPropertiesRepository(db *sql.DB) *PostgresPropertiesRepository {
	return &PostgresPropertiesRepository{db: db}
}

var _ PropertiesRepository = (*PostgresPropertiesRepository)(nil)

const propertyColumns = `
	property_id::text,
	landlord_id::text,
	title,
	address,
	city,
	province,
	postal_code,
	monthly_rent,
	bedrooms,
	bathrooms,
	square_feet,
	amenities,
	description,
	is_available,
	created_at,
	updated_at
`

func scanProperty(s interface {
	Scan(dest ...any) error
}) (*domain.Property, error) {
	var p domain.Property
	err := s.Scan(
		&p.PropertyID,
		&p.LandlordID,
		&p.Title,
		&p.Address,
		&p.City,
		&p.Province,
		&p.PostalCode,
		&p.MonthlyRent,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.SquareFeet,
		&p.Amenities,
		&p.Description,
		&p.IsAvailable,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}
	return &p, nil
}

func (r *PostgresPropertiesRepository) CreateProperty(ctx context.Context, p *domain.Property) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO properties
		 (landlord_id, title, address, city, province, postal_code,
		  monthly_rent, bedrooms, bathrooms, square_feet, amenities, description)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING property_id::text`,
		p.LandlordID, p.Title, p.Address, p.City, p.Province, p.PostalCode,
		p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		pq.Array([]string(p.Amenities)), p.Description,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create property: %w", err)
	}
	return id, nil
}

func (r *PostgresPropertiesRepository) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE property_id = $1::uuid`, propertyID)
	return scanProperty(row)
}

func (r *PostgresPropertiesRepository) ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Property, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties
		 WHERE landlord_id = $1::uuid
		 ORDER BY created_at DESC`, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var items []*domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PostgresPropertiesRepository) ListAvailable(ctx context.Context, filters PropertyFilters, page, size int) ([]*domain.Property, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	where := ` WHERE is_available`
	args := []any{}
	if filters.City != "" {
		args = append(args, filters.City)
		where += fmt.Sprintf(` AND lower(city) = lower($%d)`, len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM properties`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	args = append(args, size, offset)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties`+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list available properties: %w", err)
	}
	defer rows.Close()

	var items []*domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *PostgresPropertiesRepository) UpdateProperty(ctx context.Context, landlordID string, p *domain.Property) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE properties SET
			title = $3,
			address = $4,
			city = $5,
			province = $6,
			postal_code = $7,
			monthly_rent = $8,
			bedrooms = $9,
			bathrooms = $10,
			square_feet = $11,
			amenities = $12,
			description = $13,
			updated_at = now()
		 WHERE property_id = $1::uuid AND landlord_id = $2::uuid`,
		p.PropertyID, landlordID,
		p.Title, p.Address, p.City, p.Province, p.PostalCode,
		p.MonthlyRent, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		pq.Array([]string(p.Amenities)), p.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
