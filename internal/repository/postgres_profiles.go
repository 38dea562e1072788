package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
)

// PostgresProfilesRepository implements ProfilesRepository against the
// profiles table.
type PostgresProfilesRepository struct {
	db *sql.DB
}

func NewPostgresProfilesRepository(db *sql.DB) *PostgresProfilesRepository {
	return &PostgresProfilesRepository{db: db}
}

var _ ProfilesRepository = (*PostgresProfilesRepository)(nil)

const profileColumns = `
	profile_id::text,
	email,
	password_hash,
	first_name,
	last_name,
	phone,
	role,
	created_at
`

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ProfileID,
		&p.Email,
		&p.PasswordHash,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Role,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresProfilesRepository) CreateProfile(ctx context.Context, p *domain.Profile) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO profiles (email, password_hash, first_name, last_name, phone, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING profile_id::text`,
		p.Email, p.PasswordHash, p.FirstName, p.LastName, p.Phone, p.Role,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to create profile: %w", err)
	}
	return id, nil
}

func (r *PostgresProfilesRepository) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE profile_id = $1::uuid`, profileID)
	return scanProfile(row)
}

func (r *PostgresProfilesRepository) GetProfileByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email)
	return scanProfile(row)
}

func (r *PostgresProfilesRepository) UpdateEmail(ctx context.Context, profileID, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET email = $2 WHERE profile_id = $1::uuid`, profileID, email)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update email: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresProfilesRepository) UpdatePasswordHash(ctx context.Context, profileID string, hash []byte) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = $2 WHERE profile_id = $1::uuid`, profileID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
