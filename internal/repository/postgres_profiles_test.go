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

func newProfilesMock(t *testing.T) (*PostgresProfilesRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresProfilesRepository(db), mock
}

func TestCreateProfileDuplicateEmail(t *testing.T) {
	repo, mock := newProfilesMock(t)

	mock.ExpectQuery(`INSERT INTO profiles`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "profiles_email_key"})

	_, err := repo.CreateProfile(context.Background(), &domain.Profile{
		Email: "alex@example.com", Role: domain.RoleLandlord,
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileByEmailNotFound(t *testing.T) {
	repo, mock := newProfilesMock(t)

	mock.ExpectQuery(`SELECT`).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"profile_id", "email", "password_hash", "first_name", "last_name", "phone", "role", "created_at",
		}))

	_, err := repo.GetProfileByEmail(context.Background(), "missing@example.com")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileByEmail(t *testing.T) {
	repo, mock := newProfilesMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT`).
		WithArgs("alex@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"profile_id", "email", "password_hash", "first_name", "last_name", "phone", "role", "created_at",
		}).AddRow("p1", "alex@example.com", []byte("hash"), "Alex", "Landlord", nil, "landlord", now))

	p, err := repo.GetProfileByEmail(context.Background(), "alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ProfileID)
	assert.Equal(t, "Alex Landlord", p.DisplayName())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmailNoRow(t *testing.T) {
	repo, mock := newProfilesMock(t)

	mock.ExpectExec(`UPDATE profiles SET email`).
		WithArgs("p1", "new@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEmail(context.Background(), "p1", "new@example.com")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
