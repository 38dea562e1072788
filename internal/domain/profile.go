package domain

import (
	"database/sql"
	"time"
)

// Roles a profile can carry. The role is fixed at sign-up; there is no
// role-change operation anywhere in the API.
const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

// Profile maps the profiles table. profile_id doubles as the auth identity.
type Profile struct {
	ProfileID    string         `db:"profile_id"`
	Email        string         `db:"email"`
	PasswordHash []byte         `db:"password_hash"` // bcrypt
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Phone        sql.NullString `db:"phone"`
	Role         string         `db:"role"`
	CreatedAt    time.Time      `db:"created_at"`
}

// DisplayName is what the messaging thread shows for a sender.
func (p *Profile) DisplayName() string {
	if p.FirstName == "" && p.LastName == "" {
		return p.Email
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
