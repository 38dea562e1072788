package domain

import (
	"database/sql"
	"time"
)

// Application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Application maps the applications table. One row per submission; a tenant
// may submit several applications for the same property.
type Application struct {
	ApplicationID string `db:"application_id"`
	PropertyID    string `db:"property_id"`
	TenantID      string `db:"tenant_id"`

	FullName string         `db:"full_name"`
	Email    string         `db:"email"`
	Phone    sql.NullString `db:"phone"`

	CurrentAddress sql.NullString `db:"current_address"`
	Employer       sql.NullString `db:"employer"`
	JobTitle       sql.NullString `db:"job_title"`
	AnnualIncome   sql.NullFloat64 `db:"annual_income"`

	ReferenceName  sql.NullString `db:"reference_name"`
	ReferencePhone sql.NullString `db:"reference_phone"`

	MoveInDate sql.NullTime   `db:"move_in_date"`
	Notes      sql.NullString `db:"notes"`

	Status      string    `db:"status"`
	SubmittedAt time.Time `db:"submitted_at"`
}
