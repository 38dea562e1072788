package domain

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Lease statuses. At most one active lease may reference a property; the
// partial unique index uniq_leases_active_property is the authority.
const (
	LeaseStatusDraft   = "draft"
	LeaseStatusActive  = "active"
	LeaseStatusExpired = "expired"
)

// Lease maps the leases table.
type Lease struct {
	LeaseID    string         `db:"lease_id"`
	PropertyID string         `db:"property_id"`
	LandlordID string         `db:"landlord_id"`
	TenantID   sql.NullString `db:"tenant_id"` // account of the primary tenant, when they have one

	// TenantName is the comma-joined list of tenant names as entered on the
	// form; the per-tenant rows live in lease_tenants.
	TenantName string `db:"tenant_name"`

	MonthlyRent     float64 `db:"monthly_rent"`
	SecurityDeposit float64 `db:"security_deposit"`
	PetDeposit      float64 `db:"pet_deposit"`

	LeaseStartDate time.Time `db:"lease_start_date"`
	LeaseEndDate   time.Time `db:"lease_end_date"`
	Status         string    `db:"status"`

	UtilitiesIncluded pq.StringArray `db:"utilities_included"`
	SpecialTerms      sql.NullString `db:"special_terms"`
	HasPets           bool           `db:"has_pets"`

	// ReminderSettings is an opaque JSONB bundle of notification-timing
	// preferences (renewal/rent reminder offsets, channel toggles).
	ReminderSettings json.RawMessage `db:"reminder_settings"`

	// MessageSeq is the per-lease message counter; advanced inside the
	// message insert transaction.
	MessageSeq int64 `db:"message_seq"`

	CreatedAt time.Time `db:"created_at"`
}

// LeaseTenant maps the lease_tenants table (one row per tenant on the lease).
type LeaseTenant struct {
	LeaseTenantID string         `db:"lease_tenant_id"`
	LeaseID       string         `db:"lease_id"`
	TenantName    string         `db:"tenant_name"`
	TenantEmail   sql.NullString `db:"tenant_email"`
	TenantPhone   sql.NullString `db:"tenant_phone"`
	IsPrimary     bool           `db:"is_primary"`
}
