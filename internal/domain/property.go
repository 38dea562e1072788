package domain

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Property maps the properties table.
type Property struct {
	PropertyID  string         `db:"property_id"`
	LandlordID  string         `db:"landlord_id"`
	Title       string         `db:"title"`
	Address     string         `db:"address"`
	City        string         `db:"city"`
	Province    string         `db:"province"`
	PostalCode  string         `db:"postal_code"`
	MonthlyRent float64        `db:"monthly_rent"`
	Bedrooms    int            `db:"bedrooms"`
	Bathrooms   float64        `db:"bathrooms"`
	SquareFeet  sql.NullInt64  `db:"square_feet"`
	Amenities   pq.StringArray `db:"amenities"`
	Description sql.NullString `db:"description"`
	// IsAvailable is false whenever an active lease references the property.
	// Maintained inside the lease create/terminate transactions, never as a
	// separate write.
	IsAvailable bool      `db:"is_available"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
