package repository

import "errors"

// Sentinel errors shared by the postgres and memory implementations. The
// service layer branches on these; the HTTP layer maps them to envelope codes.
var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is raised when sign-up hits the profiles email
	// unique constraint.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrActiveLeaseExists is raised when a lease insert hits the
	// uniq_leases_active_property partial unique index. Under concurrent
	// creation this constraint, not the pre-check, decides the loser.
	ErrActiveLeaseExists = errors.New("property already has an active lease")
)
