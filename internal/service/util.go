package service

import (
	"database/sql"
	"errors"
	"time"
)

// ErrForbidden means the caller is authenticated but not a party to the
// resource (wrong landlord, not on the lease, and so on).
var ErrForbidden = errors.New("forbidden")

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n > 0}
}

func nullFloat(f float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: valid}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
