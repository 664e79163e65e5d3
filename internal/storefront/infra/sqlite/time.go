package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// parseStamp reads a created_at/updated_at column written by formatTime.
func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse stamp %q: %w", s, err)
	}
	return t, nil
}

// parseNullTime handles payment_expires_at, which is NULL until a payment
// is attached.
func parseNullTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return parseStamp(s.String)
}
