package postgres

import "time"

type scannable interface {
	Scan(dest ...any) error
}

// nullTime maps the zero time to NULL for insertion.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// timeOrZero maps NULL back to the zero time after scanning.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
