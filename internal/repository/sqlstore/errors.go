package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prn-tf/recipebook/internal/repository/postgres"
	"github.com/prn-tf/recipebook/internal/repository/sqlite"
)

// isUniqueViolation checks if an error is a unique constraint violation.
func (s *Store) isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if s.dialect == DialectPostgres {
		return postgres.IsUniqueViolation(err)
	}
	return sqlite.IsUniqueViolation(err)
}

// isNoRows checks if an error indicates no rows were found.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// timeLayouts are the textual timestamp forms SQLite may return.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timeScanner scans a timestamp that may arrive as time.Time or as text.
// A NULL leaves valid false.
type timeScanner struct {
	t     time.Time
	valid bool
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.valid = false
		return nil
	case time.Time:
		ts.t, ts.valid = v.UTC(), true
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts *timeScanner) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.t, ts.valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// ptr returns the scanned time, or nil for NULL.
func (ts *timeScanner) ptr() *time.Time {
	if !ts.valid {
		return nil
	}
	t := ts.t
	return &t
}

// nullTime converts an optional timestamp into a query argument.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// nullInt64 converts an optional integer into a query argument.
func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
