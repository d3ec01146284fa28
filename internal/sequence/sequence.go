package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Well-known sequence names seeded at install time.
const (
	PatientIdentifier = "patient_identifier"
	OrderReference    = "order_reference"
)

var (
	// ErrNotConfigured is returned when the named sequence does not exist.
	ErrNotConfigured = errors.New("sequence not configured")
	// ErrExhausted is returned when the next value no longer fits the
	// configured zero-padding width.
	ErrExhausted = errors.New("sequence exhausted")
)

// Store hands out values from persistent named counters. Each draw is a
// single atomic UPDATE, so concurrent callers always receive distinct values
// without any client-side locking.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// NextIdentifier draws the next value from the named sequence and returns it
// formatted as prefix + zero-padded number (e.g. "P000001").
func (s *Store) NextIdentifier(ctx context.Context, name string) (string, error) {
	query := `
		UPDATE sequences
		SET next_value = next_value + 1
		WHERE name = $1
		RETURNING prefix, padding, next_value - 1
	`

	var prefix string
	var padding int
	var value int64

	err := s.db.QueryRowContext(ctx, query, name).Scan(&prefix, &padding, &value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to increment sequence %s: %w", name, err)
	}

	return Format(prefix, padding, value)
}

// Ensure seeds a sequence if it does not exist yet. Existing sequences are
// left untouched.
func (s *Store) Ensure(ctx context.Context, name, prefix string, padding int, start int64) error {
	query := `
		INSERT INTO sequences (name, prefix, padding, next_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, name, prefix, padding, start); err != nil {
		return fmt.Errorf("failed to seed sequence %s: %w", name, err)
	}
	return nil
}

// Format renders a counter value as prefix + zero-padded digits.
// Values that need more digits than the padding allows are an exhaustion
// error rather than a silently wider identifier.
func Format(prefix string, padding int, value int64) (string, error) {
	if value < 1 {
		return "", fmt.Errorf("%w: invalid value %d", ErrNotConfigured, value)
	}
	digits := strconv.FormatInt(value, 10)
	if padding > 0 && len(digits) > padding {
		return "", fmt.Errorf("%w: value %d exceeds width %d", ErrExhausted, value, padding)
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, value), nil
}
