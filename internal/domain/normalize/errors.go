package normalize

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrInvalidRow     = errors.New("invalid row")
	ErrInvalidPolicy  = errors.New("missing-value policy not set")
)

// RowError describes a raw row that was skipped. Line is 1-based over data rows.
type RowError struct {
	Dataset string
	Line    int
	Reason  string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s line %d: %s", e.Dataset, e.Line, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidRow) match.
func (e *RowError) Unwrap() error { return ErrInvalidRow }
