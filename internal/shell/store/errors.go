// Package store provides persistence for the product catalog.
package store

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a product is not found.
	ErrNotFound = errors.New("product not found")

	// ErrLoadFailed is returned when the catalog table cannot be read.
	ErrLoadFailed = errors.New("failed to load catalog")

	// ErrSaveFailed is returned when the catalog table cannot be written.
	ErrSaveFailed = errors.New("failed to save catalog")

	// ErrMissingColumns is returned when the table is missing the record_id
	// column that gives rows their identity.
	ErrMissingColumns = errors.New("catalog table is missing required columns")

	// ErrConnectionFailed is returned when a database-backed store cannot
	// connect.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when database migration fails.
	ErrMigrationFailed = errors.New("database migration failed")
)

// StoreError wraps errors with additional context.
type StoreError struct {
	Op      string // Operation that failed (e.g., "UpdateProductSlug")
	ID      string // Record ID if applicable
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.ID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, id, message string, err error) *StoreError {
	return &StoreError{
		Op:      op,
		ID:      id,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
