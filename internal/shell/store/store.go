package store

import (
	"context"

	"github.com/entremotivator/catalog/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for the product catalog.
//
// The store is the single source of truth: callers re-read the full table
// whenever they need a fresh view, and the store never caches snapshots on
// their behalf. Uniqueness checks are therefore only best-effort under
// concurrent edits (last writer wins); the store offers no transaction
// primitive for the slug engine to build on.
type Store interface {
	// LoadAll returns every product in table order.
	LoadAll(ctx context.Context) ([]domain.Product, error)

	// SaveAll replaces the whole table, preserving any columns the core
	// does not interpret. Guarding the prior state is the implementation's
	// job: the CSV store snapshots the file into its backup directory, the
	// SQLite store writes inside a transaction.
	SaveAll(ctx context.Context, products []domain.Product) error

	// GetProduct returns a single product by record ID.
	GetProduct(ctx context.Context, recordID string) (*domain.Product, error)

	// UpdateProductSlug sets the slug of one product and persists the
	// change. All other fields are left untouched.
	UpdateProductSlug(ctx context.Context, recordID, slug string) error

	// SearchProducts returns products whose Name or Description contains
	// the term, case-insensitively. An empty term returns everything.
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)

	// Summary returns catalog-wide field completion counts.
	Summary(ctx context.Context) (domain.Summary, error)

	// Lifecycle
	Close() error
}
