// Package catalog wires the slug rules to the product store. It owns the
// read-check-write cycle for slug edits: every availability check re-reads
// the full table so the decision is made against the latest persisted state.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/entremotivator/catalog/internal/core/domain"
	"github.com/entremotivator/catalog/internal/shell/store"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrSlugTaken is returned when a slug is already assigned to another
	// product.
	ErrSlugTaken = errors.New("slug is already in use by another product")
)

// =============================================================================
// Service
// =============================================================================

// Service coordinates slug operations against the store.
type Service struct {
	store  store.Store
	policy domain.Policy
	logger *slog.Logger

	// now is the clock used for date-suffix fallbacks, injectable in tests.
	now func() time.Time
}

// NewService creates a catalog service.
func NewService(s store.Store, policy domain.Policy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Policy returns the slug policy the service validates against.
func (s *Service) Policy() domain.Policy {
	return s.policy
}

// CheckAvailability reports whether slug is free, ignoring the product with
// excludeID so an edit may keep its current value. The full table is
// re-read on every call; the result is only as fresh as the store at that
// instant.
func (s *Service) CheckAvailability(ctx context.Context, slug, excludeID string) (bool, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	return domain.NewSlugIndex(products, excludeID).Available(slug), nil
}

// Suggest produces an available slug from a product name, or "" when the
// name is too short to slug.
func (s *Service) Suggest(ctx context.Context, name string) (string, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	idx := domain.NewSlugIndex(products, "")
	return s.policy.Suggest(name, idx.Taken, s.now()), nil
}

// UpdateSlug validates, checks availability, and persists a single slug
// change. Validation failures surface as the policy's sentinel errors and
// collisions as ErrSlugTaken, both recoverable by the caller.
func (s *Service) UpdateSlug(ctx context.Context, recordID, slug string) error {
	if err := s.policy.Validate(slug); err != nil {
		return err
	}

	available, err := s.CheckAvailability(ctx, slug, recordID)
	if err != nil {
		return err
	}
	if !available {
		return fmt.Errorf("%w: %q", ErrSlugTaken, slug)
	}

	if err := s.store.UpdateProductSlug(ctx, recordID, slug); err != nil {
		return err
	}

	s.logger.Info("slug updated", "record_id", recordID, "slug", slug)
	return nil
}

// Analysis reports slug health over the current catalog.
func (s *Service) Analysis(ctx context.Context) (domain.SlugAnalysis, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.SlugAnalysis{}, err
	}
	return domain.AnalyzeSlugs(products, s.policy, s.now()), nil
}
