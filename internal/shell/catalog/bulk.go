package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/entremotivator/catalog/internal/core/domain"
)

// =============================================================================
// Bulk Slug Updates
// =============================================================================

// UpdateErrorCode classifies why one bulk item failed.
type UpdateErrorCode string

const (
	// CodeMissingField means the item lacked a record ID or a slug.
	CodeMissingField UpdateErrorCode = "missing_field"

	// CodeInvalidSlug means the slug failed format validation.
	CodeInvalidSlug UpdateErrorCode = "invalid_slug"

	// CodeSlugTaken means another product already holds the slug.
	CodeSlugTaken UpdateErrorCode = "slug_taken"

	// CodePersistence means the store rejected the read or write.
	CodePersistence UpdateErrorCode = "persistence_error"
)

// SlugUpdate is one proposed slug change in a bulk request.
type SlugUpdate struct {
	RecordID string `json:"record_id"`
	NewSlug  string `json:"new_slug"`
}

// SlugUpdateResult is the outcome for one bulk item. Results are immutable
// once computed and come back in input order, one per item.
type SlugUpdateResult struct {
	RecordID  string          `json:"record_id"`
	NewSlug   string          `json:"new_slug,omitempty"`
	Success   bool            `json:"success"`
	ErrorCode UpdateErrorCode `json:"error_code,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// BulkUpdateSlugs applies a batch of proposed slug changes, one item at a
// time. Items are fully independent: a failure is recorded in that item's
// result and the batch moves on, with nothing rolled back. Each item runs
// the same pipeline as a single edit - field presence, format validation,
// availability against the live table excluding the item's own record, then
// the store write.
//
// The returned operation ID ties the batch's log lines together.
func (s *Service) BulkUpdateSlugs(ctx context.Context, updates []SlugUpdate) (string, []SlugUpdateResult) {
	opID := "op_" + uuid.New().String()[:8]
	s.logger.Info("bulk slug update started", "operation_id", opID, "items", len(updates))

	results := make([]SlugUpdateResult, 0, len(updates))
	succeeded := 0
	for _, update := range updates {
		result := s.applyOne(ctx, update)
		if result.Success {
			succeeded++
		}
		results = append(results, result)
	}

	s.logger.Info("bulk slug update finished",
		"operation_id", opID,
		"items", len(updates),
		"succeeded", succeeded,
		"failed", len(updates)-succeeded,
	)
	return opID, results
}

// applyOne runs the slug pipeline for a single bulk item.
func (s *Service) applyOne(ctx context.Context, update SlugUpdate) SlugUpdateResult {
	result := SlugUpdateResult{
		RecordID: update.RecordID,
		NewSlug:  update.NewSlug,
	}

	if update.RecordID == "" || update.NewSlug == "" {
		result.ErrorCode = CodeMissingField
		result.Error = "missing record_id or new_slug"
		return result
	}

	if err := s.policy.Validate(update.NewSlug); err != nil {
		result.ErrorCode = CodeInvalidSlug
		result.Error = "invalid slug: " + err.Error()
		return result
	}

	available, err := s.CheckAvailability(ctx, update.NewSlug, update.RecordID)
	if err != nil {
		result.ErrorCode = CodePersistence
		result.Error = err.Error()
		return result
	}
	if !available {
		result.ErrorCode = CodeSlugTaken
		result.Error = "slug already exists"
		return result
	}

	if err := s.store.UpdateProductSlug(ctx, update.RecordID, update.NewSlug); err != nil {
		result.ErrorCode = CodePersistence
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

// GenerateMissingSlugs suggests and applies a slug for every product that
// has none. Suggestions are computed from one snapshot and then applied
// through the bulk pipeline, whose per-item availability check resolves any
// collisions between identically named products.
func (s *Service) GenerateMissingSlugs(ctx context.Context) (string, []SlugUpdateResult, error) {
	products, err := s.store.LoadAll(ctx)
	if err != nil {
		return "", nil, err
	}

	idx := domain.NewSlugIndex(products, "")
	now := s.now()

	var updates []SlugUpdate
	for _, p := range products {
		if p.HasSlug() {
			continue
		}
		if suggested := s.policy.Suggest(p.Name, idx.Taken, now); suggested != "" {
			updates = append(updates, SlugUpdate{RecordID: p.RecordID, NewSlug: suggested})
		}
	}

	opID, results := s.BulkUpdateSlugs(ctx, updates)
	return opID, results, nil
}
