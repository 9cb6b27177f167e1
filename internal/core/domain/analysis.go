package domain

import (
	"strings"
	"time"
)

// =============================================================================
// Slug Analysis
// =============================================================================

// SlugSuggestion is one recommended fix surfaced by AnalyzeSlugs.
type SlugSuggestion struct {
	RecordID      string `json:"record_id"`
	ProductName   string `json:"product_name"`
	CurrentSlug   string `json:"current_slug,omitempty"`
	SuggestedSlug string `json:"suggested_slug"`
	Reason        string `json:"reason"`
}

// SlugAnalysis summarizes slug health across a catalog snapshot.
type SlugAnalysis struct {
	TotalProducts        int `json:"total_products"`
	ProductsWithSlugs    int `json:"products_with_slugs"`
	ProductsWithoutSlugs int `json:"products_without_slugs"`

	// DuplicateSlugs counts products carrying a slug shared with at least
	// one other product. A slug assigned to k products contributes k.
	DuplicateSlugs int `json:"duplicate_slugs"`

	InvalidSlugs int `json:"invalid_slugs"`

	// CompletionRate is the percentage of products that have a slug.
	CompletionRate float64 `json:"completion_rate"`

	Suggestions []SlugSuggestion `json:"suggestions"`
}

// AnalyzeSlugs walks a catalog snapshot and reports missing, invalid, and
// duplicated slugs, with a suggested replacement for every missing or
// invalid one.
//
// Suggestions are checked against the snapshot as it stands: two products
// with the same name will receive the same suggestion, and the bulk
// reconciler's per-item availability check sorts the collision out when the
// suggestions are applied.
func AnalyzeSlugs(products []Product, policy Policy, now time.Time) SlugAnalysis {
	analysis := SlugAnalysis{
		TotalProducts: len(products),
		Suggestions:   []SlugSuggestion{},
	}

	idx := NewSlugIndex(products, "")
	counts := make(map[string]int, len(products))
	for _, p := range products {
		if p.HasSlug() {
			counts[p.Slug]++
		}
	}

	for _, p := range products {
		if !p.HasSlug() {
			analysis.ProductsWithoutSlugs++
			if suggested := policy.Suggest(p.Name, idx.Taken, now); suggested != "" {
				analysis.Suggestions = append(analysis.Suggestions, SlugSuggestion{
					RecordID:      p.RecordID,
					ProductName:   p.DisplayName(),
					SuggestedSlug: suggested,
					Reason:        "Missing slug",
				})
			}
			continue
		}

		analysis.ProductsWithSlugs++
		if counts[p.Slug] > 1 {
			analysis.DuplicateSlugs++
		}
		if err := policy.Validate(p.Slug); err != nil {
			analysis.InvalidSlugs++
			if suggested := policy.Suggest(p.Name, idx.Taken, now); suggested != "" {
				analysis.Suggestions = append(analysis.Suggestions, SlugSuggestion{
					RecordID:      p.RecordID,
					ProductName:   p.DisplayName(),
					CurrentSlug:   p.Slug,
					SuggestedSlug: suggested,
					Reason:        "Invalid slug: " + err.Error(),
				})
			}
		}
	}

	if analysis.TotalProducts > 0 {
		analysis.CompletionRate = float64(analysis.ProductsWithSlugs) / float64(analysis.TotalProducts) * 100
	}
	return analysis
}

// =============================================================================
// Catalog Summary
// =============================================================================

// Summary holds catalog-wide field completion counts.
type Summary struct {
	TotalProducts            int `json:"total_products"`
	ProductsWithNames        int `json:"products_with_names"`
	ProductsWithDescriptions int `json:"products_with_descriptions"`
	ProductsWithImages       int `json:"products_with_images"`
	ProductsWithSlugs        int `json:"products_with_slugs"`
}

// Summarize computes field completion counts for a catalog snapshot.
func Summarize(products []Product) Summary {
	s := Summary{TotalProducts: len(products)}
	for _, p := range products {
		if p.Name != "" {
			s.ProductsWithNames++
		}
		if p.Description != "" {
			s.ProductsWithDescriptions++
		}
		if p.Images != "" {
			s.ProductsWithImages++
		}
		if p.Slug != "" {
			s.ProductsWithSlugs++
		}
	}
	return s
}

// MatchesSearch reports whether the product matches a case-insensitive
// substring search over Name and Description. An empty term matches
// everything.
func (p Product) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}
