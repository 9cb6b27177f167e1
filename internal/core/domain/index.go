package domain

import "strings"

// =============================================================================
// Slug Index
// =============================================================================

// SlugIndex is the set of slugs currently assigned in a catalog snapshot.
//
// An index is always derived fresh from the latest store snapshot and never
// cached across calls: the store is the single source of truth and other
// sessions may have written between calls. The O(n) scan per check is a
// deliberate simplicity/staleness tradeoff.
type SlugIndex struct {
	taken map[string]bool
}

// NewSlugIndex builds an index from a product snapshot, excluding the product
// whose RecordID equals excludeID. Pass an empty excludeID to index every
// product. Comparison is case-insensitive.
//
// The exclusion exists so a product being edited is allowed to keep its own
// current slug.
func NewSlugIndex(products []Product, excludeID string) SlugIndex {
	taken := make(map[string]bool, len(products))
	for _, p := range products {
		if excludeID != "" && p.RecordID == excludeID {
			continue
		}
		if p.Slug != "" {
			taken[strings.ToLower(p.Slug)] = true
		}
	}
	return SlugIndex{taken: taken}
}

// Taken reports whether the candidate slug is already assigned.
func (idx SlugIndex) Taken(slug string) bool {
	return idx.taken[strings.ToLower(slug)]
}

// Available reports whether the candidate slug is free to assign.
func (idx SlugIndex) Available(slug string) bool {
	return !idx.Taken(slug)
}

// Len returns the number of distinct assigned slugs in the snapshot.
func (idx SlugIndex) Len() int {
	return len(idx.taken)
}
