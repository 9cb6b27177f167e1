package domain

import (
	"fmt"
	"time"
)

// =============================================================================
// Slug Suggestion
// =============================================================================

// Suggest produces a slug for a product name that is guaranteed available
// against the taken predicate, or "" when the name normalizes to something
// too short to use.
//
// The candidate order is a deliberate tie-break, preferring the shortest and
// most readable option:
//
//  1. The normalized name itself.
//  2. Numbered variants base-2, base-3, ... up to base-MaxSuffix.
//  3. base-MMDD from now, as a best-effort fallback that is NOT guaranteed
//     unique when every numbered variant is taken.
//
// Suggest is pure: availability comes in as a predicate and the clock as an
// argument, so callers decide how fresh the snapshot behind taken is.
func (p Policy) Suggest(name string, taken func(slug string) bool, now time.Time) string {
	base := NormalizeSlug(name)
	if len(base) < p.MinLength {
		return ""
	}
	if !taken(base) {
		return base
	}
	for i := 2; i <= p.MaxSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
	return base + "-" + now.Format("0102")
}
