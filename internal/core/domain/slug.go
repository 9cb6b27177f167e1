package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// Slug Errors
// =============================================================================

var (
	// ErrSlugEmpty is returned when a slug is empty.
	ErrSlugEmpty = errors.New("slug cannot be empty")

	// ErrSlugTooShort is returned when a slug is shorter than the policy minimum.
	ErrSlugTooShort = errors.New("slug is too short")

	// ErrSlugTooLong is returned when a slug exceeds the policy maximum.
	ErrSlugTooLong = errors.New("slug is too long")

	// ErrSlugInvalidChars is returned when a slug contains characters outside
	// lowercase letters, digits, and hyphens.
	ErrSlugInvalidChars = errors.New("slug can only contain lowercase letters, numbers, and hyphens")

	// ErrSlugHyphenEdge is returned when a slug starts or ends with a hyphen.
	ErrSlugHyphenEdge = errors.New("slug cannot start or end with a hyphen")

	// ErrSlugConsecutiveHyphens is returned when a slug contains "--".
	ErrSlugConsecutiveHyphens = errors.New("slug cannot contain consecutive hyphens")

	// ErrSlugReserved is returned when a slug collides with a reserved word.
	ErrSlugReserved = errors.New("slug is a reserved word")
)

// =============================================================================
// Slug Normalization
// =============================================================================

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
	slugRe       = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// NormalizeSlug converts arbitrary text to a canonical slug token.
//
// The transformation rules are:
//   - Lowercase everything
//   - Collapse runs of whitespace to a single hyphen
//   - Strip any character outside [a-z0-9-]
//   - Collapse runs of hyphens to one
//   - Trim leading and trailing hyphens
//
// The result is always drawn from the valid character set but may be empty
// or shorter than the policy minimum; length rules belong to validation.
// This is a pure function with no failure mode.
//
// Example:
//
//	NormalizeSlug("  Men's Running Shoes!! ")  // returns "mens-running-shoes"
//	NormalizeSlug("Hello World")               // returns "hello-world"
func NormalizeSlug(text string) string {
	slug := strings.ToLower(strings.TrimSpace(text))
	slug = whitespaceRe.ReplaceAllString(slug, "-")
	slug = invalidRe.ReplaceAllString(slug, "")
	slug = hyphenRunRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// =============================================================================
// Slug Policy
// =============================================================================

// DefaultReservedWords are slug values that collide with site routes or the
// SliceWP plugin and must never be assigned to a product.
func DefaultReservedWords() []string {
	return []string{
		"admin", "api", "www", "mail", "ftp", "localhost", "root",
		"slicewp", "affiliate", "wp-admin", "wp-content", "wp-includes",
	}
}

const (
	// DefaultMinSlugLength is the default minimum slug length.
	DefaultMinSlugLength = 3

	// DefaultMaxSlugLength is the default maximum slug length.
	DefaultMaxSlugLength = 100

	// DefaultMaxSuffix is the default ceiling for numbered suggestion
	// variants (base-2 .. base-99).
	DefaultMaxSuffix = 99
)

// Policy holds the configurable slug rules. The reserved word list and the
// suffix ceiling are policy, not mechanism, so they are carried here instead
// of being hard-coded at call sites.
type Policy struct {
	// MinLength is the minimum accepted slug length.
	MinLength int

	// MaxLength is the maximum accepted slug length.
	MaxLength int

	// MaxSuffix is the highest numbered variant the suggester will try
	// before falling back to a date suffix.
	MaxSuffix int

	// Reserved is the set of slugs that are never accepted. Keys must be
	// lowercase canonical tokens.
	Reserved map[string]bool
}

// DefaultPolicy returns the policy with the standard limits and reserved set.
func DefaultPolicy() Policy {
	return Policy{
		MinLength: DefaultMinSlugLength,
		MaxLength: DefaultMaxSlugLength,
		MaxSuffix: DefaultMaxSuffix,
		Reserved:  reservedSet(DefaultReservedWords()),
	}
}

// WithReserved returns a copy of the policy with the reserved set replaced.
func (p Policy) WithReserved(words []string) Policy {
	p.Reserved = reservedSet(words)
	return p
}

func reservedSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Validate checks a slug against the policy. Checks run in a fixed order and
// the first failure wins. A nil return means the slug is acceptable as far as
// format rules go; uniqueness is a separate concern handled by SlugIndex.
func (p Policy) Validate(slug string) error {
	if slug == "" {
		return ErrSlugEmpty
	}
	if len(slug) < p.MinLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrSlugTooShort, p.MinLength)
	}
	if len(slug) > p.MaxLength {
		return fmt.Errorf("%w: cannot be longer than %d characters", ErrSlugTooLong, p.MaxLength)
	}
	if !slugRe.MatchString(slug) {
		return ErrSlugInvalidChars
	}
	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return ErrSlugHyphenEdge
	}
	if strings.Contains(slug, "--") {
		return ErrSlugConsecutiveHyphens
	}
	if p.Reserved[slug] {
		return fmt.Errorf("%w: %q", ErrSlugReserved, slug)
	}
	return nil
}

// IsValidSlug reports whether the slug passes the policy without describing
// which rule failed.
func (p Policy) IsValidSlug(slug string) bool {
	return p.Validate(slug) == nil
}
