package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// NormalizeSlug Tests
// =============================================================================

func TestNormalizeSlug_Basic(t *testing.T) {
	assert.Equal(t, "hello-world", NormalizeSlug("Hello World"))
}

func TestNormalizeSlug_Apostrophes(t *testing.T) {
	assert.Equal(t, "mens-running-shoes", NormalizeSlug("  Men's Running Shoes!! "))
}

func TestNormalizeSlug_Empty(t *testing.T) {
	assert.Equal(t, "", NormalizeSlug(""))
}

func TestNormalizeSlug_OnlySpecialChars(t *testing.T) {
	assert.Equal(t, "", NormalizeSlug("!@#$%^&*()"))
}

func TestNormalizeSlug_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase kept", "already-canonical", "already-canonical"},
		{"uppercase folded", "UPPERCASE NAME", "uppercase-name"},
		{"whitespace run", "hello   world", "hello-world"},
		{"tabs and newlines", "hello\tbig\nworld", "hello-big-world"},
		{"hyphen run collapsed", "a -- b", "a-b"},
		{"leading trailing trimmed", " -edge case- ", "edge-case"},
		{"digits kept", "Product 2.0", "product-20"},
		{"unicode stripped", "café au lait", "caf-au-lait"},
		{"underscores stripped", "snake_case_name", "snakecasename"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSlug(tt.input))
		})
	}
}

func TestNormalizeSlug_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello World", "  Men's Running Shoes!! ", "a--b--c", "", "---", "Café 2.0",
	}
	for _, in := range inputs {
		once := NormalizeSlug(in)
		assert.Equal(t, once, NormalizeSlug(once), "input %q", in)
	}
}

func TestNormalizeSlug_ValidSlugsAreFixpoints(t *testing.T) {
	policy := DefaultPolicy()
	for _, slug := range []string{"shoes", "mens-running-shoes", "product-20", "a1b-2c3"} {
		require.NoError(t, policy.Validate(slug))
		assert.Equal(t, slug, NormalizeSlug(slug))
	}
}

// =============================================================================
// Policy.Validate Tests
// =============================================================================

func TestValidate_Valid(t *testing.T) {
	policy := DefaultPolicy()
	assert.NoError(t, policy.Validate("running-shoes"))
	assert.True(t, policy.IsValidSlug("running-shoes"))
}

func TestValidate_Empty(t *testing.T) {
	err := DefaultPolicy().Validate("")
	assert.ErrorIs(t, err, ErrSlugEmpty)
}

func TestValidate_TooShort(t *testing.T) {
	err := DefaultPolicy().Validate("ab")
	assert.ErrorIs(t, err, ErrSlugTooShort)
}

func TestValidate_TooLong(t *testing.T) {
	err := DefaultPolicy().Validate(strings.Repeat("a", 101))
	assert.ErrorIs(t, err, ErrSlugTooLong)
}

func TestValidate_MaxLengthBoundary(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate(strings.Repeat("a", 100)))
}

func TestValidate_InvalidChars(t *testing.T) {
	policy := DefaultPolicy()
	assert.ErrorIs(t, policy.Validate("My-Slug"), ErrSlugInvalidChars)
	assert.ErrorIs(t, policy.Validate("my slug"), ErrSlugInvalidChars)
	assert.ErrorIs(t, policy.Validate("my_slug"), ErrSlugInvalidChars)
}

func TestValidate_HyphenEdges(t *testing.T) {
	policy := DefaultPolicy()
	assert.ErrorIs(t, policy.Validate("-abc"), ErrSlugHyphenEdge)
	assert.ErrorIs(t, policy.Validate("abc-"), ErrSlugHyphenEdge)
}

func TestValidate_ConsecutiveHyphens(t *testing.T) {
	err := DefaultPolicy().Validate("my--slug")
	assert.ErrorIs(t, err, ErrSlugConsecutiveHyphens)
}

func TestValidate_ReservedWords(t *testing.T) {
	policy := DefaultPolicy()
	for _, word := range DefaultReservedWords() {
		assert.ErrorIs(t, policy.Validate(word), ErrSlugReserved, "word %q", word)
	}
}

func TestValidate_ReservedIsExactMatch(t *testing.T) {
	// Only the exact token is reserved, not prefixes or containments.
	policy := DefaultPolicy()
	assert.NoError(t, policy.Validate("admin-tools"))
	assert.NoError(t, policy.Validate("my-api"))
}

func TestValidate_CustomReserved(t *testing.T) {
	policy := DefaultPolicy().WithReserved([]string{"checkout", "cart"})
	assert.ErrorIs(t, policy.Validate("checkout"), ErrSlugReserved)
	// Default set no longer applies once replaced.
	assert.NoError(t, policy.Validate("admin"))
}

func TestValidate_FirstFailureWins(t *testing.T) {
	// "-a" is both too short and hyphen-edged; length is checked first.
	err := DefaultPolicy().Validate("-a")
	assert.ErrorIs(t, err, ErrSlugTooShort)
}
