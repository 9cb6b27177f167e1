package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// SlugIndex Tests
// =============================================================================

func TestSlugIndex_Taken(t *testing.T) {
	products := []Product{
		{RecordID: "1", Slug: "shoes"},
		{RecordID: "2", Slug: "boots"},
		{RecordID: "3"}, // no slug
	}

	idx := NewSlugIndex(products, "")
	assert.True(t, idx.Taken("shoes"))
	assert.True(t, idx.Taken("boots"))
	assert.False(t, idx.Taken("sandals"))
	assert.Equal(t, 2, idx.Len())
}

func TestSlugIndex_CaseInsensitive(t *testing.T) {
	idx := NewSlugIndex([]Product{{RecordID: "1", Slug: "Shoes"}}, "")
	assert.True(t, idx.Taken("shoes"))
	assert.True(t, idx.Taken("SHOES"))
}

func TestSlugIndex_SelfExclusion(t *testing.T) {
	products := []Product{{RecordID: "1", Slug: "shoes"}}

	// A product may keep its own current slug.
	idx := NewSlugIndex(products, "1")
	assert.True(t, idx.Available("shoes"))

	// But another product may not claim it.
	idx = NewSlugIndex(products, "2")
	assert.False(t, idx.Available("shoes"))
}

func TestSlugIndex_EmptySlugsIgnored(t *testing.T) {
	idx := NewSlugIndex([]Product{{RecordID: "1"}, {RecordID: "2"}}, "")
	assert.Equal(t, 0, idx.Len())
	assert.True(t, idx.Available(""))
}
