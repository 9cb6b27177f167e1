// Package domain contains the core domain types and slug rules.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import "strings"

// =============================================================================
// Product
// =============================================================================

// Product represents one row of the catalog table.
//
// Products are owned by the external store: this core never creates or
// deletes them, it only reads them and proposes updates to Slug. RecordID
// is immutable and is the only identity a product has.
type Product struct {
	// RecordID uniquely identifies the product across its lifetime.
	RecordID string `json:"record_id"`

	// Name is the display name shown in the catalog.
	Name string `json:"name"`

	// Description is free text, possibly containing HTML markup.
	Description string `json:"description"`

	// Images holds a comma-separated list of image URLs.
	Images string `json:"images"`

	// Slug is the URL slug, empty when not yet assigned.
	Slug string `json:"url_slug"`

	// Extra carries columns the core does not interpret. The store must
	// round-trip these untouched.
	Extra map[string]string `json:"-"`
}

// HasSlug reports whether the product has a slug assigned.
func (p Product) HasSlug() bool {
	return p.Slug != ""
}

// DisplayName returns the product name, or a placeholder derived from the
// record ID when the name is empty.
func (p Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "Product " + p.RecordID
}

// ImageURLs splits the comma-separated Images field into individual URLs,
// dropping empty entries.
func (p Product) ImageURLs() []string {
	if p.Images == "" {
		return nil
	}
	parts := strings.Split(p.Images, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if u := strings.TrimSpace(part); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
