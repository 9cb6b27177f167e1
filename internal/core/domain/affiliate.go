package domain

import (
	"fmt"
	"strings"
)

// =============================================================================
// Affiliate Link Building
// =============================================================================

// LinkBuilder builds the product and affiliate URLs for a site. The two URL
// shapes are wire-format contracts with the SliceWP plugin and must be
// reproduced verbatim:
//
//	{base_url}/{slug}/
//	{base_url}/slicewp_affiliate/{affiliate_id}/{slug}/
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder creates a LinkBuilder for the given site base URL. Any
// trailing slash is stripped so the generated URLs never double up.
func NewLinkBuilder(baseURL string) LinkBuilder {
	return LinkBuilder{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the site base URL without a trailing slash.
func (b LinkBuilder) BaseURL() string {
	return b.baseURL
}

// DirectURL returns the public product URL for a slug, or "" when the slug
// normalizes to nothing.
func (b LinkBuilder) DirectURL(slug string) string {
	clean := NormalizeSlug(slug)
	if clean == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/", b.baseURL, clean)
}

// AffiliateURL returns the SliceWP tracking URL for a slug and affiliate ID.
// When affiliateID is empty it falls back to the direct URL. Returns "" when
// the slug normalizes to nothing.
func (b LinkBuilder) AffiliateURL(slug, affiliateID string) string {
	clean := NormalizeSlug(slug)
	if clean == "" {
		return ""
	}
	if affiliateID == "" {
		return fmt.Sprintf("%s/%s/", b.baseURL, clean)
	}
	return fmt.Sprintf("%s/slicewp_affiliate/%s/%s/", b.baseURL, affiliateID, clean)
}

// AffiliateURLTemplate returns the affiliate URL with a literal
// {affiliate_id} placeholder, as consumed by the SliceWP config export.
func (b LinkBuilder) AffiliateURLTemplate(slug string) string {
	return fmt.Sprintf("%s/slicewp_affiliate/{affiliate_id}/%s/", b.baseURL, slug)
}

// =============================================================================
// Integration Snippets
// =============================================================================

// IntegrationSnippets holds ready-to-paste SliceWP integration code for one
// product link in the formats operators actually embed.
type IntegrationSnippets struct {
	HTMLLink           string `json:"html_link"`
	WordPressShortcode string `json:"wordpress_shortcode"`
	DirectURL          string `json:"direct_url"`
	JavaScript         string `json:"javascript"`
	PHP                string `json:"php"`
}

// Snippets builds integration snippets for a slug and affiliate ID. Returns
// the zero value and false when no URL can be built from the slug.
func (b LinkBuilder) Snippets(slug, affiliateID string) (IntegrationSnippets, bool) {
	url := b.AffiliateURL(slug, affiliateID)
	if url == "" {
		return IntegrationSnippets{}, false
	}
	return IntegrationSnippets{
		HTMLLink:           fmt.Sprintf(`<a href="%s" target="_blank">View Product</a>`, url),
		WordPressShortcode: fmt.Sprintf(`[slicewp_affiliate_link id="%s" url="%s"]View Product[/slicewp_affiliate_link]`, affiliateID, slug),
		DirectURL:          url,
		JavaScript: fmt.Sprintf(`// JavaScript redirect
window.location.href = "%s";

// Or for a new window
window.open("%s", "_blank");
`, url, url),
		PHP: fmt.Sprintf(`<?php
// PHP redirect
header("Location: %s");
exit();
?>
`, url),
	}, true
}
