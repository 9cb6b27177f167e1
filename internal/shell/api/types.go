package api

import (
	"github.com/entremotivator/catalog/internal/core/domain"
	"github.com/entremotivator/catalog/internal/shell/catalog"
)

// =============================================================================
// Request Types
// =============================================================================

// ValidateSlugRequest is the request body for validating a slug.
type ValidateSlugRequest struct {
	Slug            string `json:"slug"`
	ExcludeRecordID string `json:"exclude_record_id,omitempty"`
}

// SuggestSlugRequest is the request body for suggesting a slug.
type SuggestSlugRequest struct {
	Name string `json:"name"`
}

// BulkUpdateRequest is the request body for a bulk slug update.
type BulkUpdateRequest struct {
	Updates []catalog.SlugUpdate `json:"updates"`
}

// UpdateSlugRequest is the request body for setting one product's slug.
type UpdateSlugRequest struct {
	Slug string `json:"slug"`
}

// =============================================================================
// Response Types
// =============================================================================

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ProductResponse is the response shape for product operations.
type ProductResponse struct {
	RecordID    string   `json:"record_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Slug        string   `json:"slug"`
	DirectURL   string   `json:"direct_url,omitempty"`
}

// ListProductsResponse is the response for listing products.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ValidateSlugResponse reports the outcome of a slug validation.
type ValidateSlugResponse struct {
	Slug      string `json:"slug"`
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	Available bool   `json:"available"`
}

// SuggestSlugResponse carries a suggested slug for a product name.
type SuggestSlugResponse struct {
	Name          string `json:"name"`
	SuggestedSlug string `json:"suggested_slug"`
}

// BulkUpdateResponse reports per-item outcomes of a bulk slug update.
type BulkUpdateResponse struct {
	OperationID string                     `json:"operation_id"`
	Total       int                        `json:"total"`
	Succeeded   int                        `json:"succeeded"`
	Failed      int                        `json:"failed"`
	Results     []catalog.SlugUpdateResult `json:"results"`
}

// ProductLinksResponse carries the URLs for one product.
type ProductLinksResponse struct {
	RecordID             string `json:"record_id"`
	Slug                 string `json:"slug"`
	DirectURL            string `json:"direct_url"`
	AffiliateURL         string `json:"affiliate_url"`
	AffiliateURLTemplate string `json:"affiliate_url_template"`
}

// IntegrationResponse carries ready-to-paste integration snippets.
type IntegrationResponse struct {
	RecordID    string                     `json:"record_id"`
	Slug        string                     `json:"slug"`
	AffiliateID string                     `json:"affiliate_id,omitempty"`
	Snippets    domain.IntegrationSnippets `json:"snippets"`
}
