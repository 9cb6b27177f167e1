package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entremotivator/catalog/internal/core/domain"
	"github.com/entremotivator/catalog/internal/shell/catalog"
	"github.com/entremotivator/catalog/internal/shell/store"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testProducts() []domain.Product {
	return []domain.Product{
		{
			RecordID:    "1",
			Name:        "Running Shoes",
			Description: "<p>Fast &amp; light</p>",
			Images:      "https://cdn.example.com/shoes.jpg",
			Slug:        "running-shoes",
		},
		{RecordID: "2", Name: "Winter Boots", Slug: "winter-boots"},
		{RecordID: "3", Name: "Sandals"},
	}
}

func setupRouter(t *testing.T, products []domain.Product) http.Handler {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewCSVStore(store.CSVConfig{
		Path:      filepath.Join(dir, "products.csv"),
		BackupDir: filepath.Join(dir, "backups"),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveAll(context.Background(), products))
	t.Cleanup(func() { s.Close() })

	svc := catalog.NewService(s, domain.DefaultPolicy(), nil)
	links := domain.NewLinkBuilder("https://entremotivator.com")
	h := NewHandler(s, svc, links, 10, nil)
	return h.Routes()
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// =============================================================================
// Health Tests
// =============================================================================

func TestHealthEndpoints(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeJSON[HealthResponse](t, rec).Status)

	rec = doRequest(t, router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	ready := decodeJSON[ReadyResponse](t, rec)
	assert.Equal(t, "ready", ready.Status)
	assert.Equal(t, "ok", ready.Checks["store"])
}

// =============================================================================
// Product Tests
// =============================================================================

func TestListProducts(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[ListProductsResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "running-shoes", resp.Products[0].Slug)
	assert.Equal(t, "https://entremotivator.com/running-shoes/", resp.Products[0].DirectURL)
}

func TestListProducts_Search(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?search=boots", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[ListProductsResponse](t, rec)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "2", resp.Products[0].RecordID)
}

func TestListProducts_Pagination(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?limit=1&offset=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[ListProductsResponse](t, rec)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "2", resp.Products[0].RecordID)
}

func TestGetProduct(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Running Shoes", decodeJSON[ProductResponse](t, rec).Name)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product_not_found", decodeJSON[ErrorResponse](t, rec).Code)
}

func TestGetSummary(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decodeJSON[domain.Summary](t, rec)
	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 2, summary.ProductsWithSlugs)
}

func TestUpdateSlug(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodPut, "/api/v1/products/3/slug", UpdateSlugRequest{Slug: "summer-sandals"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "summer-sandals", decodeJSON[ProductResponse](t, rec).Slug)
}

func TestUpdateSlug_Errors(t *testing.T) {
	router := setupRouter(t, testProducts())

	tests := []struct {
		name     string
		id       string
		slug     string
		wantCode int
		wantErr  string
	}{
		{"invalid slug", "3", "Bad Slug!", http.StatusBadRequest, "validation_error"},
		{"taken slug", "3", "running-shoes", http.StatusConflict, "slug_taken"},
		{"unknown product", "nope", "valid-slug", http.StatusNotFound, "product_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPut, "/api/v1/products/"+tt.id+"/slug", UpdateSlugRequest{Slug: tt.slug})
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decodeJSON[ErrorResponse](t, rec).Code)
		})
	}
}

func TestProductLinks(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/1/links?affiliate_id=AFF42", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[ProductLinksResponse](t, rec)
	assert.Equal(t, "https://entremotivator.com/running-shoes/", resp.DirectURL)
	assert.Equal(t, "https://entremotivator.com/slicewp_affiliate/AFF42/running-shoes/", resp.AffiliateURL)
	assert.Contains(t, resp.AffiliateURLTemplate, "{affiliate_id}")
}

func TestProductLinks_NoSlug(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/3/links", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_slug", decodeJSON[ErrorResponse](t, rec).Code)
}

func TestIntegrationSnippets(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/1/integration?affiliate_id=AFF42", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[IntegrationResponse](t, rec)
	assert.Equal(t, "AFF42", resp.AffiliateID)
	assert.Contains(t, resp.Snippets.HTMLLink, "slicewp_affiliate/AFF42/running-shoes")
	assert.Contains(t, resp.Snippets.WordPressShortcode, `[slicewp_affiliate_link`)
}

// =============================================================================
// Slug Engine Tests
// =============================================================================

func TestValidateSlug(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/slugs/validate", ValidateSlugRequest{Slug: "new-slug"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[ValidateSlugResponse](t, rec)
	assert.True(t, resp.Valid)
	assert.True(t, resp.Available)

	// Taken slug is valid but unavailable.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/slugs/validate", ValidateSlugRequest{Slug: "running-shoes"})
	resp = decodeJSON[ValidateSlugResponse](t, rec)
	assert.True(t, resp.Valid)
	assert.False(t, resp.Available)

	// Self-exclusion.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/slugs/validate",
		ValidateSlugRequest{Slug: "running-shoes", ExcludeRecordID: "1"})
	resp = decodeJSON[ValidateSlugResponse](t, rec)
	assert.True(t, resp.Available)

	// Malformed slug reports the rule it broke.
	rec = doRequest(t, router, http.MethodPost, "/api/v1/slugs/validate", ValidateSlugRequest{Slug: "-bad"})
	resp = decodeJSON[ValidateSlugResponse](t, rec)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Error)
}

func TestSuggestSlug(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/slugs/suggest", SuggestSlugRequest{Name: "Running Shoes!"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running-shoes-2", decodeJSON[SuggestSlugResponse](t, rec).SuggestedSlug)
}

func TestBulkUpdate(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/slugs/bulk", BulkUpdateRequest{
		Updates: []catalog.SlugUpdate{
			{RecordID: "3", NewSlug: "summer-sandals"},
			{RecordID: "2", NewSlug: ""},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[BulkUpdateResponse](t, rec)
	assert.NotEmpty(t, resp.OperationID)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.Equal(t, catalog.CodeMissingField, resp.Results[1].ErrorCode)
}

func TestGenerateMissing(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/slugs/generate-missing", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[BulkUpdateResponse](t, rec)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, "sandals", resp.Results[0].NewSlug)
}

func TestSlugAnalysis(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/slugs/analysis", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	analysis := decodeJSON[domain.SlugAnalysis](t, rec)
	assert.Equal(t, 3, analysis.TotalProducts)
	assert.Equal(t, 1, analysis.ProductsWithoutSlugs)
	require.Len(t, analysis.Suggestions, 1)
	assert.Equal(t, "sandals", analysis.Suggestions[0].SuggestedSlug)
}

// =============================================================================
// Export Tests
// =============================================================================

func TestExportAffiliateLinksCSV(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/exports/affiliate-links.csv?affiliate_id=AFF42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "affiliate_links_")

	body := rec.Body.String()
	assert.Contains(t, body, "record_id,Name,URL Slug,Affiliate_ID,Affiliate_URL")
	assert.Contains(t, body, "slicewp_affiliate/AFF42/running-shoes")
}

func TestExportSliceWPConfig(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/exports/slicewp-config.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var config map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Equal(t, "SliceWP", config["plugin"])
	assert.Len(t, config["products"], 2)
}

func TestExportSliceWPConfigCommissionRate(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/exports/slicewp-config.json?commission_rate=17.5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var config map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Equal(t, 17.5, config["commission_rate"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/exports/slicewp-config.json?commission_rate=nope", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeJSON[ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", errResp.Code)
}

func TestExportPDFs(t *testing.T) {
	router := setupRouter(t, testProducts())

	for _, path := range []string{
		"/api/v1/exports/catalog.pdf",
		"/api/v1/exports/affiliate-report.pdf",
	} {
		rec := doRequest(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"), path)
		assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"), path)
	}
}

// =============================================================================
// OpenAPI Tests
// =============================================================================

func TestOpenAPISpec(t *testing.T) {
	router := setupRouter(t, testProducts())

	rec := doRequest(t, router, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	assert.Equal(t, "3.0.3", spec["openapi"])

	paths, ok := spec["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/api/v1/products")
	assert.Contains(t, paths, "/api/v1/slugs/bulk")
	assert.Contains(t, paths, "/api/v1/exports/catalog.pdf")
}
