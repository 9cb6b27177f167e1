// Package api provides the HTTP surface of the catalog service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/entremotivator/catalog/internal/core/domain"
	"github.com/entremotivator/catalog/internal/shell/catalog"
	"github.com/entremotivator/catalog/internal/shell/store"
)

// DefaultListLimit caps product listings when the caller does not ask for
// a page size.
const DefaultListLimit = 50

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the catalog API.
type Handler struct {
	store          store.Store
	service        *catalog.Service
	links          domain.LinkBuilder
	commissionRate float64
	logger         *slog.Logger
	now            func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, svc *catalog.Service, links domain.LinkBuilder, commissionRate float64, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	return &Handler{
		store:          s,
		service:        svc,
		links:          links,
		commissionRate: commissionRate,
		logger:         l,
		now:            time.Now,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestIDHeader)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// OpenAPI specification
	r.Get("/openapi.json", h.handleOpenAPI)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Product routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.handleListProducts)
			r.Get("/summary", h.handleSummary)
			r.Get("/{id}", h.handleGetProduct)
			r.Put("/{id}/slug", h.handleUpdateSlug)
			r.Get("/{id}/links", h.handleProductLinks)
			r.Get("/{id}/integration", h.handleIntegration)
		})

		// Slug engine routes
		r.Route("/slugs", func(r chi.Router) {
			r.Post("/validate", h.handleValidateSlug)
			r.Post("/suggest", h.handleSuggestSlug)
			r.Post("/bulk", h.handleBulkUpdate)
			r.Post("/generate-missing", h.handleGenerateMissing)
			r.Get("/analysis", h.handleAnalysis)
		})

		// Export routes
		r.Route("/exports", func(r chi.Router) {
			r.Get("/affiliate-links.csv", h.handleExportAffiliateLinks)
			r.Get("/slicewp-config.json", h.handleExportSliceWPConfig)
			r.Get("/catalog.pdf", h.handleExportCatalogPDF)
			r.Get("/affiliate-report.pdf", h.handleExportAffiliateReport)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if _, err := h.store.Summary(r.Context()); err != nil {
		checks["store"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["store"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Product Handlers
// =============================================================================

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	products, err := h.store.SearchProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list products", "internal_error")
		return
	}

	total := len(products)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := products[offset:end]

	resp := ListProductsResponse{
		Products: make([]ProductResponse, 0, len(page)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for i := range page {
		resp.Products = append(resp.Products, h.productToResponse(&page[i]))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "product not found", "product_not_found")
			return
		}
		h.logger.Error("failed to get product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get product", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.productToResponse(product))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to summarize catalog", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to summarize catalog", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleUpdateSlug(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateSlugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	err := h.service.UpdateSlug(r.Context(), id, req.Slug)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrSlugTaken):
		h.writeError(w, http.StatusConflict, "slug is already in use by another product", "slug_taken")
		return
	case isNotFound(err):
		h.writeError(w, http.StatusNotFound, "product not found", "product_not_found")
		return
	case isValidationError(err):
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	default:
		h.logger.Error("failed to update slug", "record_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update slug", "internal_error")
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to reload product", "record_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to reload product", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.productToResponse(product))
}

func (h *Handler) handleProductLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	affiliateID := r.URL.Query().Get("affiliate_id")

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "product not found", "product_not_found")
			return
		}
		h.logger.Error("failed to get product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get product", "internal_error")
		return
	}

	if !product.HasSlug() {
		h.writeError(w, http.StatusConflict, "product has no slug", "no_slug")
		return
	}

	h.writeJSON(w, http.StatusOK, ProductLinksResponse{
		RecordID:             product.RecordID,
		Slug:                 product.Slug,
		DirectURL:            h.links.DirectURL(product.Slug),
		AffiliateURL:         h.links.AffiliateURL(product.Slug, affiliateID),
		AffiliateURLTemplate: h.links.AffiliateURLTemplate(product.Slug),
	})
}

func (h *Handler) handleIntegration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	affiliateID := r.URL.Query().Get("affiliate_id")

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "product not found", "product_not_found")
			return
		}
		h.logger.Error("failed to get product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get product", "internal_error")
		return
	}

	snippets, ok := h.links.Snippets(product.Slug, affiliateID)
	if !ok {
		h.writeError(w, http.StatusConflict, "product has no slug", "no_slug")
		return
	}

	h.writeJSON(w, http.StatusOK, IntegrationResponse{
		RecordID:    product.RecordID,
		Slug:        product.Slug,
		AffiliateID: affiliateID,
		Snippets:    snippets,
	})
}

// =============================================================================
// Slug Engine Handlers
// =============================================================================

func (h *Handler) handleValidateSlug(w http.ResponseWriter, r *http.Request) {
	var req ValidateSlugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	resp := ValidateSlugResponse{Slug: req.Slug}
	if err := h.service.Policy().Validate(req.Slug); err != nil {
		resp.Error = err.Error()
		h.writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Valid = true

	available, err := h.service.CheckAvailability(r.Context(), req.Slug, req.ExcludeRecordID)
	if err != nil {
		h.logger.Error("failed to check slug availability", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to check slug availability", "internal_error")
		return
	}
	resp.Available = available

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSuggestSlug(w http.ResponseWriter, r *http.Request) {
	var req SuggestSlugRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	suggested, err := h.service.Suggest(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to suggest slug", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to suggest slug", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, SuggestSlugResponse{
		Name:          req.Name,
		SuggestedSlug: suggested,
	})
}

func (h *Handler) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	opID, results := h.service.BulkUpdateSlugs(r.Context(), req.Updates)
	h.writeJSON(w, http.StatusOK, bulkResponse(opID, results))
}

func (h *Handler) handleGenerateMissing(w http.ResponseWriter, r *http.Request) {
	opID, results, err := h.service.GenerateMissingSlugs(r.Context())
	if err != nil {
		h.logger.Error("failed to generate missing slugs", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to generate missing slugs", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, bulkResponse(opID, results))
}

func (h *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Analysis(r.Context())
	if err != nil {
		h.logger.Error("failed to analyze slugs", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to analyze slugs", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, analysis)
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) productToResponse(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		RecordID:    p.RecordID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.ImageURLs(),
		Slug:        p.Slug,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if p.HasSlug() {
		resp.DirectURL = h.links.DirectURL(p.Slug)
	}
	return resp
}

func bulkResponse(opID string, results []catalog.SlugUpdateResult) BulkUpdateResponse {
	resp := BulkUpdateResponse{
		OperationID: opID,
		Total:       len(results),
		Results:     results,
	}
	if resp.Results == nil {
		resp.Results = []catalog.SlugUpdateResult{}
	}
	for _, res := range results {
		if res.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}

// isNotFound checks if an error is a not found error.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// isValidationError checks if an error came from slug validation.
func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrSlugEmpty) ||
		errors.Is(err, domain.ErrSlugTooShort) ||
		errors.Is(err, domain.ErrSlugTooLong) ||
		errors.Is(err, domain.ErrSlugInvalidChars) ||
		errors.Is(err, domain.ErrSlugHyphenEdge) ||
		errors.Is(err, domain.ErrSlugConsecutiveHyphens) ||
		errors.Is(err, domain.ErrSlugReserved)
}
