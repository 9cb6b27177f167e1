package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/entremotivator/catalog/internal/shell/export"
)

// =============================================================================
// Export Handlers
// =============================================================================

// exportTimestampLayout names downloaded files, as in
// "affiliate_links_20240307_153000.csv".
const exportTimestampLayout = "20060102_150405"

func (h *Handler) handleExportAffiliateLinks(w http.ResponseWriter, r *http.Request) {
	affiliateID := r.URL.Query().Get("affiliate_id")

	products, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog for export", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load catalog", "internal_error")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteAffiliateLinksCSV(&buf, products, h.links, affiliateID); err != nil {
		h.logger.Error("failed to render affiliate links csv", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to render export", "internal_error")
		return
	}

	h.sendAttachment(w, &buf, "text/csv; charset=utf-8",
		fmt.Sprintf("affiliate_links_%s.csv", h.now().Format(exportTimestampLayout)))
}

func (h *Handler) handleExportSliceWPConfig(w http.ResponseWriter, r *http.Request) {
	rate := h.commissionRate
	if raw := r.URL.Query().Get("commission_rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			h.writeError(w, http.StatusBadRequest, "commission_rate must be a positive number", "validation_error")
			return
		}
		rate = parsed
	}

	products, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog for export", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load catalog", "internal_error")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSliceWPConfig(&buf, products, h.links, rate); err != nil {
		h.logger.Error("failed to render slicewp config", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to render export", "internal_error")
		return
	}

	h.sendAttachment(w, &buf, "application/json",
		fmt.Sprintf("slicewp_config_%s.json", h.now().Format(exportTimestampLayout)))
}

func (h *Handler) handleExportCatalogPDF(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog for export", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load catalog", "internal_error")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCatalogPDF(&buf, products, h.now()); err != nil {
		h.logger.Error("failed to render catalog pdf", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to render export", "internal_error")
		return
	}

	h.sendAttachment(w, &buf, "application/pdf",
		fmt.Sprintf("product_catalog_%s.pdf", h.now().Format(exportTimestampLayout)))
}

func (h *Handler) handleExportAffiliateReport(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.LoadAll(r.Context())
	if err != nil {
		h.logger.Error("failed to load catalog for export", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load catalog", "internal_error")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteAffiliateReportPDF(&buf, products, h.links, h.now()); err != nil {
		h.logger.Error("failed to render affiliate report pdf", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to render export", "internal_error")
		return
	}

	h.sendAttachment(w, &buf, "application/pdf",
		fmt.Sprintf("affiliate_links_report_%s.pdf", h.now().Format(exportTimestampLayout)))
}

// sendAttachment writes a fully rendered export as a file download. Renders
// go through a buffer first so a failure mid-render never leaks a partial
// body with a 200 status.
func (h *Handler) sendAttachment(w http.ResponseWriter, buf *bytes.Buffer, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write export body", "error", err)
	}
}
