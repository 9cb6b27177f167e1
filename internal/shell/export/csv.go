// Package export renders catalog snapshots into downloadable formats:
// an affiliate-links CSV, a SliceWP plugin configuration, and PDF reports.
//
// All writers take an io.Writer so handlers can stream straight into an
// HTTP response, and a fixed timestamp so output is reproducible in tests.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/entremotivator/catalog/internal/core/domain"
)

// DirectAffiliateID labels rows exported without an affiliate attached.
const DirectAffiliateID = "Direct"

// affiliateLinksHeader is the column order of the affiliate-links CSV.
var affiliateLinksHeader = []string{"record_id", "Name", "URL Slug", "Affiliate_ID", "Affiliate_URL"}

// WriteAffiliateLinksCSV writes one row per product with its affiliate URL.
// When affiliateID is empty the Affiliate_ID column reads "Direct" and the
// URL column carries the plain product URL. Products without a slug get an
// empty URL cell rather than being dropped, so the export always covers the
// whole catalog.
func WriteAffiliateLinksCSV(w io.Writer, products []domain.Product, links domain.LinkBuilder, affiliateID string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(affiliateLinksHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	idLabel := affiliateID
	if idLabel == "" {
		idLabel = DirectAffiliateID
	}

	for _, p := range products {
		url := ""
		if p.HasSlug() {
			url = links.AffiliateURL(p.Slug, affiliateID)
		}
		row := []string{p.RecordID, p.Name, p.Slug, idLabel, url}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for product %s: %w", p.RecordID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
