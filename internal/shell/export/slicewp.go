package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/entremotivator/catalog/internal/core/domain"
)

// DefaultCommissionRate is the commission percentage applied when no rate
// is configured.
const DefaultCommissionRate = 10

// SliceWPProduct is one product entry in the SliceWP plugin configuration.
// AffiliateURLTemplate carries a literal "{affiliate_id}" placeholder that
// the plugin substitutes per affiliate.
type SliceWPProduct struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Slug                 string  `json:"slug"`
	DirectURL            string  `json:"direct_url"`
	AffiliateURLTemplate string  `json:"affiliate_url_template"`
	CommissionRate       float64 `json:"commission_rate"`
}

// SliceWPConfig is the importable configuration document for the SliceWP
// WordPress plugin.
type SliceWPConfig struct {
	Plugin         string           `json:"plugin"`
	BaseURL        string           `json:"base_url"`
	CommissionRate float64          `json:"commission_rate"`
	Products       []SliceWPProduct `json:"products"`
}

// BuildSliceWPConfig assembles the plugin configuration from a catalog
// snapshot. Only products with a slug are included; the plugin has nothing
// to link to otherwise.
func BuildSliceWPConfig(products []domain.Product, links domain.LinkBuilder, commissionRate float64) SliceWPConfig {
	if commissionRate <= 0 {
		commissionRate = DefaultCommissionRate
	}

	config := SliceWPConfig{
		Plugin:         "SliceWP",
		BaseURL:        links.BaseURL(),
		CommissionRate: commissionRate,
		Products:       []SliceWPProduct{},
	}

	for _, p := range products {
		if !p.HasSlug() {
			continue
		}
		config.Products = append(config.Products, SliceWPProduct{
			ID:                   p.RecordID,
			Name:                 p.DisplayName(),
			Slug:                 p.Slug,
			DirectURL:            links.DirectURL(p.Slug),
			AffiliateURLTemplate: links.AffiliateURLTemplate(p.Slug),
			CommissionRate:       commissionRate,
		})
	}

	return config
}

// WriteSliceWPConfig writes the plugin configuration as indented JSON.
func WriteSliceWPConfig(w io.Writer, products []domain.Product, links domain.LinkBuilder, commissionRate float64) error {
	config := BuildSliceWPConfig(products, links, commissionRate)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("encode slicewp config: %w", err)
	}
	return nil
}
