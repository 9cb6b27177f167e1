package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entremotivator/catalog/internal/core/domain"
)

func sampleProducts() []domain.Product {
	return []domain.Product{
		{
			RecordID:    "1",
			Name:        "Running Shoes",
			Description: "<p>Fast &amp; light</p>",
			Images:      "https://cdn.example.com/shoes-front.jpg, https://cdn.example.com/shoes-side.jpg",
			Slug:        "running-shoes",
		},
		{RecordID: "2", Name: "Winter Boots", Slug: "winter-boots"},
		{RecordID: "3", Name: "Sandals"},
	}
}

// =============================================================================
// Affiliate Links CSV Tests
// =============================================================================

func TestWriteAffiliateLinksCSV(t *testing.T) {
	var buf bytes.Buffer
	links := domain.NewLinkBuilder("https://entremotivator.com")

	err := WriteAffiliateLinksCSV(&buf, sampleProducts(), links, "AFF42")
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"record_id", "Name", "URL Slug", "Affiliate_ID", "Affiliate_URL"}, records[0])
	assert.Equal(t, []string{
		"1", "Running Shoes", "running-shoes", "AFF42",
		"https://entremotivator.com/slicewp_affiliate/AFF42/running-shoes/",
	}, records[1])

	// A product without a slug keeps its row but has no URL.
	assert.Equal(t, []string{"3", "Sandals", "", "AFF42", ""}, records[3])
}

func TestWriteAffiliateLinksCSV_Direct(t *testing.T) {
	var buf bytes.Buffer
	links := domain.NewLinkBuilder("https://entremotivator.com")

	err := WriteAffiliateLinksCSV(&buf, sampleProducts(), links, "")
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "Direct", records[1][3])
	assert.Equal(t, "https://entremotivator.com/running-shoes/", records[1][4])
}

// =============================================================================
// SliceWP Config Tests
// =============================================================================

func TestBuildSliceWPConfig(t *testing.T) {
	links := domain.NewLinkBuilder("https://entremotivator.com")

	config := BuildSliceWPConfig(sampleProducts(), links, 15)

	assert.Equal(t, "SliceWP", config.Plugin)
	assert.Equal(t, "https://entremotivator.com", config.BaseURL)
	assert.Equal(t, float64(15), config.CommissionRate)

	// Slugless products are excluded.
	require.Len(t, config.Products, 2)
	first := config.Products[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "running-shoes", first.Slug)
	assert.Equal(t, "https://entremotivator.com/running-shoes/", first.DirectURL)
	assert.Equal(t, "https://entremotivator.com/slicewp_affiliate/{affiliate_id}/running-shoes/", first.AffiliateURLTemplate)
	assert.Equal(t, float64(15), first.CommissionRate)
}

func TestBuildSliceWPConfig_DefaultRate(t *testing.T) {
	links := domain.NewLinkBuilder("https://entremotivator.com")
	config := BuildSliceWPConfig(nil, links, 0)
	assert.Equal(t, float64(DefaultCommissionRate), config.CommissionRate)
	assert.NotNil(t, config.Products)
}

func TestWriteSliceWPConfig(t *testing.T) {
	var buf bytes.Buffer
	links := domain.NewLinkBuilder("https://entremotivator.com")

	err := WriteSliceWPConfig(&buf, sampleProducts(), links, 10)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "SliceWP", decoded["plugin"])
	assert.Equal(t, "https://entremotivator.com", decoded["base_url"])

	// The placeholder must survive encoding literally.
	assert.Contains(t, buf.String(), "{affiliate_id}")
}

// =============================================================================
// PDF Tests
// =============================================================================

var pdfNow = time.Date(2024, time.March, 7, 15, 30, 0, 0, time.UTC)

func TestWriteCatalogPDF(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCatalogPDF(&buf, sampleProducts(), pdfNow)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWriteCatalogPDF_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCatalogPDF(&buf, nil, pdfNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestWriteAffiliateReportPDF(t *testing.T) {
	var buf bytes.Buffer
	links := domain.NewLinkBuilder("https://entremotivator.com")

	err := WriteAffiliateReportPDF(&buf, sampleProducts(), links, pdfNow)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}
