package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/entremotivator/catalog/internal/core/domain"
)

const (
	// maxPDFDescription caps product descriptions in the catalog PDF.
	maxPDFDescription = 500

	// maxPDFImages limits image URLs listed per product.
	maxPDFImages = 4

	// maxPDFImageURL caps each listed image URL.
	maxPDFImageURL = 50

	// productsPerPage is how many product sections fit on one catalog page.
	productsPerPage = 3

	// generatedOnLayout formats the report timestamp, as in
	// "January 2, 2006 at 3:04 PM".
	generatedOnLayout = "January 2, 2006 at 3:04 PM"
)

func newReportPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 15)
	return pdf
}

func writeTitle(pdf *fpdf.Fpdf, tr func(string) string, title string, now time.Time) {
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 14, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(52, 73, 94)
	pdf.CellFormat(0, 8, tr("Generated on "+now.Format(generatedOnLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(8)
}

// WriteCatalogPDF renders the full product catalog: a title page with
// completion statistics followed by one section per product, three to a
// page. Descriptions are stripped of HTML and capped; image URLs are listed
// as text rather than embedded.
func WriteCatalogPDF(w io.Writer, products []domain.Product, now time.Time) error {
	pdf := newReportPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	writeTitle(pdf, tr, "Product Catalog", now)

	summary := domain.Summarize(products)
	completion := 0.0
	if summary.TotalProducts > 0 {
		completion = float64(summary.ProductsWithSlugs) / float64(summary.TotalProducts) * 100
	}

	rows := [][2]string{
		{"Total Products", fmt.Sprintf("%d", summary.TotalProducts)},
		{"Products with Images", fmt.Sprintf("%d", summary.ProductsWithImages)},
		{"Products with URL Slugs", fmt.Sprintf("%d", summary.ProductsWithSlugs)},
		{"Completion Rate", fmt.Sprintf("%.1f%%", completion)},
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(52, 152, 219)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(80, 9, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 9, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(80, 8, tr(row[0]), "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 8, tr(row[1]), "1", 1, "C", true, 0, "")
	}

	for i, p := range products {
		if i%productsPerPage == 0 {
			pdf.AddPage()
		}
		writeProductSection(pdf, tr, p, i+1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render catalog pdf: %w", err)
	}
	return nil
}

func writeProductSection(pdf *fpdf.Fpdf, tr func(string) string, p domain.Product, number int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(41, 128, 185)
	pdf.MultiCell(0, 7, tr(fmt.Sprintf("Product #%d: %s", number, p.DisplayName())), "", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(127, 140, 141)
	pdf.CellFormat(0, 5, tr("Product ID: "+p.RecordID), "", 1, "L", false, 0, "")
	if p.HasSlug() {
		pdf.CellFormat(0, 5, tr("URL Slug: "+p.Slug), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	if description := domain.StripHTML(p.Description); description != "" {
		description = domain.TruncateText(description, maxPDFDescription)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Description:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 5, tr(description), "", "J", false)
		pdf.Ln(2)
	}

	if urls := p.ImageURLs(); len(urls) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(127, 140, 141)
		pdf.CellFormat(0, 5, "Product Images:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		if len(urls) > maxPDFImages {
			urls = urls[:maxPDFImages]
		}
		for i, url := range urls {
			label := fmt.Sprintf("Image %d: %s", i+1, domain.TruncateText(url, maxPDFImageURL))
			pdf.CellFormat(0, 4, tr(label), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(4)
	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetDrawColor(189, 195, 199)
	pdf.Line(x, y, x+160, y)
	pdf.Ln(6)
}

// WriteAffiliateReportPDF renders a table of every product's affiliate link.
// Products without a slug are listed as "no-slug" so gaps show up in the
// report rather than disappearing from it.
func WriteAffiliateReportPDF(w io.Writer, products []domain.Product, links domain.LinkBuilder, now time.Time) error {
	pdf := newReportPDF()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	writeTitle(pdf, tr, "Affiliate Links Report", now)

	colWidths := [4]float64{45, 20, 35, 60}
	headers := [4]string{"Product Name", "Product ID", "URL Slug", "Affiliate Link"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		pdf.CellFormat(colWidths[i], 8, h, "1", last, "L", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, p := range products {
		name := p.DisplayName()
		if len([]rune(name)) > 30 {
			name = domain.TruncateText(name, 27)
		}
		slug := p.Slug
		if slug == "" {
			slug = "no-slug"
		}
		link := links.BaseURL() + "/" + slug

		fill := i%2 == 1
		pdf.SetFillColor(248, 249, 250)
		pdf.CellFormat(colWidths[0], 7, tr(name), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[1], 7, tr(p.RecordID), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[2], 7, tr(slug), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(colWidths[3], 7, tr(link), "1", 1, "L", fill, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render affiliate report pdf: %w", err)
	}
	return nil
}
