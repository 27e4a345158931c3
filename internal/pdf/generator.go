package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/tourops-pricing/internal/model"
)

const fontName = "Helvetica"

type Generator struct {
	currency string
	now      func() time.Time
}

func NewGenerator(currency string) *Generator {
	return &Generator{currency: currency, now: time.Now}
}

func (g *Generator) Generate(quote model.QuoteResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, "Price quotation", "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s", g.now().UTC().Format("02.01.2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, "Service", "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Title: %s", safeValue(quote.OfferingTitle)),
		fmt.Sprintf("Supplier: %s", safeValue(quote.SupplierName)),
		fmt.Sprintf("Category: %s", categoryLabel(quote.Category)),
		fmt.Sprintf("Service date: %s", safeValue(quote.ServiceDate)),
		fmt.Sprintf("Rate: %s (%s)", quote.Pricing.RateID, safeValue(quote.Pricing.PricingModel)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(2)

	if len(quote.Details) > 0 {
		pdf.SetFont(fontName, "B", 12)
		pdf.CellFormat(0, 8, "Parameters", "", 1, "L", false, 0, "")
		widths := []float64{70, 110}
		drawTableRow(pdf, []string{"Parameter", "Value"}, widths, true)
		for _, key := range sortedKeys(quote.Details) {
			drawTableRow(pdf, []string{tr(humanize(key)), tr(fmt.Sprint(quote.Details[key]))}, widths, false)
		}
		pdf.Ln(2)
	}

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, "Price breakdown", "", 1, "L", false, 0, "")
	widths := []float64{120, 60}
	drawTableRow(pdf, []string{"Item", fmt.Sprintf("Amount, %s", g.currency)}, widths, true)
	for _, key := range sortedKeys(quote.Pricing.Breakdown) {
		drawTableRow(pdf, []string{humanize(key), formatAmount(quote.Pricing.Breakdown[key])}, widths, false)
	}
	drawTableRow(pdf, []string{"Total", formatAmount(quote.Pricing.TotalCostTry)}, widths, true)

	if len(quote.Pricing.Notes) > 0 {
		pdf.Ln(2)
		pdf.SetFont(fontName, "", 9)
		for _, note := range quote.Pricing.Notes {
			pdf.MultiCell(0, 5, tr("* "+note), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func categoryLabel(category model.ServiceCategory) string {
	switch category {
	case model.CategoryHotelRoom:
		return "Hotel room"
	case model.CategoryTransfer:
		return "Transfer"
	case model.CategoryVehicleHire:
		return "Vehicle hire"
	case model.CategoryGuideService:
		return "Guide service"
	case model.CategoryActivity:
		return "Activity"
	default:
		return safeValue(string(category))
	}
}

// humanize turns a breakdown key such as extra_km_cost_try into "Extra km cost".
func humanize(key string) string {
	key = strings.TrimSuffix(key, "_try")
	words := strings.Split(key, "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}
