package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/balance-ledger/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(report model.EarningsReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Earnings report", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Payments from %s to %s", formatDate(report.PeriodStart), formatDate(report.PeriodEnd)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", formatDateTime(report.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Earnings by profession", "", 1, "L", false, 0, "")
	professionWidths := []float64{100, 35, 45}
	drawTableRow(pdf, g.fontName, []string{"Profession", "Paid jobs", "Total"}, professionWidths, true)
	total := decimal.Zero
	for _, row := range report.Professions {
		total = total.Add(row.Total)
		drawTableRow(pdf, g.fontName, []string{
			safeValue(row.Profession),
			fmt.Sprintf("%d", row.JobCount),
			row.Total.StringFixed(2),
		}, professionWidths, false)
	}
	if len(report.Professions) == 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 8, "No paid jobs in this period.", "", 1, "L", false, 0, "")
	}
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total paid: %s", total.StringFixed(2)), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Best clients", "", 1, "L", false, 0, "")
	clientWidths := []float64{25, 110, 45}
	drawTableRow(pdf, g.fontName, []string{"Profile", "Client", "Paid"}, clientWidths, true)
	for _, row := range report.Clients {
		drawTableRow(pdf, g.fontName, []string{
			fmt.Sprintf("%d", row.ID),
			safeValue(row.FullName),
			row.Paid.StringFixed(2),
		}, clientWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i == len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04 MST")
}
