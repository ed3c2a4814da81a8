package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// categoryColors shade the per-category percentage bars.
var categoryColors = map[string][3]int{
	"HOUSE":         {195, 155, 211},
	"FOOD":          {250, 215, 160},
	"TRANSPORT":     {174, 214, 241},
	"HEALTH":        {171, 235, 198},
	"ENTERTAINMENT": {245, 183, 177},
	"PERSONAL":      {174, 182, 191},
}

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func newDoc(accountName, subtitle string) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, "Account: "+accountName)
	doc.Ln(14)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, subtitle)
	doc.Ln(14)

	return doc
}

func summaryTable(doc *fpdf.Fpdf, headers []string, values []string) {
	doc.SetFillColor(238, 255, 238)
	doc.SetFont("Helvetica", "B", 10)
	for _, h := range headers {
		doc.CellFormat(45, 8, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 10)
	for _, v := range values {
		doc.CellFormat(45, 8, v, "1", 0, "C", true, 0, "")
	}
	doc.Ln(16)
}

func breakdownSection(doc *fpdf.Fpdf, items []CategoryBreakdown) {
	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Details of your expenses")
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 10)
	for _, b := range items {
		doc.CellFormat(35, 8, string(b.Category)+":", "", 0, "L", false, 0, "")
		doc.CellFormat(25, 8, fmt.Sprintf("%.2f $", b.Value), "", 0, "L", false, 0, "")

		rgb, ok := categoryColors[string(b.Category)]
		if !ok {
			rgb = [3]int{220, 220, 220}
		}
		doc.SetFillColor(rgb[0], rgb[1], rgb[2])

		// Bar width scales with the category share, with a floor so the
		// percentage label stays readable.
		width := b.Percentage * 1.2
		if width < 14 {
			width = 14
		}
		doc.CellFormat(width, 8, fmt.Sprintf("%.0f %%", b.Percentage), "1", 0, "C", true, 0, "")
		doc.Ln(10)
	}
}

// RenderMonth produces the month report PDF.
func (r *PDFRenderer) RenderMonth(report *MonthReport) ([]byte, error) {
	subtitle := fmt.Sprintf("You can find below the financial report for the month of %s %d.",
		monthName(report.Month), report.Year)
	doc := newDoc(report.AccountName, subtitle)

	summaryTable(doc,
		[]string{"Income", "Budget", "Total expenses", "Balance"},
		[]string{
			fmt.Sprintf("%.2f $", report.Income),
			fmt.Sprintf("%.2f $", report.Budget),
			fmt.Sprintf("%.2f $", report.TotalExpenses),
			fmt.Sprintf("%.2f $", report.Balance),
		})

	breakdownSection(doc, report.Breakdown)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderYear produces the year report PDF.
func (r *PDFRenderer) RenderYear(report *YearReport) ([]byte, error) {
	subtitle := fmt.Sprintf("You can find below the financial report for the year %d.", report.Year)
	doc := newDoc(report.AccountName, subtitle)

	summaryTable(doc,
		[]string{"Total income", "Total budget", "Total expenses", "Total balance"},
		[]string{
			fmt.Sprintf("%.2f $", report.TotalIncome),
			fmt.Sprintf("%.2f $", report.TotalBudget),
			fmt.Sprintf("%.2f $", report.TotalExpenses),
			fmt.Sprintf("%.2f $", report.TotalBalance),
		})

	summaryTable(doc,
		[]string{"Highest income", "Highest budget", "Lowest income", "Lowest budget"},
		[]string{
			fmt.Sprintf("%s: %.2f $", report.HighestIncome.Month, report.HighestIncome.Value),
			fmt.Sprintf("%s: %.2f $", report.HighestBudget.Month, report.HighestBudget.Value),
			fmt.Sprintf("%s: %.2f $", report.LowestIncome.Month, report.LowestIncome.Value),
			fmt.Sprintf("%s: %.2f $", report.LowestBudget.Month, report.LowestBudget.Value),
		})

	breakdownSection(doc, report.Breakdown)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return buf.Bytes(), nil
}
