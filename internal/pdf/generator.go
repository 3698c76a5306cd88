package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the one-page daily operations summary.
func (g *Generator) Generate(export model.DailyExport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Waste Operations Daily Summary", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Day: %s", export.Day.Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	snapshot := export.Snapshot
	addStatLine(pdf, g.fontName, "Total dustbins", fmt.Sprintf("%d", snapshot.TotalBins))
	addStatLine(pdf, g.fontName, "Active pickers", fmt.Sprintf("%d", snapshot.ActivePickers))
	addStatLine(pdf, g.fontName, "Collections today", fmt.Sprintf("%d", snapshot.CollectionsToday))
	addStatLine(pdf, g.fontName, "Pending complaints", fmt.Sprintf("%d", snapshot.PendingComplaints))
	addStatLine(pdf, g.fontName, "Overall success rate", fmt.Sprintf("%.1f%%", snapshot.SuccessRate))
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Waste composition (weighted units)", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Category", "Units"}
	colWidths := []float64{120, 60}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	for _, slice := range snapshot.WasteComposition {
		drawTableRow(pdf, g.fontName, []string{slice.Name, fmt.Sprintf("%d", slice.Value)}, colWidths, false)
	}
	drawTableRow(pdf, g.fontName, []string{"Total", fmt.Sprintf("%d", snapshot.TotalWaste)}, colWidths, true)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Recent complaints", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	reportHeaders := []string{"Created", "Issue", "Ward", "Status"}
	reportWidths := []float64{40, 70, 40, 30}
	drawTableRow(pdf, g.fontName, reportHeaders, reportWidths, true)
	for _, report := range snapshot.RecentReports {
		drawTableRow(pdf, g.fontName, []string{
			report.CreatedAt.Format("2006-01-02 15:04"),
			report.IssueType,
			report.Ward,
			string(report.Status),
		}, reportWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addStatLine(pdf *gofpdf.Fpdf, font, label, value string) {
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(60, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, font string, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(font, style, 10)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
