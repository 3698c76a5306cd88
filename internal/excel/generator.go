package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/wasteops-portal/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(export model.DailyExport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, export); err != nil {
		return nil, err
	}

	reportsSheet := "Complaints"
	file.NewSheet(reportsSheet)
	if err := g.writeReports(file, reportsSheet, export.Reports); err != nil {
		return nil, err
	}

	collectionsSheet := "Collections"
	file.NewSheet(collectionsSheet)
	if err := g.writeCollections(file, collectionsSheet, export.Collections); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, export model.DailyExport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	snapshot := export.Snapshot
	set("A1", "Day")
	set("B1", export.Day.Format("2006-01-02"))
	set("A2", "Total dustbins")
	set("B2", snapshot.TotalBins)
	set("A3", "Active pickers")
	set("B3", snapshot.ActivePickers)
	set("A4", "Collections today")
	set("B4", snapshot.CollectionsToday)
	set("A5", "Pending complaints")
	set("B5", snapshot.PendingComplaints)
	set("A6", "Overall success rate, %")
	set("B6", snapshot.SuccessRate)
	set("A7", "Total waste, units")
	set("B7", snapshot.TotalWaste)

	tableRow := 9
	set(fmt.Sprintf("A%d", tableRow), "Waste category")
	set(fmt.Sprintf("B%d", tableRow), "Weighted units")
	for i, slice := range snapshot.WasteComposition {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), slice.Name)
		set(fmt.Sprintf("B%d", row), slice.Value)
	}
	return nil
}

func (g *Generator) writeReports(file *excelize.File, sheet string, reports []model.Report) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Created", "Issue type", "Status", "Ward", "Location", "Description"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, report := range reports {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatTime(report.CreatedAt))
		set(fmt.Sprintf("B%d", row), report.IssueType)
		set(fmt.Sprintf("C%d", row), string(report.Status))
		set(fmt.Sprintf("D%d", row), report.Ward)
		set(fmt.Sprintf("E%d", row), report.Location)
		set(fmt.Sprintf("F%d", row), report.Description)
	}
	return nil
}

func (g *Generator) writeCollections(file *excelize.File, sheet string, collections []model.Collection) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Logged", "Picker", "Bin", "Ward", "Location", "Waste type"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, collection := range collections {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatTime(collection.CreatedAt))
		set(fmt.Sprintf("B%d", row), collection.PickerName)
		set(fmt.Sprintf("C%d", row), collection.BinID)
		set(fmt.Sprintf("D%d", row), collection.Ward)
		set(fmt.Sprintf("E%d", row), collection.Location)
		set(fmt.Sprintf("F%d", row), collection.WasteType)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
