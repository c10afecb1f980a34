package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary       = "Summary"
	sheetNarrative     = "Narrative"
	sheetCharts        = "Charts"
	sheetUnitWorkforce = "Workforce by Unit"
	sheetUnitTurnover  = "Turnover by Unit"
	chartRowStride     = 28
)

// XLSX writes the report as a workbook.
type XLSX struct{}

func (XLSX) Render(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, err
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}

	x := &xlsxWriter{f: f, bold: bold}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	if err := x.summary(doc, title); err != nil {
		return nil, err
	}
	if err := x.narrative(doc, wrap); err != nil {
		return nil, err
	}
	if err := x.charts(doc); err != nil {
		return nil, err
	}
	if err := x.unitWorkforce(doc); err != nil {
		return nil, err
	}
	if err := x.unitTurnover(doc); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type xlsxWriter struct {
	f    *excelize.File
	bold int
}

func (x *xlsxWriter) row(sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return x.f.SetSheetRow(sheet, cell, &values)
}

func (x *xlsxWriter) header(sheet string, row int, values ...any) error {
	if err := x.row(sheet, row, values...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	return x.f.SetCellStyle(sheet, first, last, x.bold)
}

func (x *xlsxWriter) summary(doc Document, titleStyle int) error {
	const sheet = sheetSummary

	lines := []any{doc.Layout.Cover.Title, doc.CompanyLabel, doc.YearLine()}
	if doc.Layout.Cover.ShowDate {
		lines = append(lines, doc.DateLine())
	}
	if doc.Layout.Cover.ShowConfidential {
		lines = append(lines, "Confidential")
	}
	for i, v := range lines {
		if err := x.row(sheet, i+1, v); err != nil {
			return err
		}
	}
	if err := x.f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	r := len(lines) + 2
	if err := x.header(sheet, r, doc.Layout.KPISummary.Title); err != nil {
		return err
	}
	r++
	metricCol, valueCol := doc.SummaryColumns()
	if err := x.header(sheet, r, metricCol, valueCol); err != nil {
		return err
	}
	for _, s := range doc.Summary() {
		r++
		if err := x.row(sheet, r, s.Metric, s.Value); err != nil {
			return err
		}
	}
	return x.f.SetColWidth(sheet, "A", "B", 42)
}

func (x *xlsxWriter) narrative(doc Document, wrapStyle int) error {
	const sheet = sheetNarrative
	if _, err := x.f.NewSheet(sheet); err != nil {
		return err
	}
	if err := x.header(sheet, 1, "Section", "Text"); err != nil {
		return err
	}

	sections := doc.Narrative()
	closing := doc.Closing()
	if closing.Title != "" && len(closing.Body) > 0 {
		sections = append(sections, closing)
	}

	r := 1
	for _, s := range sections {
		for i, p := range s.Body {
			r++
			label := ""
			if i == 0 {
				label = s.Title
			}
			if err := x.row(sheet, r, label, p); err != nil {
				return err
			}
		}
	}
	if err := x.f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	if err := x.f.SetColWidth(sheet, "B", "B", 110); err != nil {
		return err
	}
	if r > 1 {
		last, _ := excelize.CoordinatesToCellName(2, r)
		return x.f.SetCellStyle(sheet, "A2", last, wrapStyle)
	}
	return nil
}

func (x *xlsxWriter) charts(doc Document) error {
	figures := doc.Figures()
	if len(figures) == 0 {
		return nil
	}
	const sheet = sheetCharts
	if _, err := x.f.NewSheet(sheet); err != nil {
		return err
	}
	for i, fig := range figures {
		r := 1 + i*chartRowStride
		if err := x.header(sheet, r, fig.Caption); err != nil {
			return err
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+1)
		if err := x.f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
			Extension: ".png",
			File:      fig.PNG,
			Format:    &excelize.GraphicOptions{AltText: fig.Caption, ScaleX: 0.6, ScaleY: 0.6},
		}); err != nil {
			return fmt.Errorf("chart %q: %w", fig.Caption, err)
		}
	}
	return nil
}

func (x *xlsxWriter) unitWorkforce(doc Document) error {
	const sheet = sheetUnitWorkforce
	if _, err := x.f.NewSheet(sheet); err != nil {
		return err
	}

	var genders []string
	seen := map[string]bool{}
	for _, u := range doc.KPIs.WorkforceByGenderByUnit {
		for _, g := range u.Genders {
			if !seen[g.Gender] {
				seen[g.Gender] = true
				genders = append(genders, g.Gender)
			}
		}
	}

	head := []any{"Unit ID", "Unit"}
	for _, g := range genders {
		head = append(head, g)
	}
	if err := x.header(sheet, 1, head...); err != nil {
		return err
	}

	for i, u := range doc.KPIs.WorkforceByGenderByUnit {
		counts := make(map[string]int64, len(u.Genders))
		for _, g := range u.Genders {
			counts[g.Gender] = g.EmployeeCount
		}
		values := []any{u.OrganizationalUnitID, u.OrganizationalUnitName}
		for _, g := range genders {
			values = append(values, counts[g])
		}
		if err := x.row(sheet, i+2, values...); err != nil {
			return err
		}
	}
	return x.f.SetColWidth(sheet, "B", "B", 32)
}

func (x *xlsxWriter) unitTurnover(doc Document) error {
	const sheet = sheetUnitTurnover
	if _, err := x.f.NewSheet(sheet); err != nil {
		return err
	}
	if err := x.header(sheet, 1, "Unit ID", "Unit", "Total Employees", "Employees Departed", "Turnover Rate (%)"); err != nil {
		return err
	}
	for i, u := range doc.KPIs.TurnoverByUnit {
		if err := x.row(sheet, i+2, u.OrganizationalUnitID, u.OrganizationalUnitName, u.TotalEmployees, u.TotalEmployeesDeparted, u.TurnoverRate); err != nil {
			return err
		}
	}
	return x.f.SetColWidth(sheet, "B", "B", 32)
}
