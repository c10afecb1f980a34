package render

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/narrative"
	"github.com/smallbiznis/workforcekpi/internal/report/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testDocument(t *testing.T) Document {
	t.Helper()

	data := kpidomain.Data{
		WorkforceByGender: []kpidomain.GenderCount{
			{Gender: "Female", EmployeeCount: 472},
			{Gender: "Male", EmployeeCount: 721},
		},
		DisabilityPercentage: kpidomain.DisabilityPercentage{OverallPercentage: 39.56},
		TurnoverRate:         kpidomain.TurnoverRate{OverallTurnoverRate: 13.16},
		AverageTrainingHours: kpidomain.AverageTrainingHours{
			OverallAverageHours: 2.67,
			BreakdownByGender: []kpidomain.TrainingByGender{
				{Gender: "Female", TotalTrainingHours: 1149.79},
				{Gender: "Male", TotalTrainingHours: 1013.42},
			},
		},
		InjuryRate: kpidomain.InjuryRate{OverallInjuryRate: 0.0285},
		WorkforceByGenderByUnit: []kpidomain.UnitWorkforce{
			{OrganizationalUnitID: 2, OrganizationalUnitName: "Finance", Genders: []kpidomain.GenderCount{{Gender: "Female", EmployeeCount: 3}, {Gender: "Male", EmployeeCount: 4}}},
			{OrganizationalUnitID: 9, OrganizationalUnitName: "Plant & Ops", Genders: []kpidomain.GenderCount{{Gender: "Female", EmployeeCount: 1}, {Gender: "Unknown", EmployeeCount: 2}}},
		},
		TurnoverByUnit: []kpidomain.UnitTurnover{
			{OrganizationalUnitID: 2, OrganizationalUnitName: "Finance", TotalEmployees: 7, TotalEmployeesDeparted: 1, TurnoverRate: 14.29},
		},
	}.Normalized()

	charts, err := chart.FromKPIs(data, &kpidomain.Data{})
	require.NoError(t, err)
	logo, err := chart.Placeholder()
	require.NoError(t, err)

	sections := narrative.Sections{}
	for _, key := range narrative.SectionKeys() {
		sections[key] = narrative.Fallback(key)
	}
	sections[narrative.SectionHealthSafety] = "First paragraph <safe>.\n\nSecond paragraph."

	return Document{
		Layout:       config.DefaultReportLayout(),
		CompanyLabel: "Acme & Sons",
		Year:         2025,
		Date:         time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		KPIs:         data,
		Sections:     sections,
		Charts:       charts,
		Logo:         logo,
	}
}

func TestDocument_Summary(t *testing.T) {
	rows := testDocument(t).Summary()

	require.Len(t, rows, 6)
	assert.Equal(t, SummaryRow{Metric: "Employees with Disabilities (Overall %)", Value: "39.56%"}, rows[0])
	assert.Equal(t, SummaryRow{Metric: "Employee Turnover Rate", Value: "13.16%"}, rows[1])
	assert.Equal(t, SummaryRow{Metric: "Average Training Hours per Employee", Value: "2.67"}, rows[2])
	assert.Equal(t, SummaryRow{Metric: "Workplace Injury Rate (per employee)", Value: "0.0285"}, rows[3])
	assert.Equal(t, SummaryRow{Metric: "Workforce - Female", Value: "472"}, rows[4])
	assert.Equal(t, SummaryRow{Metric: "Workforce - Male", Value: "721"}, rows[5])
}

func TestDocument_FiguresFollowLayoutOrder(t *testing.T) {
	doc := testDocument(t)
	doc.Layout.Visuals.ChartOrder = []string{chart.KeyTrainingHoursTrend, "kpi_summary", chart.KeyWorkforceByGender}

	figures := doc.Figures()
	require.Len(t, figures, 2)
	assert.Equal(t, "Trend Training Hours Per Employee", figures[0].Caption)
	assert.Equal(t, "Workforce By Gender", figures[1].Caption)
}

func TestDocument_Narrative(t *testing.T) {
	doc := testDocument(t)
	doc.Sections[narrative.SectionTurnoverRetention] = "  "

	sections := doc.Narrative()
	require.Len(t, sections, 6)
	assert.Equal(t, "Executive Summary", sections[0].Title)
	assert.Equal(t, []string{"First paragraph <safe>.", "Second paragraph."}, sections[4].Body)

	closing := doc.Closing()
	assert.Equal(t, "Closing", closing.Title)
	assert.Equal(t, []string{narrative.Fallback(narrative.SectionClosing)}, closing.Body)
}

func TestPDF_Render(t *testing.T) {
	out, err := PDF{}.Render(testDocument(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestDOCX_Render(t *testing.T) {
	out, err := DOCX{}.Render(testDocument(t))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)

	files := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		files[f.Name] = b
	}

	require.Contains(t, files, "[Content_Types].xml")
	require.Contains(t, files, "word/document.xml")
	// Logo plus three charts.
	assert.Contains(t, files, "word/media/image4.png")
	assert.NotContains(t, files, "word/media/image5.png")

	document := string(files["word/document.xml"])
	assert.Contains(t, document, "Acme &amp; Sons")
	assert.Contains(t, document, "First paragraph &lt;safe&gt;.")
	assert.Contains(t, document, "Reporting Year: 2025")
	assert.Contains(t, document, "March 04, 2026")
	assert.Contains(t, string(files["word/_rels/document.xml.rels"]), `Target="media/image4.png"`)
}

func TestXLSX_Render(t *testing.T) {
	out, err := XLSX{}.Render(testDocument(t))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetNarrative, sheetCharts, sheetUnitWorkforce, sheetUnitTurnover}, f.GetSheetList())

	title, err := f.GetCellValue(sheetSummary, "A1")
	require.NoError(t, err)
	assert.Equal(t, "ESRS S1 Management Report", title)

	rows, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	assert.Contains(t, rows, []string{"Employee Turnover Rate", "13.16%"})

	units, err := f.GetRows(sheetUnitWorkforce)
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, []string{"Unit ID", "Unit", "Female", "Male", "Unknown"}, units[0])
	assert.Equal(t, []string{"9", "Plant & Ops", "1", "0", "2"}, units[2])

	turnover, err := f.GetRows(sheetUnitTurnover)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "Finance", "7", "1", "14.29"}, turnover[1])
}
