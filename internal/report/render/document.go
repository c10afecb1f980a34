package render

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/workforcekpi/internal/config"
	kpidomain "github.com/smallbiznis/workforcekpi/internal/kpi/domain"
	"github.com/smallbiznis/workforcekpi/internal/narrative"
)

// Renderer turns a Document into file bytes.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// Document is everything a report file shows, independent of its format.
type Document struct {
	Layout       config.ReportLayout
	CompanyLabel string
	Year         int
	Date         time.Time
	KPIs         kpidomain.Data
	Sections     narrative.Sections
	// Charts holds PNG bytes by chart key.
	Charts map[string][]byte
	// Logo is shown on the cover when the layout asks for it.
	Logo []byte
}

type SummaryRow struct {
	Metric string
	Value  string
}

type Figure struct {
	Caption string
	PNG     []byte
}

type Paragraphs struct {
	Title string
	Body  []string
}

// Summary returns the headline KPI rows.
func (d Document) Summary() []SummaryRow {
	k := d.KPIs
	rows := []SummaryRow{
		{Metric: "Employees with Disabilities (Overall %)", Value: formatFloat(k.DisabilityPercentage.OverallPercentage) + "%"},
		{Metric: "Employee Turnover Rate", Value: formatFloat(k.TurnoverRate.OverallTurnoverRate) + "%"},
		{Metric: "Average Training Hours per Employee", Value: formatFloat(k.AverageTrainingHours.OverallAverageHours)},
		{Metric: "Workplace Injury Rate (per employee)", Value: formatFloat(k.InjuryRate.OverallInjuryRate)},
	}
	for _, g := range k.WorkforceByGender {
		rows = append(rows, SummaryRow{
			Metric: "Workforce - " + g.Gender,
			Value:  strconv.FormatInt(g.EmployeeCount, 10),
		})
	}
	return rows
}

// SummaryColumns returns the two header labels of the summary table.
func (d Document) SummaryColumns() (string, string) {
	cols := d.Layout.KPISummary.Columns
	if len(cols) != 2 {
		return "Metric", "Value"
	}
	return cols[0], cols[1]
}

// Figures returns the charts in layout order, skipping those not rendered.
func (d Document) Figures() []Figure {
	var out []Figure
	for _, key := range d.Layout.Visuals.ChartOrder {
		png, ok := d.Charts[key]
		if !ok || len(png) == 0 {
			continue
		}
		out = append(out, Figure{Caption: narrative.TitleCase(key), PNG: png})
	}
	return out
}

// Narrative returns the configured sections that have text.
func (d Document) Narrative() []Paragraphs {
	var out []Paragraphs
	for _, s := range d.Layout.Narrative.Sections {
		title := strings.TrimSpace(s.Title)
		body := splitParagraphs(d.Sections.Get(s.Key))
		if title == "" || len(body) == 0 {
			continue
		}
		out = append(out, Paragraphs{Title: title, Body: body})
	}
	return out
}

func (d Document) Closing() Paragraphs {
	return Paragraphs{
		Title: d.Layout.Closing.Title,
		Body:  splitParagraphs(d.Sections.Get(d.Layout.Closing.Key)),
	}
}

func (d Document) DateLine() string {
	return d.Date.Format("January 02, 2006")
}

func (d Document) YearLine() string {
	return "Reporting Year: " + strconv.Itoa(d.Year)
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
