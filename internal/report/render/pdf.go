package render

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var greyText = &props.Color{Red: 110, Green: 110, Blue: 110}

type PDF struct{}

func (PDF) Render(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(13).
		WithRightMargin(13).
		WithTopMargin(13).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	pdfCover(m, doc)
	// Starts the body on a fresh page.
	m.AddPages(page.New())

	summary := doc.Layout.KPISummary
	pdfHeading(m, summary.Title)
	if summary.Description != "" {
		m.AddAutoRow(text.NewCol(12, summary.Description, props.Text{Size: 9, Color: greyText, Bottom: 2}))
	}
	metricCol, valueCol := doc.SummaryColumns()
	m.AddRow(8,
		text.NewCol(8, metricCol, props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(4, valueCol, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)
	for _, r := range doc.Summary() {
		m.AddRow(7,
			text.NewCol(8, r.Metric, props.Text{Size: 10}),
			text.NewCol(4, r.Value, props.Text{Size: 10, Align: align.Right}),
		)
	}

	if figures := doc.Figures(); len(figures) > 0 {
		pdfHeading(m, doc.Layout.Visuals.Title)
		for _, f := range figures {
			m.AddRow(7, text.NewCol(12, f.Caption, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center}))
			m.AddRow(85, image.NewFromBytesCol(12, f.PNG, extension.Png, props.Rect{Center: true, Percent: 95}))
		}
	}

	if sections := doc.Narrative(); len(sections) > 0 {
		pdfHeading(m, doc.Layout.Narrative.Title)
		for _, s := range sections {
			m.AddRow(9, text.NewCol(12, s.Title, props.Text{Size: 12, Style: fontstyle.Bold, Top: 2}))
			pdfParagraphs(m, s.Body)
		}
	}

	closing := doc.Closing()
	pdfHeading(m, closing.Title)
	pdfParagraphs(m, closing.Body)

	if note := doc.Layout.Closing.FooterNote; note != "" {
		m.AddRow(12, text.NewCol(12, note, props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Center, Top: 6, Color: greyText}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func pdfCover(m core.Maroto, doc Document) {
	cover := doc.Layout.Cover

	m.AddRow(50, col.New(12))
	m.AddRow(16, text.NewCol(12, cover.Title, props.Text{Size: 24, Style: fontstyle.Bold, Align: align.Center}))
	m.AddRow(12, text.NewCol(12, doc.CompanyLabel, props.Text{Size: 16, Align: align.Center, Top: 4}))
	m.AddRow(10, text.NewCol(12, doc.YearLine(), props.Text{Size: 12, Align: align.Center, Top: 2}))

	if cover.ShowLogo && len(doc.Logo) > 0 {
		m.AddRow(8, col.New(12))
		m.AddRow(70, image.NewFromBytesCol(12, doc.Logo, extension.Png, props.Rect{Center: true, Percent: 90}))
	}
	if cover.ShowDate {
		m.AddRow(12, text.NewCol(12, doc.DateLine(), props.Text{Size: 11, Align: align.Center, Top: 6}))
	}
	if cover.ShowConfidential {
		m.AddRow(10, text.NewCol(12, "Confidential", props.Text{Size: 11, Style: fontstyle.Italic, Align: align.Center, Top: 2}))
	}
}

func pdfHeading(m core.Maroto, title string) {
	if title == "" {
		return
	}
	m.AddRow(14, text.NewCol(12, title, props.Text{Size: 16, Style: fontstyle.Bold, Top: 5}))
}

func pdfParagraphs(m core.Maroto, body []string) {
	for _, p := range body {
		m.AddAutoRow(text.NewCol(12, p, props.Text{Size: 10, Align: align.Justify, Bottom: 3}))
	}
}
