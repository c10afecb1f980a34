package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image/png"
	"strings"
)

const (
	emuPerInch     = 914400
	chartWidthEMU  = 4 * emuPerInch
	logoWidthEMU   = 55 * emuPerInch / 10
	docxPageBreak  = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`
	docxSectionA4  = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`
	docxNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
		`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Default Extension="png" ContentType="image/png"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// DOCX writes a WordprocessingML package.
type DOCX struct{}

type runStyle struct {
	bold   bool
	italic bool
	// size in points, zero keeps the default.
	size   int
	center bool
}

type docxWriter struct {
	body  strings.Builder
	media [][]byte
}

func (DOCX) Render(doc Document) ([]byte, error) {
	w := &docxWriter{}

	cover := doc.Layout.Cover
	w.paragraph(cover.Title, runStyle{bold: true, size: 28, center: true})
	w.paragraph("", runStyle{})
	w.paragraph(doc.CompanyLabel, runStyle{size: 16, center: true})
	w.paragraph("", runStyle{})
	w.paragraph(doc.YearLine(), runStyle{size: 14, center: true})
	if cover.ShowLogo && len(doc.Logo) > 0 {
		if err := w.picture(doc.Logo, logoWidthEMU); err != nil {
			return nil, err
		}
	}
	if cover.ShowDate {
		w.paragraph(doc.DateLine(), runStyle{center: true})
	}
	if cover.ShowConfidential {
		w.paragraph("Confidential", runStyle{italic: true, center: true})
	}
	w.body.WriteString(docxPageBreak)

	w.heading(doc.Layout.KPISummary.Title, 1)
	metricCol, valueCol := doc.SummaryColumns()
	rows := [][2]string{{metricCol, valueCol}}
	for _, r := range doc.Summary() {
		rows = append(rows, [2]string{r.Metric, r.Value})
	}
	w.table(rows)
	w.paragraph("", runStyle{})

	w.heading(doc.Layout.Visuals.Title, 1)
	for _, f := range doc.Figures() {
		w.paragraph(f.Caption, runStyle{center: true})
		if err := w.picture(f.PNG, chartWidthEMU); err != nil {
			return nil, err
		}
		w.paragraph("", runStyle{})
	}
	w.paragraph("", runStyle{})

	for _, s := range doc.Narrative() {
		level := 3
		if s.Title == "Executive Summary" {
			level = 1
		}
		w.heading(s.Title, level)
		for _, p := range s.Body {
			w.paragraph(p, runStyle{})
		}
	}

	closing := doc.Closing()
	w.heading(closing.Title, 1)
	for _, p := range closing.Body {
		w.paragraph(p, runStyle{})
	}
	if note := doc.Layout.Closing.FooterNote; note != "" {
		w.paragraph(note, runStyle{italic: true, size: 9, center: true})
	}

	return w.pack()
}

func (w *docxWriter) heading(title string, level int) {
	if title == "" {
		return
	}
	size := 16
	if level > 1 {
		size = 13
	}
	w.paragraph(title, runStyle{bold: true, size: size})
}

func (w *docxWriter) paragraph(s string, style runStyle) {
	w.body.WriteString("<w:p>")
	if style.center {
		w.body.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}
	if s != "" {
		w.run(s, style)
	}
	w.body.WriteString("</w:p>")
}

func (w *docxWriter) run(s string, style runStyle) {
	w.body.WriteString("<w:r>")
	if style.bold || style.italic || style.size > 0 {
		w.body.WriteString("<w:rPr>")
		if style.bold {
			w.body.WriteString("<w:b/>")
		}
		if style.italic {
			w.body.WriteString("<w:i/>")
		}
		if style.size > 0 {
			// Word sizes are in half points.
			fmt.Fprintf(&w.body, `<w:sz w:val="%d"/>`, style.size*2)
		}
		w.body.WriteString("</w:rPr>")
	}
	w.body.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(&w.body, []byte(s))
	w.body.WriteString("</w:t></w:r>")
}

func (w *docxWriter) table(rows [][2]string) {
	w.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&w.body, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="auto"/>`, edge)
	}
	w.body.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid><w:gridCol w:w="6000"/><w:gridCol w:w="3000"/></w:tblGrid>`)
	for i, r := range rows {
		w.body.WriteString("<w:tr>")
		for _, cell := range r {
			w.body.WriteString("<w:tc>")
			w.paragraph(cell, runStyle{bold: i == 0})
			w.body.WriteString("</w:tc>")
		}
		w.body.WriteString("</w:tr>")
	}
	w.body.WriteString("</w:tbl>")
}

// picture embeds a PNG scaled to widthEMU, keeping its aspect ratio.
func (w *docxWriter) picture(b []byte, widthEMU int64) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("docx picture: %w", err)
	}
	if cfg.Width == 0 {
		return fmt.Errorf("docx picture: empty image")
	}
	w.media = append(w.media, b)
	n := len(w.media)
	heightEMU := widthEMU * int64(cfg.Height) / int64(cfg.Width)

	fmt.Fprintf(&w.body, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="%[1]d" cy="%[2]d"/><wp:docPr id="%[3]d" name="Picture %[3]d"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%[3]d" name="image%[3]d.png"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="rIdImage%[3]d"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		widthEMU, heightEMU, n)
	return nil
}

func (w *docxWriter) pack() ([]byte, error) {
	var rels strings.Builder
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := range w.media {
		fmt.Fprintf(&rels, `<Relationship Id="rIdImage%[1]d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%[1]d.png"/>`, i+1)
	}
	rels.WriteString(`</Relationships>`)

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<w:document ` + docxNamespaces + `><w:body>` + w.body.String() + docxSectionA4 + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/document.xml", []byte(document)},
		{"word/_rels/document.xml.rels", []byte(rels.String())},
	}
	for i, m := range w.media {
		parts = append(parts, struct {
			name string
			data []byte
		}{fmt.Sprintf("word/media/image%d.png", i+1), m})
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
