package chart

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Slice is one labelled share of a donut chart.
type Slice struct {
	Label string
	Value float64
}

const (
	donutWidth  = 640
	donutHeight = 480
)

// palette follows the tab10 cycle.
var palette = []drawing.Color{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// Donut renders a ring chart labelled "<label> (<value>)". Genders with no
// employees get no ring segment; when nobody is counted the ring is grey.
func Donut(title string, slices []Slice) ([]byte, error) {
	values := donutValues(slices)

	c := gochart.DonutChart{
		Title:  title,
		Width:  donutWidth,
		Height: donutHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func donutValues(slices []Slice) []gochart.Value {
	values := make([]gochart.Value, 0, len(slices))
	for i, s := range slices {
		if s.Value <= 0 {
			continue
		}
		color := palette[i%len(palette)]
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%s)", s.Label, formatValue(s.Value)),
			Value: s.Value,
			Style: gochart.Style{FillColor: color, StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	if len(values) == 0 {
		values = append(values, gochart.Value{
			Label: "No data",
			Value: 1,
			Style: gochart.Style{FillColor: ColorPrior, StrokeColor: ColorPrior},
		})
	}
	return values
}
