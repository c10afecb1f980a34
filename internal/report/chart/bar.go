package chart

import (
	"bytes"
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Bar is one column of a bar chart.
type Bar struct {
	Label string
	Value float64
	Color drawing.Color
}

var (
	ColorTraining = drawing.Color{R: 0x4c, G: 0x78, B: 0xa8, A: 0xff}
	ColorPrior    = drawing.Color{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
	ColorCurrent  = drawing.Color{R: 0x59, G: 0xa1, B: 0x4f, A: 0xff}
)

// Bars renders a vertical bar chart whose y axis starts at zero.
func Bars(title, yLabel string, bars []Bar, w, h int) ([]byte, error) {
	if len(bars) == 0 {
		bars = []Bar{{Label: "No data", Color: ColorPrior}}
	}

	maxValue := 0.0
	values := make([]gochart.Value, 0, len(bars))
	for _, b := range bars {
		maxValue = math.Max(maxValue, b.Value)
		values = append(values, gochart.Value{
			Label: b.Label,
			Value: math.Max(b.Value, 0),
			Style: gochart.Style{FillColor: b.Color, StrokeColor: b.Color, StrokeWidth: 1},
		})
	}

	width := barWidth(w, len(bars))
	c := gochart.BarChart{
		Title:  title,
		Width:  w,
		Height: h,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		BarWidth:   width,
		BarSpacing: width * 2 / 3,
		XAxis:      gochart.Style{FontSize: 10},
		YAxis: gochart.YAxis{
			Name:           yLabel,
			Range:          &gochart.ContinuousRange{Min: 0, Max: niceCeil(maxValue)},
			ValueFormatter: func(v interface{}) string { return formatValue(v.(float64)) },
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := c.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func barWidth(w, n int) int {
	if n <= 0 {
		return 40
	}
	return max((w-140)/n*3/5, 10)
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten.
func niceCeil(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
