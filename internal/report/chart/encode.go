package chart

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

const (
	placeholderWidth  = 1024
	placeholderHeight = 512
)

// Encode returns the base64 form used in API responses.
func Encode(png []byte) string {
	if len(png) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(png)
}

// Placeholder renders the flat grey cover image used when a report has no logo.
func Placeholder() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 230, G: 230, B: 230, A: 0xff}}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
