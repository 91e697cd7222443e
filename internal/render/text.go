package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Align positions text relative to an anchor point.
type Align int

// Anchors. Start is left (horizontal) or top (vertical).
const (
	Start Align = iota
	Middle
	End
)

// minFontSize bounds how far fitted text may shrink.
const minFontSize = 9

type faceKey struct {
	size float64
	bold bool
}

// Fonts caches Go font faces by size and weight.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// LoadFonts parses the bundled Go fonts.
func LoadFonts() (*Fonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &Fonts{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Face returns a face of the given pixel size.
func (f *Fonts) Face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}

	src := f.regular
	if bold {
		src = f.bold
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %.1fpx face: %w", size, err)
	}

	f.faces[key] = face

	return face, nil
}

// Fit returns the largest face not above size whose rendering of s fits
// in maxWidth pixels.
func (f *Fonts) Fit(s string, size float64, bold bool, maxWidth int) (font.Face, error) {
	for {
		face, err := f.Face(size, bold)
		if err != nil {
			return nil, err
		}

		if maxWidth <= 0 || textWidth(face, s) <= maxWidth || size <= minFontSize {
			return face, nil
		}

		size = math.Max(minFontSize, size-1)
	}
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func textHeight(face font.Face) int {
	m := face.Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil()
}

// drawText draws s so that the anchor point (x, y) sits at the requested
// horizontal and vertical alignment of its bounding box.
func drawText(dst draw.Image, face font.Face, s string, x, y int, c color.Color, h, v Align) {
	w := textWidth(face, s)
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()

	switch h {
	case Middle:
		x -= w / 2
	case End:
		x -= w
	}

	baseline := y + ascent

	switch v {
	case Middle:
		baseline = y + (ascent-descent)/2
	case End:
		baseline = y - descent
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// drawTextVertical draws s rotated a quarter turn counter-clockwise, so it
// reads bottom to top, centered on (cx, cy).
func drawTextVertical(dst draw.Image, face font.Face, s string, cx, cy int, c color.Color) {
	w, h := textWidth(face, s), textHeight(face)
	if w == 0 || h == 0 {
		return
	}

	flat := image.NewRGBA(image.Rect(0, 0, w, h))
	drawText(flat, face, s, 0, 0, c, Start, Start)

	rotated := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rotated.SetRGBA(y, w-1-x, flat.RGBAAt(x, y))
		}
	}

	r := image.Rect(cx-h/2, cy-w/2, cx-h/2+h, cy-w/2+w)
	draw.Draw(dst, r, rotated, image.Point{}, draw.Over)
}
