package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// fpoint is a pixel-space coordinate.
type fpoint struct {
	X, Y float32
}

func newCanvas(w, h int, bg color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Bounds(), bg)

	return img
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// strokeRect draws a border of the given width inside r.
func strokeRect(dst draw.Image, r image.Rectangle, width int, c color.Color) {
	if width <= 0 {
		return
	}

	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// painter rasterizes anti-aliased paths onto a fixed-size RGBA image.
type painter struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func newPainter(dst *image.RGBA) *painter {
	b := dst.Bounds()
	return &painter{dst: dst, z: vector.NewRasterizer(b.Dx(), b.Dy())}
}

func (p *painter) reset() {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
}

func (p *painter) paint(c color.Color) {
	p.z.DrawOp = draw.Over
	p.z.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{})
}

// fill paints the union of the closed rings. Rings of opposite orientation
// cancel, so polygon holes stay empty.
func (p *painter) fill(rings [][]fpoint, c color.Color) {
	p.reset()

	drawn := false

	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}

		p.z.MoveTo(ring[0].X, ring[0].Y)
		for _, pt := range ring[1:] {
			p.z.LineTo(pt.X, pt.Y)
		}

		p.z.ClosePath()

		drawn = true
	}

	if drawn {
		p.paint(c)
	}
}

// stroke paints the outline of each ring as a band of the given width.
// Each segment becomes a quad; all quads share one orientation so
// overlaps saturate instead of cancelling.
func (p *painter) stroke(rings [][]fpoint, width float32, closed bool, c color.Color) {
	p.reset()

	half := float64(width) / 2
	drawn := false

	segment := func(a, b fpoint) {
		dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)

		length := math.Hypot(dx, dy)
		if length == 0 {
			return
		}

		nx, ny := float32(-dy/length*half), float32(dx/length*half)

		p.z.MoveTo(a.X+nx, a.Y+ny)
		p.z.LineTo(b.X+nx, b.Y+ny)
		p.z.LineTo(b.X-nx, b.Y-ny)
		p.z.LineTo(a.X-nx, a.Y-ny)
		p.z.ClosePath()

		drawn = true
	}

	for _, ring := range rings {
		for i := 1; i < len(ring); i++ {
			segment(ring[i-1], ring[i])
		}

		if closed && len(ring) > 2 {
			segment(ring[len(ring)-1], ring[0])
		}
	}

	if drawn {
		p.paint(c)
	}
}
