package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"consulta/internal/binning"
	"consulta/internal/geo"
)

// ErrShapeValueMismatch is returned when shapes and values are not aligned.
var ErrShapeValueMismatch = errors.New("shapes and values differ in length")

// Map layout, in pixels.
const (
	marginLeft   = 40
	marginRight  = 40
	marginTop    = 50
	marginBottom = 30

	frameWidth      = 2
	outlineWidth    = 1.25
	colorbarOffset  = 34
	colorbarThick   = 30
	colorbarPad     = 50
	colorbarOutline = 2
	tickLength      = 10
	tickWidth       = 3
	mapInsetLeft    = 190
	mapInset        = 20

	titleSize    = 24
	captionSize  = 16
	footerSize   = 22
	tickFontSize = 20
)

// MapSpec is everything needed to draw one choropleth.
type MapSpec struct {
	Shapes        []geo.Shape
	Values        []float64
	Scale         Colorscale
	Ticks         binning.BinSet
	Title         string
	ColorbarTitle string
	Source        string
	Subtitle      string
	Credit        string
	Min           float64
	Max           float64
}

// projection maps lon/lat into pixel space inside a box, equirectangular
// with longitude shrunk by the cosine of the middle latitude.
type projection struct {
	bounds geo.Bounds
	kx     float64
	scale  float64
	ox, oy float64
}

func newProjection(b geo.Bounds, box image.Rectangle) projection {
	midLat := (b.MinY + b.MaxY) / 2 * math.Pi / 180
	kx := math.Cos(midLat)

	worldW := math.Max(b.Width()*kx, 1e-9)
	worldH := math.Max(b.Height(), 1e-9)

	scale := math.Min(float64(box.Dx())/worldW, float64(box.Dy())/worldH)

	return projection{
		bounds: b,
		kx:     kx,
		scale:  scale,
		ox:     float64(box.Min.X) + (float64(box.Dx())-worldW*scale)/2,
		oy:     float64(box.Min.Y) + (float64(box.Dy())-worldH*scale)/2,
	}
}

func (p projection) point(pt geo.Point) fpoint {
	return fpoint{
		X: float32(p.ox + (pt.X-p.bounds.MinX)*p.kx*p.scale),
		Y: float32(p.oy + (p.bounds.MaxY-pt.Y)*p.scale),
	}
}

func (p projection) rings(s geo.Shape) [][]fpoint {
	var out [][]fpoint

	for _, poly := range s.Polygons {
		for _, ring := range poly {
			pr := make([]fpoint, len(ring))
			for i, pt := range ring {
				pr[i] = p.point(pt)
			}

			out = append(out, pr)
		}
	}

	return out
}

// Choropleth draws the map image.
func (r *Renderer) Choropleth(spec MapSpec) (*image.RGBA, error) {
	if len(spec.Shapes) != len(spec.Values) {
		return nil, fmt.Errorf("%w: %d shapes, %d values", ErrShapeValueMismatch, len(spec.Shapes), len(spec.Values))
	}

	bounds, err := geo.ShapeBounds(spec.Shapes)
	if err != nil {
		return nil, err
	}

	t := r.theme
	img := newCanvas(t.Width, t.MapHeight, t.Paper)

	plot := image.Rect(marginLeft, marginTop, t.Width-marginRight, t.MapHeight-marginBottom)
	fillRect(img, plot, t.Ocean)

	box := image.Rect(plot.Min.X+mapInsetLeft, plot.Min.Y+mapInset, plot.Max.X-mapInset, plot.Max.Y-mapInset)
	proj := newProjection(bounds, box)
	p := newPainter(img)

	outlines := make([][]fpoint, 0, len(spec.Shapes))

	for i, shape := range spec.Shapes {
		rings := proj.rings(shape)
		p.fill(rings, spec.Scale.Map(spec.Values[i], spec.Min, spec.Max))
		outlines = append(outlines, rings...)
	}

	p.stroke(outlines, outlineWidth, true, t.Border)
	strokeRect(img, plot, frameWidth, t.Border)

	if err := r.colorbar(img, plot, spec); err != nil {
		return nil, err
	}

	if err := r.mapAnnotations(img, plot, spec); err != nil {
		return nil, err
	}

	return img, nil
}

// colorbar draws the vertical gradient with outside ticks and labels.
func (r *Renderer) colorbar(img *image.RGBA, plot image.Rectangle, spec MapSpec) error {
	t := r.theme

	bar := image.Rect(
		plot.Min.X+colorbarOffset, plot.Min.Y+colorbarPad,
		plot.Min.X+colorbarOffset+colorbarThick, plot.Max.Y-colorbarPad,
	)
	if bar.Dy() <= 0 {
		return nil
	}

	for y := bar.Min.Y; y < bar.Max.Y; y++ {
		frac := float64(bar.Max.Y-1-y) / math.Max(float64(bar.Dy()-1), 1)
		fillRect(img, image.Rect(bar.Min.X, y, bar.Max.X, y+1), spec.Scale.At(frac))
	}

	strokeRect(img, bar.Inset(-colorbarOutline), colorbarOutline, t.Border)

	face, err := r.fonts.Face(tickFontSize, false)
	if err != nil {
		return err
	}

	span := spec.Max - spec.Min
	x0 := bar.Max.X + colorbarOutline

	for i, v := range spec.Ticks.Values {
		if v < spec.Min-1e-9 || v > spec.Max+1e-9 {
			continue
		}

		frac := 0.5
		if span > 0 {
			frac = (v - spec.Min) / span
		}

		y := bar.Max.Y - 1 - int(math.Round(frac*float64(bar.Dy()-1)))
		fillRect(img, image.Rect(x0, y-tickWidth/2, x0+tickLength, y-tickWidth/2+tickWidth), t.Border)
		drawText(img, face, spec.Ticks.Labels[i], x0+tickLength+4, y, t.Text, Start, Middle)
	}

	if spec.ColorbarTitle != "" {
		caption, err := r.fonts.Fit(spec.ColorbarTitle, captionSize, false, plot.Dy())
		if err != nil {
			return err
		}

		drawTextVertical(img, caption, spec.ColorbarTitle, plot.Min.X+colorbarOffset/2, bar.Min.Y+bar.Dy()/2, t.Text)
	}

	return nil
}

// mapAnnotations draws the title above the plot and the footer line below it.
func (r *Renderer) mapAnnotations(img *image.RGBA, plot image.Rectangle, spec MapSpec) error {
	t := r.theme

	if spec.Title != "" {
		face, err := r.fonts.Fit(spec.Title, titleSize, false, plot.Dx())
		if err != nil {
			return err
		}

		drawText(img, face, spec.Title, plot.Min.X+plot.Dx()/2, (marginTop-textHeight(face))/2, t.Text, Middle, Start)
	}

	footers := []struct {
		text string
		x    int
		h    Align
	}{
		{spec.Source, plot.Min.X + plot.Dx()/100, Start},
		{spec.Subtitle, plot.Min.X + plot.Dx()/2, Middle},
		{spec.Credit, plot.Max.X, End},
	}

	for _, f := range footers {
		if f.text == "" {
			continue
		}

		face, err := r.fonts.Fit(f.text, footerSize, false, plot.Dx()/3)
		if err != nil {
			return err
		}

		drawText(img, face, f.text, f.x, plot.Max.Y+2, t.Text, f.h, Start)
	}

	return nil
}
