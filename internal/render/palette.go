package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColorscale is returned for a scale name that is not registered.
var ErrUnknownColorscale = errors.New("unknown colorscale")

// Stop is a color pinned at a position in [0, 1].
type Stop struct {
	Color colorful.Color
	Pos   float64
}

// Colorscale interpolates linearly in RGB between its stops.
type Colorscale struct {
	Name  string
	stops []Stop
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

var colorscales = map[string][]Stop{
	"portland": {
		{Pos: 0, Color: rgb(12, 51, 131)},
		{Pos: 0.25, Color: rgb(10, 136, 186)},
		{Pos: 0.5, Color: rgb(242, 211, 56)},
		{Pos: 0.75, Color: rgb(242, 143, 56)},
		{Pos: 1, Color: rgb(217, 30, 30)},
	},
	"viridis": {
		{Pos: 0, Color: rgb(68, 1, 84)},
		{Pos: 1.0 / 9, Color: rgb(72, 40, 120)},
		{Pos: 2.0 / 9, Color: rgb(62, 73, 137)},
		{Pos: 3.0 / 9, Color: rgb(49, 104, 142)},
		{Pos: 4.0 / 9, Color: rgb(38, 130, 142)},
		{Pos: 5.0 / 9, Color: rgb(31, 158, 137)},
		{Pos: 6.0 / 9, Color: rgb(53, 183, 121)},
		{Pos: 7.0 / 9, Color: rgb(110, 206, 88)},
		{Pos: 8.0 / 9, Color: rgb(181, 222, 43)},
		{Pos: 1, Color: rgb(253, 231, 37)},
	},
	"blues": {
		{Pos: 0, Color: rgb(5, 10, 172)},
		{Pos: 0.35, Color: rgb(40, 60, 190)},
		{Pos: 0.5, Color: rgb(70, 100, 245)},
		{Pos: 0.6, Color: rgb(90, 120, 245)},
		{Pos: 0.7, Color: rgb(106, 137, 247)},
		{Pos: 1, Color: rgb(220, 220, 220)},
	},
}

// categorical colors for stacked bar segments, in legend order.
var categorical = []colorful.Color{
	rgb(239, 85, 59),
	rgb(0, 204, 150),
	rgb(99, 110, 250),
	rgb(171, 99, 250),
	rgb(255, 161, 90),
	rgb(25, 211, 243),
}

// Scale returns a registered colorscale by name (case-insensitive).
func Scale(name string) (Colorscale, error) {
	stops, ok := colorscales[strings.ToLower(name)]
	if !ok {
		return Colorscale{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownColorscale, name, strings.Join(ScaleNames(), ", "))
	}

	return Colorscale{Name: strings.ToLower(name), stops: stops}, nil
}

// ScaleNames lists registered colorscales.
func ScaleNames() []string {
	names := make([]string, 0, len(colorscales))
	for n := range colorscales {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// At returns the color at position t, clamped to [0, 1].
func (s Colorscale) At(t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}

	if t > 1 {
		t = 1
	}

	c := s.stops[len(s.stops)-1].Color

	for i := 1; i < len(s.stops); i++ {
		lo, hi := s.stops[i-1], s.stops[i]
		if t <= hi.Pos {
			span := hi.Pos - lo.Pos
			if span <= 0 {
				c = hi.Color
			} else {
				c = lo.Color.BlendRgb(hi.Color, (t-lo.Pos)/span)
			}

			break
		}
	}

	return toRGBA(c)
}

// Map returns the color of v on a scale spanning [lo, hi].
func (s Colorscale) Map(v, lo, hi float64) color.RGBA {
	if hi <= lo {
		return s.At(0.5)
	}

	return s.At((v - lo) / (hi - lo))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// ParseColor parses a "#rrggbb" or "#rgb" color.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	return toRGBA(c), nil
}

// categoryColor returns the i-th categorical color, cycling.
func categoryColor(i int) color.RGBA {
	return toRGBA(categorical[i%len(categorical)])
}
