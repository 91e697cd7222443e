// Package render draws choropleth maps, ranking tables and stacked bar charts
// as raster images.
package render

import (
	"fmt"
	"image/color"

	"consulta/internal/config"
)

// Theme holds parsed colors and canvas sizes.
type Theme struct {
	Paper      color.RGBA
	Ocean      color.RGBA
	Text       color.RGBA
	Border     color.RGBA
	HeaderFill color.RGBA
	CellFill   color.RGBA

	Width       int
	MapHeight   int
	TableHeight int
	BarsHeight  int
}

// NewTheme parses the theme section of the configuration.
func NewTheme(cfg config.ThemeConfig) (Theme, error) {
	t := Theme{
		Width:       cfg.Width,
		MapHeight:   cfg.MapHeight,
		TableHeight: cfg.TableHeight,
		BarsHeight:  cfg.BarsHeight,
	}

	colors := []struct {
		dst *color.RGBA
		hex string
		key string
	}{
		{&t.Paper, cfg.Paper, "paper"},
		{&t.Ocean, cfg.Ocean, "ocean"},
		{&t.Text, cfg.Text, "text"},
		{&t.Border, cfg.Border, "border"},
		{&t.HeaderFill, cfg.HeaderFill, "header_fill"},
		{&t.CellFill, cfg.CellFill, "cell_fill"},
	}

	for _, c := range colors {
		parsed, err := ParseColor(c.hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme.%s: %w", c.key, err)
		}

		*c.dst = parsed
	}

	return t, nil
}

// Renderer draws images in a theme.
type Renderer struct {
	theme Theme
	fonts *Fonts
}

// NewRenderer loads fonts and returns a renderer for theme.
func NewRenderer(theme Theme) (*Renderer, error) {
	fonts, err := LoadFonts()
	if err != nil {
		return nil, err
	}

	return &Renderer{theme: theme, fonts: fonts}, nil
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}
