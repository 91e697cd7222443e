package render

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
)

// Bar chart layout, in pixels.
const (
	barsTop        = 50
	barsLegend     = 36
	barsBottom     = 20
	barsLabelWidth = 210
	barsGap        = 0.2
	barsTitleSize  = 24
	barsFontSize   = 14
	barsMinSegment = 44
	swatchSize     = 14
)

// Share is one option's percentage within a region.
type Share struct {
	Label      string
	Percentage float64
}

// BarRow is one region's response distribution.
type BarRow struct {
	Name   string
	Shares []Share
}

// StackedBars draws one horizontal bar per row, each split into its shares.
// Segment widths are relative to the row's total so every bar spans the plot.
func (r *Renderer) StackedBars(title string, rows []BarRow) (*image.RGBA, error) {
	t := r.theme
	img := newCanvas(t.Width, t.BarsHeight, t.Paper)

	if title != "" {
		face, err := r.fonts.Fit(title, barsTitleSize, false, t.Width-2*marginLeft)
		if err != nil {
			return nil, err
		}

		drawText(img, face, title, t.Width/2, (barsTop-textHeight(face))/2, t.Text, Middle, Start)
	}

	face, err := r.fonts.Face(barsFontSize, false)
	if err != nil {
		return nil, err
	}

	labels := legendLabels(rows)
	r.legend(img, face, labels, barsTop)

	if len(rows) == 0 {
		return img, nil
	}

	plot := image.Rect(marginLeft+barsLabelWidth, barsTop+barsLegend, t.Width-marginRight, t.BarsHeight-barsBottom)
	pitch := float64(plot.Dy()) / float64(len(rows))
	thick := max(1, int(pitch*(1-barsGap)))

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	for i, row := range rows {
		y := plot.Min.Y + int(float64(i)*pitch+(pitch-float64(thick))/2)
		drawText(img, face, row.Name, plot.Min.X-8, y+thick/2, t.Text, End, Middle)

		total := 0.0
		for _, s := range row.Shares {
			total += s.Percentage
		}

		if total <= 0 {
			continue
		}

		x := float64(plot.Min.X)

		for _, s := range row.Shares {
			w := s.Percentage / total * float64(plot.Dx())
			seg := image.Rect(int(x), y, int(x+w), y+thick)
			fillRect(img, seg, categoryColor(index[s.Label]))

			if seg.Dx() >= barsMinSegment && thick >= textHeight(face) {
				drawText(img, face, fmt.Sprintf("%.1f%%", s.Percentage), seg.Min.X+seg.Dx()/2, y+thick/2, color.White, Middle, Middle)
			}

			x += w
		}
	}

	return img, nil
}

// legendLabels returns share labels in first-seen order.
func legendLabels(rows []BarRow) []string {
	var labels []string

	seen := make(map[string]bool)

	for _, row := range rows {
		for _, s := range row.Shares {
			if !seen[s.Label] {
				seen[s.Label] = true
				labels = append(labels, s.Label)
			}
		}
	}

	return labels
}

func (r *Renderer) legend(img *image.RGBA, face font.Face, labels []string, top int) {
	x := marginLeft + barsLabelWidth
	y := top + (barsLegend-swatchSize)/2

	for i, l := range labels {
		fillRect(img, image.Rect(x, y, x+swatchSize, y+swatchSize), categoryColor(i))
		drawText(img, face, l, x+swatchSize+6, y+swatchSize/2, r.theme.Text, Start, Middle)
		x += swatchSize + 6 + textWidth(face, l) + 24
	}
}
