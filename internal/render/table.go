package render

import (
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/font"
)

// Table layout, in pixels.
const (
	tableSideMargin = 40
	tableSpacing    = 0.03
	tableRowHeight  = 32
	tableFontSize   = 20
	tableCellPad    = 8
	tableLineWidth  = 1
)

// Column headers of the ranking table.
var tableHeaders = [3]string{"Entidad", "Votos", "Participación ↓"}

// relative column widths: name, votes, participation.
var tableColumnWeights = [3]int{110, 80, 80}

// TableRow is one line of the ranking table.
type TableRow struct {
	Name          string
	Votes         int64
	Participation float64
}

// Table draws the already sorted rows split evenly across the given number
// of side-by-side tables.
func (r *Renderer) Table(rows []TableRow, columns int) (*image.RGBA, error) {
	if columns < 1 {
		columns = 1
	}

	t := r.theme
	img := newCanvas(t.Width, t.TableHeight, t.Paper)

	header, err := r.fonts.Face(tableFontSize, true)
	if err != nil {
		return nil, err
	}

	body, err := r.fonts.Face(tableFontSize, false)
	if err != nil {
		return nil, err
	}

	perTable := (len(rows) + columns - 1) / columns

	plotW := t.Width - 2*tableSideMargin
	gap := int(float64(plotW) * tableSpacing)
	tableW := (plotW - (columns-1)*gap) / columns

	for c := 0; c < columns; c++ {
		lo := min(c*perTable, len(rows))
		hi := min(lo+perTable, len(rows))
		x := tableSideMargin + c*(tableW+gap)

		r.drawTable(img, rows[lo:hi], image.Rect(x, 0, x+tableW, t.TableHeight), header, body)
	}

	return img, nil
}

func (r *Renderer) drawTable(img *image.RGBA, rows []TableRow, area image.Rectangle, header, body font.Face) {
	t := r.theme

	total := 0
	for _, w := range tableColumnWeights {
		total += w
	}

	edges := [4]int{area.Min.X}
	for i, w := range tableColumnWeights {
		edges[i+1] = edges[i] + area.Dx()*w/total
	}

	edges[3] = area.Max.X

	cell := func(col, row int) image.Rectangle {
		y := area.Min.Y + row*tableRowHeight
		return image.Rect(edges[col], y, edges[col+1], y+tableRowHeight)
	}

	for col, title := range tableHeaders {
		rc := cell(col, 0)
		fillRect(img, rc, t.HeaderFill)
		strokeRect(img, rc, tableLineWidth, t.Border)
		drawText(img, header, title, rc.Min.X+rc.Dx()/2, rc.Min.Y+rc.Dy()/2, t.Text, Middle, Middle)
	}

	for i, row := range rows {
		texts := [3]string{
			row.Name,
			humanize.Comma(row.Votes),
			fmt.Sprintf("%.2f%%", row.Participation),
		}

		for col, text := range texts {
			rc := cell(col, i+1)
			if rc.Min.Y >= area.Max.Y {
				return
			}

			fillRect(img, rc, t.CellFill)
			strokeRect(img, rc, tableLineWidth, t.Border)

			x, align := rc.Min.X+rc.Dx()/2, Middle
			if col == 0 {
				x, align = rc.Min.X+tableCellPad, Start
			}

			drawText(img, body, text, x, rc.Min.Y+rc.Dy()/2, t.Text, align, Middle)
		}
	}
}
