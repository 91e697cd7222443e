// Package formatter builds the markdown participation report.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the alignment of a markdown table column.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// minColumnWidth is the shortest separator markdown renderers accept.
const minColumnWidth = 3

// FormatTable renders a markdown table whose cells are padded to the
// widest display width in each column. Rows shorter than the header are
// padded with empty cells; extra cells are dropped.
func FormatTable(header []string, align []Align, rows [][]string) []string {
	colCount := len(header)
	if colCount == 0 {
		return nil
	}

	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = max(minColumnWidth, runewidth.StringWidth(header[i]))
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(row[i]))
		}
	}

	alignment := func(i int) Align {
		if i < len(align) {
			return align[i]
		}

		return AlignLeft
	}

	line := func(cells []string) string {
		var sb strings.Builder

		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			content := ""
			if j < len(cells) {
				content = strings.TrimSpace(cells[j])
			}

			padding := strings.Repeat(" ", max(0, colWidths[j]-runewidth.StringWidth(content)))

			sb.WriteString(" ")

			if alignment(j) == AlignRight {
				sb.WriteString(padding + content)
			} else {
				sb.WriteString(content + padding)
			}

			sb.WriteString(" |")
		}

		return sb.String()
	}

	result := make([]string, 0, len(rows)+2)
	result = append(result, line(header))

	var sep strings.Builder

	sep.WriteString("|")

	for j, w := range colWidths {
		if alignment(j) == AlignRight {
			sep.WriteString(" " + strings.Repeat("-", w-1) + ": |")
		} else {
			sep.WriteString(" " + strings.Repeat("-", w) + " |")
		}
	}

	result = append(result, sep.String())

	for _, row := range rows {
		result = append(result, line(row))
	}

	return result
}
