package formatter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// ReportRow is one region of the report.
type ReportRow struct {
	Name          string
	Votes         int64
	Participation float64
}

// Report is the markdown summary of one dataset.
type Report struct {
	Title      string
	Summary    string
	Rows       []ReportRow
	Collisions []string
}

// Markdown renders the report. Rows keep their given order.
func (r Report) Markdown() string {
	var b strings.Builder

	if r.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", r.Title)
	}

	if r.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Summary)
	}

	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = []string{
			row.Name,
			humanize.Comma(row.Votes),
			fmt.Sprintf("%.2f%%", row.Participation),
		}
	}

	table := FormatTable(
		[]string{"Entidad", "Votos", "Participación"},
		[]Align{AlignLeft, AlignRight, AlignRight},
		rows,
	)
	b.WriteString(strings.Join(table, "\n"))
	b.WriteString("\n")

	if len(r.Collisions) > 0 {
		b.WriteString("\n## Nombres repetidos\n\n")

		for _, name := range r.Collisions {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	return b.String()
}
