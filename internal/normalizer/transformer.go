package normalizer

import (
	"consulta/internal/models"
)

// Transformer turns region records into a keyed table.
type Transformer struct {
	names *Names
}

// NewTransformer creates a transformer using the given name normalizer.
func NewTransformer(names *Names) *Transformer {
	return &Transformer{names: names}
}

// Tabulate builds the region table. Later records win on name collisions.
func (t *Transformer) Tabulate(regions []models.RegionRecord) *Table {
	table := NewTable()

	for _, r := range regions {
		table.Put(Row{
			Name:          t.names.Normalize(r.RawName),
			Participation: r.Participation,
			Votes:         r.TotalVotes,
			Responses:     r.Responses,
		})
	}

	return table
}
