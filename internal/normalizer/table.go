package normalizer

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"consulta/internal/models"
)

// Metrics a table column can expose.
const (
	MetricParticipation = "participation"
	MetricVotes         = "votes"
)

// ErrUnknownMetric is returned for a column name the table does not carry.
var ErrUnknownMetric = errors.New("unknown metric")

// Row is the tabulated data of one region.
type Row struct {
	Name          string
	Responses     []models.ResponseShare
	Votes         int64
	Participation float64
}

// Table maps normalized region names to their rows, keeping first-seen order.
type Table struct {
	rows       map[string]Row
	order      []string
	collisions []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]Row)}
}

// Put stores row under row.Name. A repeated name overwrites the earlier row
// and is recorded as a collision.
func (t *Table) Put(row Row) {
	if _, exists := t.rows[row.Name]; exists {
		t.collisions = append(t.collisions, row.Name)
	} else {
		t.order = append(t.order, row.Name)
	}

	t.rows[row.Name] = row
}

// Get looks up a row by normalized name.
func (t *Table) Get(name string) (Row, bool) {
	row, ok := t.rows[name]
	return row, ok
}

// Len returns the number of distinct regions.
func (t *Table) Len() int {
	return len(t.order)
}

// Names returns region names in first-seen order.
func (t *Table) Names() []string {
	return slices.Clone(t.order)
}

// Rows returns all rows in first-seen order.
func (t *Table) Rows() []Row {
	rows := make([]Row, 0, len(t.order))
	for _, name := range t.order {
		rows = append(rows, t.rows[name])
	}

	return rows
}

// ByParticipation returns rows sorted by participation, highest first.
// Ties keep first-seen order.
func (t *Table) ByParticipation() []Row {
	rows := t.Rows()
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(b.Participation, a.Participation)
	})

	return rows
}

// Collisions lists names that were written more than once.
func (t *Table) Collisions() []string {
	return slices.Clone(t.collisions)
}

// Column is one numeric field of a table, looked up by region name.
type Column struct {
	table  *Table
	metric string
}

// Column returns the named numeric column.
func (t *Table) Column(metric string) (Column, error) {
	switch metric {
	case MetricParticipation, MetricVotes:
		return Column{table: t, metric: metric}, nil
	default:
		return Column{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// Value returns the column value for name.
func (c Column) Value(name string) (float64, bool) {
	row, ok := c.table.Get(name)
	if !ok {
		return 0, false
	}

	if c.metric == MetricVotes {
		return float64(row.Votes), true
	}

	return row.Participation, true
}
