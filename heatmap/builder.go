package heatmap

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MATRIX BUILDER - Pivot flat entries into a dense ordered matrix
// =============================================================================

// Build pivots entries into a dense matrix:
//
//  1. Columns = ascending union of all entry columns.
//  2. Entries group into rows by RowID.
//  3. Each cell aggregates its entries per the given mode; columns with no
//     entries for a row become the empty marker.
//  4. Row summary = mean of the row's populated, positive cells.
//  5. Rows order descending by summary, ties ascending by RowID.
//
// Aggregation retains full decimal precision; call Matrix.Round for the
// presentation pass.
func Build(entries []Entry, mode Aggregation) Matrix {
	if len(entries) == 0 {
		return Matrix{}
	}

	columns := collectColumns(entries)

	// Group entries by row, preserving first-seen labels.
	type rowGroup struct {
		labels map[string]string
		byCol  map[int][]Entry
	}
	groups := make(map[string]*rowGroup)
	for _, e := range entries {
		g, ok := groups[e.RowID]
		if !ok {
			g = &rowGroup{labels: e.Labels, byCol: make(map[int][]Entry)}
			groups[e.RowID] = g
		}
		g.byCol[e.Column] = append(g.byCol[e.Column], e)
	}

	rows := make([]Row, 0, len(groups))
	for id, g := range groups {
		row := Row{ID: id, Labels: g.labels, Cells: make(map[int]Cell, len(columns))}
		for _, col := range columns {
			cellEntries := g.byCol[col]
			if len(cellEntries) == 0 {
				row.Cells[col] = Cell{} // empty marker
				continue
			}
			row.Cells[col] = Cell{Value: aggregate(cellEntries, mode), Valid: true}
		}
		row.Summary = summarize(row, columns)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Summary.Equal(rows[j].Summary) {
			return rows[i].Summary.GreaterThan(rows[j].Summary)
		}
		return rows[i].ID < rows[j].ID
	})

	return Matrix{Columns: columns, Rows: rows}
}

func collectColumns(entries []Entry) []int {
	seen := make(map[int]struct{})
	for _, e := range entries {
		seen[e.Column] = struct{}{}
	}
	columns := make([]int, 0, len(seen))
	for col := range seen {
		columns = append(columns, col)
	}
	sort.Ints(columns)
	return columns
}

func aggregate(entries []Entry, mode Aggregation) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Value)
	}

	switch mode {
	case AggregateMean:
		return sum.Div(decimal.NewFromInt(int64(len(entries))))

	case AggregateSumPerSubKey:
		subKeys := make(map[int]struct{}, len(entries))
		for _, e := range entries {
			subKeys[e.SubKey] = struct{}{}
		}
		return sum.Div(decimal.NewFromInt(int64(len(subKeys))))

	default:
		return sum
	}
}

// summarize computes the row average over populated, positive cells only.
// Empty markers must never shift the average (a row's summary is its
// "working average", not one diluted by dead hours).
func summarize(row Row, columns []int) decimal.Decimal {
	sum := decimal.Zero
	n := 0
	for _, col := range columns {
		cell := row.Cells[col]
		if !cell.Valid || !cell.Value.IsPositive() {
			continue
		}
		sum = sum.Add(cell.Value)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}

// =============================================================================
// PRESENTATION ROUNDING
// =============================================================================

// Round returns a copy of the matrix with every cell and summary rounded to
// the given number of decimal places, half up. This is the only rounding
// step in the pipeline.
func (m Matrix) Round(places int) Matrix {
	out := Matrix{Columns: m.Columns, Rows: make([]Row, len(m.Rows))}
	for i, row := range m.Rows {
		cells := make(map[int]Cell, len(row.Cells))
		for col, cell := range row.Cells {
			if cell.Valid {
				cell.Value = cell.Value.Round(int32(places))
			}
			cells[col] = cell
		}
		out.Rows[i] = Row{
			ID:      row.ID,
			Labels:  row.Labels,
			Cells:   cells,
			Summary: row.Summary.Round(int32(places)),
		}
	}
	return out
}
