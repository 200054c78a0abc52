/*
Package heatmap provides the generic pivot/matrix engine for productivity reports.

PURPOSE:
  This package contains domain-agnostic types and algorithms for turning a
  flat stream of (row, column, value) entries into a dense, ordered matrix
  suitable for heatmap rendering. Whether the rows are agents and the columns
  days of the month, or teams and hours of the day, the same engine handles
  column-set discovery, gap filling, summary statistics, and ordering.

KEY CONCEPTS IN THIS FILE (types.go):
  - Entry: A single observation contributing to one matrix cell
  - Cell: A matrix cell, either a decimal value or the empty marker
  - Row: A per-group rendering unit with cells and a summary statistic
  - Matrix: The dense pivoted result with its ordered column set

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal end to end; rounding happens only in
     the final presentation pass (Matrix.Round), never during aggregation
  2. Empty != zero: A cell with no observations renders as the empty
     marker, never as zero, so "no activity recorded" stays visually
     distinct from "recorded activity of rate zero"
  3. Determinism: Row and column ordering is fully specified; identical
     input always produces identical output

SEE ALSO:
  - builder.go: The pivot/aggregation algorithm
  - report.go: Sheet-shaped report types consumed by the spreadsheet writer
*/
package heatmap

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATION MODES
// =============================================================================

// Aggregation selects how multiple entries landing in the same cell are
// combined.
type Aggregation int

const (
	// AggregateSum sums all entry values in the cell. Use for raw counts.
	AggregateSum Aggregation = iota

	// AggregateMean averages all entry values in the cell. Use when the
	// entry values are already rates.
	AggregateMean

	// AggregateSumPerSubKey sums all entry values and divides by the number
	// of distinct sub-keys seen in the cell. This is the "per worked hour"
	// day cell: hourly entries under a day column carry the hour as SubKey,
	// and the cell becomes activity_sum / distinct_hour_count.
	AggregateSumPerSubKey
)

// =============================================================================
// ENTRY - One observation feeding the matrix
// =============================================================================

// Entry is a single observation contributing to one matrix cell.
type Entry struct {
	// RowID groups entries into rows and is the ascending tie-break key
	// when two rows have equal summary values.
	RowID string

	// Labels are carried verbatim onto the output row (e.g. DNI, agent
	// name). The first entry seen for a RowID wins.
	Labels map[string]string

	// Column is the numeric column key (day of month or hour of day).
	// Numeric keys guarantee "10" sorts after "9", not before "2".
	Column int

	// SubKey is the finer time bucket beneath Column (the hour under a day
	// column). Only consulted by AggregateSumPerSubKey.
	SubKey int

	Value decimal.Decimal
}

// =============================================================================
// CELL / ROW / MATRIX
// =============================================================================

// Cell is one matrix position. Valid=false is the empty marker: the row had
// no observations for that column.
type Cell struct {
	Value decimal.Decimal
	Valid bool
}

// Row is a per-group rendering unit.
type Row struct {
	ID     string
	Labels map[string]string

	// Cells is keyed by column. Every row in a Matrix has a cell (possibly
	// the empty marker) for every column in Matrix.Columns.
	Cells map[int]Cell

	// Summary is the mean of the row's populated, positive cells. Empty
	// markers and non-positive placeholders never enter the denominator.
	Summary decimal.Decimal
}

// Matrix is the dense pivoted result.
type Matrix struct {
	// Columns is the ascending union of all column keys seen across all
	// input entries.
	Columns []int

	// Rows are ordered descending by Summary, ties ascending by Row.ID.
	Rows []Row
}

// IsEmpty reports whether the matrix has no rows.
func (m Matrix) IsEmpty() bool { return len(m.Rows) == 0 }
