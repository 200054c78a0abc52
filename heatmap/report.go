package heatmap

import "github.com/shopspring/decimal"

// =============================================================================
// REPORT SPEC - Sheet-shaped output consumed by the spreadsheet writer
// =============================================================================

// Coloring is the three-bucket heatmap directive for a sheet:
//
//	value >= High            -> "high" style
//	value >= Low and < High  -> "medium" style
//	value > 0 and < Low      -> "low" style
//	empty / non-numeric      -> "neutral" style
type Coloring struct {
	// ValueColumns names the headers the buckets apply to (the day/hour
	// columns plus the summary column).
	ValueColumns []string

	Low  decimal.Decimal
	High decimal.Decimal
}

// Sheet is one named tab of the report: ordered headers plus ordered row
// mappings. Values are strings, ints, or decimals; the writer decides how
// each renders.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []map[string]any

	// ApplyFilters asks the writer for an autofilter over the data range.
	ApplyFilters bool

	// Coloring is nil for plain tabular sheets.
	Coloring *Coloring
}

// ReportSpec is the complete, format-independent report: an ordered list of
// sheets. The physical spreadsheet writer is the only consumer.
type ReportSpec struct {
	Sheets []Sheet
}
