/*
Package excel renders a heatmap.ReportSpec into an .xlsx workbook.

PURPOSE:
  The only physical output format in scope. Consumes the format-independent
  ReportSpec and produces a file: one tab per sheet, styled header row,
  autofilter on tabular sheets, and three-bucket fills on heatmap sheets.

COLORING:
  High productivity reads green, medium yellow, low red; cells that are
  empty or non-numeric stay neutral. Bucket cutoffs come from each sheet's
  Coloring directive; this package never decides thresholds.

FILENAMES:
  <prefix>_<timestamp>_<short-uuid>.xlsx under the configured output
  directory. The uuid suffix keeps concurrent requests from clobbering
  each other within the same second.
*/
package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/collecta/pdp-insights/heatmap"
)

// =============================================================================
// STYLES
// =============================================================================

const (
	colorHigh   = "63BE7B" // green
	colorMedium = "FFEB84" // yellow
	colorLow    = "F8696B" // red
	colorHeader = "366092" // dark blue, white bold text
	maxColWidth = 50
	minColWidth = 8
)

// Writer renders report specs to .xlsx files in the output directory.
type Writer struct {
	outputDir string
	log       zerolog.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(outputDir string, log zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{outputDir: outputDir, log: log}, nil
}

// Write renders the report and returns the generated file's base name.
func (w *Writer) Write(spec heatmap.ReportSpec, prefix string) (string, error) {
	w.log.Info().Int("sheets", len(spec.Sheets)).Msg("generating excel report")

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return "", fmt.Errorf("failed to create styles: %w", err)
	}

	for _, sheet := range spec.Sheets {
		if err := w.writeSheet(f, sheet, styles); err != nil {
			return "", fmt.Errorf("failed to write sheet %q: %w", sheet.Name, err)
		}
	}
	// The workbook starts with a default sheet we never asked for.
	if len(spec.Sheets) > 0 {
		f.DeleteSheet("Sheet1")
	}

	filename := fmt.Sprintf("%s_%s_%s.xlsx",
		prefix, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(w.outputDir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	w.log.Info().Str("file", filename).Msg("excel report generated")
	return filename, nil
}

type styleSet struct {
	header int
	high   int
	medium int
	low    int
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
	})
	if err != nil {
		return s, err
	}
	for _, bucket := range []struct {
		color string
		dst   *int
	}{
		{colorHigh, &s.high},
		{colorMedium, &s.medium},
		{colorLow, &s.low},
	} {
		*bucket.dst, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{bucket.color}, Pattern: 1},
		})
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func (w *Writer) writeSheet(f *excelize.File, sheet heatmap.Sheet, styles styleSet) error {
	if _, err := f.NewSheet(sheet.Name); err != nil {
		return err
	}

	// Header row
	header := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", lastCol, styles.header); err != nil {
		return err
	}

	// Data rows
	for rowIdx, row := range sheet.Rows {
		values := make([]any, len(sheet.Headers))
		for colIdx, h := range sheet.Headers {
			values[colIdx] = cellValue(row[h])
		}
		start, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, start, &values); err != nil {
			return err
		}
	}

	if sheet.Coloring != nil {
		if err := applyColoring(f, sheet, styles); err != nil {
			return err
		}
	}
	if sheet.ApplyFilters && len(sheet.Rows) > 0 {
		dataEnd, err := excelize.CoordinatesToCellName(len(sheet.Headers), len(sheet.Rows)+1)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(sheet.Name, "A1:"+dataEnd, nil); err != nil {
			return err
		}
		if err := f.SetPanes(sheet.Name, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return err
		}
	}

	return fitColumns(f, sheet)
}

// applyColoring paints the three-bucket fills over the sheet's value
// columns. Empty and non-numeric cells keep the neutral default.
func applyColoring(f *excelize.File, sheet heatmap.Sheet, styles styleSet) error {
	colorable := make(map[string]bool, len(sheet.Coloring.ValueColumns))
	for _, h := range sheet.Coloring.ValueColumns {
		colorable[h] = true
	}

	for rowIdx, row := range sheet.Rows {
		for colIdx, h := range sheet.Headers {
			if !colorable[h] {
				continue
			}
			value, ok := numericValue(row[h])
			if !ok {
				continue
			}
			style, ok := bucketStyle(value, *sheet.Coloring, styles)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func bucketStyle(value decimal.Decimal, c heatmap.Coloring, styles styleSet) (int, bool) {
	switch {
	case value.GreaterThanOrEqual(c.High):
		return styles.high, true
	case value.GreaterThanOrEqual(c.Low):
		return styles.medium, true
	case value.IsPositive():
		return styles.low, true
	default:
		return 0, false
	}
}

func cellValue(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		value, _ := d.Float64()
		return value
	}
	return v
}

func numericValue(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case decimal.Decimal:
		return value, true
	case int:
		return decimal.NewFromInt(int64(value)), true
	default:
		return decimal.Decimal{}, false
	}
}

// fitColumns widens each column to its longest rendered value, clamped to
// a sane range.
func fitColumns(f *excelize.File, sheet heatmap.Sheet) error {
	for colIdx, h := range sheet.Headers {
		width := len(h)
		for _, row := range sheet.Rows {
			if l := len(fmt.Sprint(cellValue(row[h]))); l > width {
				width = l
			}
		}
		adjusted := float64(width)*1.1 + 2
		if adjusted > maxColWidth {
			adjusted = maxColWidth
		}
		if adjusted < minColWidth {
			adjusted = minColWidth
		}
		name, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, adjusted); err != nil {
			return err
		}
	}
	return nil
}
