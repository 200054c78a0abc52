package excel_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/collecta/pdp-insights/excel"
	"github.com/collecta/pdp-insights/heatmap"
)

func testSpec() heatmap.ReportSpec {
	return heatmap.ReportSpec{
		Sheets: []heatmap.Sheet{
			{
				Name:    "DETALLE",
				Headers: []string{"DNI", "Cantidad PDP"},
				Rows: []map[string]any{
					{"DNI": "44556677", "Cantidad PDP": 5},
					{"DNI": "70112233", "Cantidad PDP": 2},
				},
				ApplyFilters: true,
			},
			{
				Name:    "PDP por Hora",
				Headers: []string{"DNI", "14", "Promedio"},
				Rows: []map[string]any{
					{"DNI": "44556677", "14": decimal.NewFromFloat(3.5), "Promedio": decimal.NewFromFloat(3.5)},
					{"DNI": "70112233", "14": "", "Promedio": decimal.Zero},
				},
				Coloring: &heatmap.Coloring{
					ValueColumns: []string{"14", "Promedio"},
					Low:          decimal.NewFromFloat(2.0),
					High:         decimal.NewFromFloat(3.0),
				},
			},
		},
	}
}

func TestWriter_WriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	writer, err := excel.NewWriter(dir, zerolog.Nop())
	require.NoError(t, err)

	filename, err := writer.Write(testSpec(), "pdp_report")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "pdp_report_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	f, err := excelize.OpenFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"DETALLE", "PDP por Hora"}, f.GetSheetList())

	// header row
	got, err := f.GetCellValue("DETALLE", "A1")
	require.NoError(t, err)
	assert.Equal(t, "DNI", got)

	// data row, ordered per spec
	got, err = f.GetCellValue("DETALLE", "B2")
	require.NoError(t, err)
	assert.Equal(t, "5", got)

	// heatmap value cell
	got, err = f.GetCellValue("PDP por Hora", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3.5", got)

	// empty marker stays empty, not zero
	got, err = f.GetCellValue("PDP por Hora", "B3")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestWriter_UniqueFilenames(t *testing.T) {
	dir := t.TempDir()
	writer, err := excel.NewWriter(dir, zerolog.Nop())
	require.NoError(t, err)

	first, err := writer.Write(testSpec(), "pdp_report")
	require.NoError(t, err)
	second, err := writer.Write(testSpec(), "pdp_report")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
