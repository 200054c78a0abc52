package pdp_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collecta/pdp-insights/pdp"
)

func enrich(obs []pdp.ProductivityObservation, calls []pdp.CallTimeObservation) []pdp.EnrichedObservation {
	return pdp.Reconcile(obs, calls, zerolog.Nop())
}

func prodObsAgent(t *testing.T, id, name, email string, day time.Time, hour, pdpCount int) pdp.ProductivityObservation {
	t.Helper()
	obs := validObservation()
	obs.AgentID = id
	obs.AgentName = name
	obs.AgentEmail = email
	obs.Date = day
	obs.Hour = hour
	obs.PDPCount = pdpCount
	built, err := pdp.NewProductivityObservation(obs)
	require.NoError(t, err)
	return built
}

// =============================================================================
// SHEET LAYOUT TESTS
// =============================================================================

func TestAssembleReport_SheetOrderAndNames(t *testing.T) {
	day := date(2025, time.May, 14)
	enriched := enrich([]pdp.ProductivityObservation{
		prodObs(t, "maria.quispe@collecta.pe", day, 9, 3),
	}, nil)

	spec := pdp.AssembleReport(enriched, pdp.DefaultReportConfig())

	require.Len(t, spec.Sheets, 3)
	assert.Equal(t, pdp.SheetDetail, spec.Sheets[0].Name)
	assert.Equal(t, pdp.SheetPDPPerHour, spec.Sheets[1].Name)
	assert.Equal(t, pdp.SheetOpsPerHour, spec.Sheets[2].Name)

	assert.True(t, spec.Sheets[0].ApplyFilters)
	assert.Nil(t, spec.Sheets[0].Coloring)
	require.NotNil(t, spec.Sheets[1].Coloring)
	require.NotNil(t, spec.Sheets[2].Coloring)
}

func TestAssembleReport_ColoringThresholds(t *testing.T) {
	day := date(2025, time.May, 14)
	enriched := enrich([]pdp.ProductivityObservation{
		prodObs(t, "maria.quispe@collecta.pe", day, 9, 3),
	}, nil)

	spec := pdp.AssembleReport(enriched, pdp.DefaultReportConfig())

	pdpColoring := spec.Sheets[1].Coloring
	assert.True(t, pdpColoring.High.Equal(decimal.NewFromFloat(3.0)))
	assert.True(t, pdpColoring.Low.Equal(decimal.NewFromFloat(2.0)))

	opsColoring := spec.Sheets[2].Coloring
	assert.True(t, opsColoring.High.Equal(decimal.NewFromFloat(29)))
	assert.True(t, opsColoring.Low.Equal(decimal.NewFromFloat(19.33)))

	// The buckets cover every day column plus the summary column.
	assert.Contains(t, pdpColoring.ValueColumns, "14")
	assert.Contains(t, pdpColoring.ValueColumns, pdp.HeaderAverage)
	assert.NotContains(t, pdpColoring.ValueColumns, pdp.HeaderDNI)
}

// =============================================================================
// DETAIL SHEET TESTS
// =============================================================================

func TestAssembleReport_DetailSortedAndFormatted(t *testing.T) {
	// Rows must order by (date, hour, agent id) for auditable output.
	may14, may15 := date(2025, time.May, 14), date(2025, time.May, 15)

	a := prodObs(t, "maria.quispe@collecta.pe", may15, 9, 1)
	b := prodObs(t, "maria.quispe@collecta.pe", may14, 16, 2)
	c := prodObs(t, "maria.quispe@collecta.pe", may14, 8, 3)

	spec := pdp.AssembleReport(enrich([]pdp.ProductivityObservation{a, b, c}, nil), pdp.DefaultReportConfig())
	detail := spec.Sheets[0]
	require.Len(t, detail.Rows, 3)

	assert.Equal(t, "2025-05-14", detail.Rows[0][pdp.HeaderDate])
	assert.Equal(t, "08:00", detail.Rows[0][pdp.HeaderHour])
	assert.Equal(t, "16:00", detail.Rows[1][pdp.HeaderHour])
	assert.Equal(t, "2025-05-15", detail.Rows[2][pdp.HeaderDate])
}

func TestAssembleReport_DetailConnectedTimeColumns(t *testing.T) {
	day := date(2025, time.May, 14)
	matched := prodObsAgent(t, "44556677", "Maria Quispe", "maria.quispe@collecta.pe", day, 9, 18)
	unmatched := prodObsAgent(t, "70112233", "Jorge Flores", "jorge.flores@collecta.pe", day, 10, 4)

	enriched := enrich(
		[]pdp.ProductivityObservation{matched, unmatched},
		[]pdp.CallTimeObservation{callObs(t, "maria.quispe@collecta.pe", day, 1800)},
	)
	spec := pdp.AssembleReport(enriched, pdp.DefaultReportConfig())
	detail := spec.Sheets[0]
	require.Len(t, detail.Rows, 2)

	// Matched row carries seconds and the per-connected-hour rate.
	assert.Equal(t, 1800, detail.Rows[0][pdp.HeaderConnectedTime])
	rate, ok := detail.Rows[0][pdp.HeaderRate].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(36)), "got %s", rate)

	// Unmatched row renders both columns empty, not zero.
	assert.Equal(t, "", detail.Rows[1][pdp.HeaderConnectedTime])
	assert.Equal(t, "", detail.Rows[1][pdp.HeaderRate])
}

// =============================================================================
// HEATMAP SHEET TESTS
// =============================================================================

func TestAssembleReport_HeatmapPerWorkedHour(t *testing.T) {
	// 3 promises in each of two worked hours on day 14 -> day cell 3.0
	day := date(2025, time.May, 14)
	enriched := enrich([]pdp.ProductivityObservation{
		prodObs(t, "maria.quispe@collecta.pe", day, 9, 3),
		prodObs(t, "maria.quispe@collecta.pe", day, 10, 3),
	}, nil)

	spec := pdp.AssembleReport(enriched, pdp.DefaultReportConfig())
	sheet := spec.Sheets[1]
	require.Len(t, sheet.Rows, 1)

	cell, ok := sheet.Rows[0]["14"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, cell.Equal(decimal.NewFromInt(3)), "got %s", cell)
	assert.Equal(t, "44556677", sheet.Rows[0][pdp.HeaderDNI])
	assert.Equal(t, "Maria Quispe", sheet.Rows[0][pdp.HeaderExecutive])
}

func TestAssembleReport_HeatmapGapRendersEmptyString(t *testing.T) {
	may14, may16 := date(2025, time.May, 14), date(2025, time.May, 16)
	enriched := enrich([]pdp.ProductivityObservation{
		prodObsAgent(t, "44556677", "Maria Quispe", "maria.quispe@collecta.pe", may14, 9, 3),
		prodObsAgent(t, "70112233", "Jorge Flores", "jorge.flores@collecta.pe", may14, 9, 2),
		prodObsAgent(t, "70112233", "Jorge Flores", "jorge.flores@collecta.pe", may16, 9, 2),
	}, nil)

	spec := pdp.AssembleReport(enriched, pdp.DefaultReportConfig())
	sheet := spec.Sheets[1]

	assert.Equal(t, append([]string{pdp.HeaderDNI, pdp.HeaderExecutive}, "14", "16", pdp.HeaderAverage), sheet.Headers)

	for _, row := range sheet.Rows {
		if row[pdp.HeaderExecutive] == "Maria Quispe" {
			assert.Equal(t, "", row["16"], "missing day renders as the empty marker")
		}
	}
}
