/*
report.go - Assemble enriched observations into the sheet-shaped report

SHEETS:
  DETALLE              flat audit table, one row per agent-hour bucket,
                       sorted by (date, hour, DNI)
  PDP por Hora         agent x day heatmap of promises per worked hour
  Operaciones por Hora agent x day heatmap of operations per worked hour

Headers keep the business's reporting vocabulary (the report is read by a
Spanish-speaking operation).

This file performs no I/O; the spreadsheet writer consumes the ReportSpec.
*/
package pdp

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/collecta/pdp-insights/heatmap"
)

// =============================================================================
// REPORT HEADERS
// =============================================================================

const (
	HeaderDate              = "Fecha"
	HeaderHour              = "Hora"
	HeaderDNI               = "DNI"
	HeaderAgentName         = "Nombre Agente"
	HeaderTotalOperations   = "Total Gestiones"
	HeaderEffectiveContacts = "Contactos Efectivos"
	HeaderNoContacts        = "No Contactos"
	HeaderNonEffective      = "Contactos No Efectivos"
	HeaderPDPCount          = "Cantidad PDP"
	HeaderConnectedTime     = "Tiempo Conectado"
	HeaderRate              = "PDP por Hora Conectada"
	HeaderExecutive         = "EJECUTIVO"
	HeaderAverage           = "Promedio"

	SheetDetail     = "DETALLE"
	SheetPDPPerHour = "PDP por Hora"
	SheetOpsPerHour = "Operaciones por Hora"
)

// Thresholds are the high/medium cutoffs for a heatmap's three buckets.
type Thresholds struct {
	High   decimal.Decimal
	Medium decimal.Decimal
}

// =============================================================================
// ASSEMBLER
// =============================================================================

// AssembleReport builds the full ReportSpec: the DETALLE audit sheet plus
// the two agent x day heatmaps, rounded for presentation.
func AssembleReport(observations []EnrichedObservation, cfg ReportConfig) heatmap.ReportSpec {
	pdpMatrix := buildDayMatrix(observations, func(o EnrichedObservation) int { return o.PDPCount }).
		Round(cfg.RoundPlaces)
	opsMatrix := buildDayMatrix(observations, func(o EnrichedObservation) int { return o.TotalOperations }).
		Round(cfg.RoundPlaces)

	return heatmap.ReportSpec{
		Sheets: []heatmap.Sheet{
			detailSheet(observations),
			heatmapSheet(SheetPDPPerHour, pdpMatrix, cfg.PDPThresholds),
			heatmapSheet(SheetOpsPerHour, opsMatrix, cfg.OperationsThresholds),
		},
	}
}

// buildDayMatrix pivots hourly observations into an agent x day-of-month
// matrix. Each day cell is metric_sum / distinct_hours_worked, so an agent
// who logged 12 promises across 4 worked hours shows 3, not 12.
func buildDayMatrix(observations []EnrichedObservation, metric func(EnrichedObservation) int) heatmap.Matrix {
	entries := make([]heatmap.Entry, 0, len(observations))
	for _, o := range observations {
		entries = append(entries, heatmap.Entry{
			RowID: o.AgentKey(),
			Labels: map[string]string{
				HeaderDNI:       o.AgentID,
				HeaderExecutive: o.AgentName,
			},
			Column: o.Date.Day(),
			SubKey: o.Hour,
			Value:  decimal.NewFromInt(int64(metric(o))),
		})
	}
	return heatmap.Build(entries, heatmap.AggregateSumPerSubKey)
}

func heatmapSheet(name string, matrix heatmap.Matrix, t Thresholds) heatmap.Sheet {
	headers := []string{HeaderDNI, HeaderExecutive}
	valueColumns := make([]string, 0, len(matrix.Columns)+1)
	for _, day := range matrix.Columns {
		col := strconv.Itoa(day)
		headers = append(headers, col)
		valueColumns = append(valueColumns, col)
	}
	headers = append(headers, HeaderAverage)
	valueColumns = append(valueColumns, HeaderAverage)

	rows := make([]map[string]any, 0, len(matrix.Rows))
	for _, r := range matrix.Rows {
		row := map[string]any{
			HeaderDNI:       r.Labels[HeaderDNI],
			HeaderExecutive: r.Labels[HeaderExecutive],
			HeaderAverage:   r.Summary,
		}
		for _, day := range matrix.Columns {
			cell := r.Cells[day]
			if cell.Valid {
				row[strconv.Itoa(day)] = cell.Value
			} else {
				row[strconv.Itoa(day)] = "" // empty marker, not zero
			}
		}
		rows = append(rows, row)
	}

	return heatmap.Sheet{
		Name:    name,
		Headers: headers,
		Rows:    rows,
		Coloring: &heatmap.Coloring{
			ValueColumns: valueColumns,
			Low:          t.Medium,
			High:         t.High,
		},
	}
}

func detailSheet(observations []EnrichedObservation) heatmap.Sheet {
	sorted := make([]EnrichedObservation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		return a.AgentID < b.AgentID
	})

	rows := make([]map[string]any, 0, len(sorted))
	for _, o := range sorted {
		row := map[string]any{
			HeaderDate:              o.Date.Format("2006-01-02"),
			HeaderHour:              fmt.Sprintf("%02d:00", o.Hour),
			HeaderDNI:               o.AgentID,
			HeaderAgentName:         o.AgentName,
			HeaderTotalOperations:   o.TotalOperations,
			HeaderEffectiveContacts: o.EffectiveContacts,
			HeaderNoContacts:        o.NoContacts,
			HeaderNonEffective:      o.NonEffectiveContacts,
			HeaderPDPCount:          o.PDPCount,
			HeaderConnectedTime:     "",
			HeaderRate:              "",
		}
		if o.ConnectedSeconds != nil {
			row[HeaderConnectedTime] = int(*o.ConnectedSeconds)
			row[HeaderRate] = o.Rate.Round(2)
		}
		rows = append(rows, row)
	}

	return heatmap.Sheet{
		Name: SheetDetail,
		Headers: []string{
			HeaderDate, HeaderHour, HeaderDNI, HeaderAgentName,
			HeaderTotalOperations, HeaderEffectiveContacts, HeaderNoContacts,
			HeaderNonEffective, HeaderPDPCount, HeaderConnectedTime, HeaderRate,
		},
		Rows:         rows,
		ApplyFilters: true,
	}
}
