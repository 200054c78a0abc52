/*
service.go - End-to-end report pipeline

FLOW:
  resolve period -> fetch both sources concurrently -> reconcile ->
  build matrices -> assemble ReportSpec

The two fetches are independent (fan-out); Reconcile is the fan-in point.
There are no partial results: both fetches must succeed or the request
aborts with an UpstreamError. Zero productivity rows is not a failure —
it surfaces as a NoDataError naming the period.

The pipeline holds no shared mutable state and is safe to invoke
concurrently for independent requests.
*/
package pdp

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/collecta/pdp-insights/heatmap"
)

// =============================================================================
// SOURCES - The two upstream stores, specified at their boundary
// =============================================================================

// ProductivitySource yields productivity observations for a date range.
// Implementations map raw rows into value objects and must skip malformed
// rows (log and continue) rather than abort the batch.
type ProductivitySource interface {
	Records(ctx context.Context, start, end time.Time) ([]ProductivityObservation, error)
}

// CallTimeSource yields connected-time observations for a date range, with
// the same row tolerance contract.
type CallTimeSource interface {
	Records(ctx context.Context, start, end time.Time) ([]CallTimeObservation, error)
}

// NoCallTimeSource is the stand-in when no call platform is configured:
// every observation reconciles unmatched and the rate columns stay empty.
type NoCallTimeSource struct{}

func (NoCallTimeSource) Records(ctx context.Context, start, end time.Time) ([]CallTimeObservation, error) {
	return nil, nil
}

// =============================================================================
// REPORT CONFIG - Explicit, passed in; never ambient
// =============================================================================

// ReportConfig carries the presentation knobs for one report run.
type ReportConfig struct {
	// RoundPlaces is the presentation rounding for heatmap cells (1 or 2).
	RoundPlaces int

	PDPThresholds        Thresholds
	OperationsThresholds Thresholds
}

// DefaultReportConfig returns the production thresholds.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		RoundPlaces: 1,
		PDPThresholds: Thresholds{
			High:   decimal.NewFromFloat(3.0),
			Medium: decimal.NewFromFloat(2.0),
		},
		OperationsThresholds: Thresholds{
			High:   decimal.NewFromFloat(29),
			Medium: decimal.NewFromFloat(19.33),
		},
	}
}

// =============================================================================
// SERVICE
// =============================================================================

// Service runs the report pipeline against its two sources.
type Service struct {
	productivity ProductivitySource
	calls        CallTimeSource
	log          zerolog.Logger
}

// NewService wires the pipeline. Pass NoCallTimeSource{} when connected-time
// enrichment is unavailable.
func NewService(productivity ProductivitySource, calls CallTimeSource, log zerolog.Logger) *Service {
	return &Service{productivity: productivity, calls: calls, log: log}
}

// ReportResult is the pipeline output plus its summary statistics.
type ReportResult struct {
	Spec         heatmap.ReportSpec
	Period       Period
	TotalRecords int
	UniqueAgents int
}

// GenerateReport runs the full pipeline for a period.
func (s *Service) GenerateReport(ctx context.Context, period Period, cfg ReportConfig) (*ReportResult, error) {
	start, end := period.DateRange()
	s.log.Info().
		Str("period", period.String()).
		Time("start", start).
		Time("end", end).
		Msg("processing productivity data")

	var (
		productivity []ProductivityObservation
		calls        []CallTimeObservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.productivity.Records(gctx, start, end)
		if err != nil {
			return &UpstreamError{Source: "productivity", Err: err}
		}
		productivity = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.calls.Records(gctx, start, end)
		if err != nil {
			return &UpstreamError{Source: "call-time", Err: err}
		}
		calls = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(productivity) == 0 {
		s.log.Warn().Str("period", period.String()).Msg("no productivity data found")
		return nil, &NoDataError{Period: period}
	}
	s.log.Info().
		Int("productivity_records", len(productivity)).
		Int("call_records", len(calls)).
		Msg("fetched source records")

	enriched := Reconcile(productivity, calls, s.log)
	spec := AssembleReport(enriched, cfg)

	agents := make(map[string]struct{}, len(productivity))
	for _, o := range productivity {
		agents[o.AgentKey()] = struct{}{}
	}

	return &ReportResult{
		Spec:         spec,
		Period:       period,
		TotalRecords: len(productivity),
		UniqueAgents: len(agents),
	}, nil
}
