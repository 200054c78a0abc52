/*
handlers.go - HTTP handlers for the PDP report service

ENDPOINTS:
  POST   /api/pdp/process             Run the report for a reference date
  GET    /api/pdp/download/{filename} Serve a generated workbook
  DELETE /api/pdp/cleanup/{filename}  Schedule workbook deletion
  GET    /api/health                  Liveness probe

REQUEST FLOW:
  1. Parse and validate input
  2. Call the pipeline service
  3. Hand the ReportSpec to the spreadsheet writer
  4. Serialize response

ERROR HANDLING:
  - 400: invalid reference date / filename
  - 404: file not found
  - 200 + errors[]: no data for the period (an answer, not a failure)
  - 502: upstream source fetch failed ("failed to process", cause included,
         no internals leaked)
  - 500: anything else

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/collecta/pdp-insights/heatmap"
	"github.com/collecta/pdp-insights/pdp"
)

// ReportGenerator is the pipeline surface the handlers need.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, period pdp.Period, cfg pdp.ReportConfig) (*pdp.ReportResult, error)
}

// ReportWriter renders a spec to a file and returns its base name.
type ReportWriter interface {
	Write(spec heatmap.ReportSpec, prefix string) (string, error)
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	service   ReportGenerator
	writer    ReportWriter
	outputDir string
	reportCfg pdp.ReportConfig
	log       zerolog.Logger
}

// NewHandler wires the handler dependencies.
func NewHandler(service ReportGenerator, writer ReportWriter, outputDir string, reportCfg pdp.ReportConfig, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		writer:    writer,
		outputDir: outputDir,
		reportCfg: reportCfg,
		log:       log,
	}
}

// =============================================================================
// PROCESS
// =============================================================================

// ProcessPDP runs the report pipeline for the month containing the
// reference date.
func (h *Handler) ProcessPDP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	refDate, err := time.ParseInLocation("2006-01-02", req.ReferenceDate, time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reference_date must be YYYY-MM-DD")
		return
	}
	period, err := pdp.PeriodFromDate(refDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.log.Info().Str("period", period.String()).Msg("processing pdp report request")

	result, err := h.service.GenerateReport(r.Context(), period, h.reportCfg)
	if err != nil {
		h.writeProcessError(w, period, started, err)
		return
	}

	filename, err := h.writer.Write(result.Spec, "pdp_report")
	if err != nil {
		h.log.Error().Err(err).Msg("excel generation failed")
		writeError(w, http.StatusInternalServerError, "failed to generate report file")
		return
	}

	writeJSON(w, http.StatusOK, ProcessResponse{
		TotalRecords:          result.TotalRecords,
		UniqueAgents:          result.UniqueAgents,
		ExcelFile:             filename,
		ProcessingTimeSeconds: roundSeconds(time.Since(started).Seconds()),
		Period:                result.Period.String(),
		Errors:                []string{},
	})
}

func (h *Handler) writeProcessError(w http.ResponseWriter, period pdp.Period, started time.Time, err error) {
	var upstream *pdp.UpstreamError
	switch {
	case errors.Is(err, pdp.ErrNoData):
		h.log.Warn().Str("period", period.String()).Msg("no data for requested period")
		writeJSON(w, http.StatusOK, EmptyProcessResponse(
			period.String(), time.Since(started).Seconds(), err.Error()))

	case errors.As(err, &upstream):
		h.log.Error().Err(err).Str("source", upstream.Source).Msg("upstream fetch failed")
		writeError(w, http.StatusBadGateway,
			"failed to process productivity data: "+upstream.Source+" source unavailable")

	default:
		h.log.Error().Err(err).Msg("report generation failed")
		writeError(w, http.StatusInternalServerError, "failed to process productivity data")
	}
}

// =============================================================================
// DOWNLOAD / CLEANUP
// =============================================================================

// DownloadReport serves a previously generated workbook.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolveFile(w, chi.URLParam(r, "filename"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

// CleanupReport schedules deletion of a generated workbook.
func (h *Handler) CleanupReport(w http.ResponseWriter, r *http.Request) {
	path, ok := h.resolveFile(w, chi.URLParam(r, "filename"))
	if !ok {
		return
	}

	go func() {
		if err := os.Remove(path); err != nil {
			h.log.Warn().Err(err).Str("file", path).Msg("file cleanup failed")
			return
		}
		h.log.Info().Str("file", filepath.Base(path)).Msg("report file deleted")
	}()

	writeJSON(w, http.StatusOK, CleanupResponse{
		Message:  "File cleanup scheduled",
		Filename: filepath.Base(path),
	})
}

// resolveFile validates the filename and checks existence. Rejects anything
// that could escape the output directory.
func (h *Handler) resolveFile(w http.ResponseWriter, filename string) (string, bool) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		writeError(w, http.StatusBadRequest, "invalid filename")
		return "", false
	}
	path := filepath.Join(h.outputDir, filename)
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return "", false
	}
	return path, true
}

// =============================================================================
// HEALTH
// =============================================================================

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
