/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the domain
  model from the external contract.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response types returned to clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import "math"

// ProcessRequest asks for the report covering the month containing
// ReferenceDate.
type ProcessRequest struct {
	ReferenceDate string `json:"reference_date"` // YYYY-MM-DD
}

// ProcessResponse summarizes a report run.
type ProcessResponse struct {
	TotalRecords          int      `json:"total_records"`
	UniqueAgents          int      `json:"unique_agents"`
	ExcelFile             string   `json:"excel_file_path"`
	ProcessingTimeSeconds float64  `json:"processing_time_seconds"`
	Period                string   `json:"period"`
	Errors                []string `json:"errors"`
}

// EmptyProcessResponse is the no-data result: an answer, not an error.
func EmptyProcessResponse(period string, elapsed float64, reason string) ProcessResponse {
	return ProcessResponse{
		Period:                period,
		ProcessingTimeSeconds: roundSeconds(elapsed),
		Errors:                []string{reason},
	}
}

// CleanupResponse acknowledges a scheduled file deletion.
type CleanupResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// ErrorResponse is the uniform failure body. Reason is user-readable; it
// never carries stack traces or internals.
type ErrorResponse struct {
	Error string `json:"error"`
}

func roundSeconds(s float64) float64 {
	return math.Round(s*100) / 100
}
