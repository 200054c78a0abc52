/*
Package pdp implements the payment-promise (PDP) productivity domain.

PURPOSE:
  Call-center agents log payment promises (promesas de pago) while working
  the dialer. This package models the two observation streams the report is
  built from, reconciles them, derives the normalized productivity rate, and
  assembles the final multi-sheet report spec.

PIPELINE:
  ProductivityObservation + CallTimeObservation
      -> Reconcile (join by agent+date, apportion connected time)
      -> EnrichedObservation (rate = PDP per connected hour)
      -> heatmap.Build (agent x day matrices)
      -> AssembleReport (sheet-shaped ReportSpec)

KEY CONCEPTS IN THIS FILE (types.go):
  - Email: validated agent identity with normalized and API-safe forms
  - Period: a (year, month) pair with its inclusive date range
  - ProductivityObservation: one agent-hour bucket of dialer activity
  - CallTimeObservation: one agent-day connected-time total
  - EnrichedObservation: productivity + apportioned connected time + rate

DESIGN PRINCIPLES:
  1. Immutability: observations are never mutated after construction;
     enrichment builds new values
  2. Validation at the boundary: constructors reject malformed input so the
     reconciler and matrix builder never see an invalid observation
  3. Precision: rates are decimal.Decimal, rounded only at presentation

SEE ALSO:
  - reconcile.go: Join and apportionment algorithm
  - rate.go: Rate derivation
  - report.go: Sheet assembly
  - service.go: The end-to-end pipeline entry point
*/
package pdp

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NoIdentifier is the sentinel the warehouse emits when an agent record has
// no verified identity document. Agents carrying it are kept distinct by a
// composite key with their display name.
const NoIdentifier = "no identifier"

// =============================================================================
// EMAIL - Validated agent identity
// =============================================================================

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email wraps a validated email-shaped agent identity.
// Equality on the raw value is case-sensitive; reconciliation must always
// compare via Normalized.
type Email struct {
	value string
}

// NewEmail validates and wraps an email address.
func NewEmail(value string) (Email, error) {
	if value == "" {
		return Email{}, &ValidationError{Field: "email", Reason: "cannot be empty"}
	}
	if !emailPattern.MatchString(value) {
		return Email{}, &ValidationError{Field: "email", Reason: fmt.Sprintf("invalid format: %s", value)}
	}
	return Email{value: value}, nil
}

// String returns the raw value as constructed.
func (e Email) String() string { return e.value }

// Normalized returns the lowercase form used for joins.
func (e Email) Normalized() string { return strings.ToLower(e.value) }

// APIFormat returns the normalized form with "@" replaced by "_", as
// required by the call-platform API.
func (e Email) APIFormat() string { return strings.ReplaceAll(e.Normalized(), "@", "_") }

// Domain returns the part after the "@".
func (e Email) Domain() string {
	at := strings.Index(e.value, "@")
	return e.value[at+1:]
}

// IsZero reports whether the email was never constructed.
func (e Email) IsZero() bool { return e.value == "" }

// =============================================================================
// PERIOD - Calendar month, the unit of report granularity
// =============================================================================

// Period is a (year, month) pair.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod validates year and month bounds.
func NewPeriod(year int, month time.Month) (Period, error) {
	if year < 2020 || year > 2100 {
		return Period{}, &ValidationError{Field: "period", Reason: fmt.Sprintf("invalid year: %d", year)}
	}
	if month < time.January || month > time.December {
		return Period{}, &ValidationError{Field: "period", Reason: fmt.Sprintf("invalid month: %d", month)}
	}
	return Period{Year: year, Month: month}, nil
}

// PeriodFromDate returns the period containing the given date.
func PeriodFromDate(date time.Time) (Period, error) {
	return NewPeriod(date.Year(), date.Month())
}

// DateRange returns the inclusive [first day, last day] of the month.
// Month and year rollover (December, leap February) fall out of time.Date
// normalization.
func (p Period) DateRange() (start, end time.Time) {
	start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// String renders "2025-5" style labels, matching the report response format.
func (p Period) String() string { return fmt.Sprintf("%d-%d", p.Year, int(p.Month)) }

// =============================================================================
// PRODUCTIVITY OBSERVATION - One agent-hour bucket of dialer activity
// =============================================================================

// ProductivityObservation is a single agent-hour productivity record from
// the warehouse. Immutable after construction.
type ProductivityObservation struct {
	AgentID   string // DNI, or the NoIdentifier sentinel
	AgentName string

	// AgentEmail is the raw identity string from the warehouse. Many rows
	// carry an empty or malformed value; reconciliation falls back to a
	// name-based key for those instead of dropping the row.
	AgentEmail string

	Date time.Time
	Hour int

	PDPCount        int
	TotalOperations int

	// Contact-quality counters. Detail-sheet only; never enter the
	// aggregation math.
	EffectiveContacts    int
	NoContacts           int
	NonEffectiveContacts int
}

// NewProductivityObservation validates and builds an observation.
func NewProductivityObservation(o ProductivityObservation) (ProductivityObservation, error) {
	if o.AgentName == "" {
		return ProductivityObservation{}, &ValidationError{Field: "agent_name", Reason: "cannot be empty"}
	}
	if o.AgentID == "" {
		return ProductivityObservation{}, &ValidationError{Field: "agent_id", Reason: "cannot be empty"}
	}
	if o.Hour < 0 || o.Hour > 23 {
		return ProductivityObservation{}, &ValidationError{Field: "hour", Reason: fmt.Sprintf("must be between 0 and 23, got %d", o.Hour)}
	}
	for field, v := range map[string]int{
		"pdp_count":              o.PDPCount,
		"total_operations":       o.TotalOperations,
		"effective_contacts":     o.EffectiveContacts,
		"no_contacts":            o.NoContacts,
		"non_effective_contacts": o.NonEffectiveContacts,
	} {
		if v < 0 {
			return ProductivityObservation{}, &ValidationError{Field: field, Reason: "cannot be negative"}
		}
	}
	o.Date = truncateToDay(o.Date)
	return o, nil
}

// AgentKey returns the grouping key for matrices: the DNI when present,
// otherwise a composite with the display name so identity-less agents stay
// distinct from each other.
func (o ProductivityObservation) AgentKey() string {
	if o.AgentID != NoIdentifier {
		return o.AgentID
	}
	return o.AgentID + "_" + o.AgentName
}

// =============================================================================
// CALL TIME OBSERVATION - One agent-day connected-time total
// =============================================================================

// CallTimeObservation is the total seconds an agent was connected to the
// call channel on a given date.
type CallTimeObservation struct {
	Email            Email
	Date             time.Time
	ConnectedSeconds int64
}

// NewCallTimeObservation validates and builds a call-time observation.
func NewCallTimeObservation(email Email, date time.Time, connectedSeconds int64) (CallTimeObservation, error) {
	if email.IsZero() {
		return CallTimeObservation{}, &ValidationError{Field: "email", Reason: "cannot be empty"}
	}
	if connectedSeconds < 0 {
		return CallTimeObservation{}, &ValidationError{Field: "connected_seconds", Reason: "cannot be negative"}
	}
	return CallTimeObservation{Email: email, Date: truncateToDay(date), ConnectedSeconds: connectedSeconds}, nil
}

// =============================================================================
// ENRICHED OBSERVATION - Productivity + apportioned connected time + rate
// =============================================================================

// EnrichedObservation extends a ProductivityObservation with its share of
// the agent-day connected time and the derived rate. Built by Reconcile;
// never mutated afterwards.
type EnrichedObservation struct {
	ProductivityObservation

	// ConnectedSeconds is nil when no call-time entry matched the
	// observation's agent+date key. nil is distinct from 0: unmatched, not
	// "connected for zero seconds".
	ConnectedSeconds *int64

	// Rate is PDPCount per connected hour, unrounded.
	Rate decimal.Decimal
}

// NewEnrichedObservation builds an enriched observation with its rate.
func NewEnrichedObservation(o ProductivityObservation, connectedSeconds *int64) EnrichedObservation {
	return EnrichedObservation{
		ProductivityObservation: o,
		ConnectedSeconds:        connectedSeconds,
		Rate:                    ComputeRate(o.PDPCount, connectedSeconds),
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
