/*
reconcile.go - Join call-time totals onto productivity observations

PURPOSE:
  The warehouse reports productivity in agent-hour buckets; the call
  platform reports connected time as one agent-day total. Reconciliation
  joins the two by (agent identity, date) and apportions each day's total
  across that agent's hourly buckets, weighted by each bucket's share of
  the day's promise count.

JOIN KEY:
  Normalized (lowercase) email + date. Productivity rows whose identity
  does not parse as an email are NOT dropped — they reconcile under a
  name-based fallback key and simply never match a call-time entry. Large
  parts of the warehouse lack verified identities; a malformed email must
  not sink the batch.

APPORTIONMENT:
  Integer floor division: floor(total * count / sum_count). Truncation
  keeps the apportioned sum from ever exceeding the day's total. A group
  whose promise count sums to zero apportions zero to every member.
*/
package pdp

import (
	"github.com/rs/zerolog"
)

// =============================================================================
// RECONCILER
// =============================================================================

type reconcileKey struct {
	identity string
	date     string // YYYY-MM-DD
}

// Reconcile joins call-time observations onto productivity observations and
// returns one EnrichedObservation per productivity input, in input order
// within each key group. Pure computation; the only side effect is logging
// match counts.
func Reconcile(productivity []ProductivityObservation, calls []CallTimeObservation, log zerolog.Logger) []EnrichedObservation {
	callIndex := indexCalls(calls, log)

	// Group productivity observations by join key, keeping input order.
	groups := make(map[reconcileKey][]ProductivityObservation)
	order := make([]reconcileKey, 0)
	for _, obs := range productivity {
		key := productivityKey(obs)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], obs)
	}

	enriched := make([]EnrichedObservation, 0, len(productivity))
	matched, unmatched := 0, 0
	for _, key := range order {
		group := groups[key]
		total, ok := callIndex[key]
		if !ok {
			unmatched += len(group)
			for _, obs := range group {
				enriched = append(enriched, NewEnrichedObservation(obs, nil))
			}
			continue
		}
		matched += len(group)
		for i, share := range apportion(total, group) {
			s := share
			enriched = append(enriched, NewEnrichedObservation(group[i], &s))
		}
	}

	log.Info().
		Int("matched", matched).
		Int("unmatched", unmatched).
		Int("call_keys", len(callIndex)).
		Msg("reconciled productivity and call-time observations")

	return enriched
}

// indexCalls builds the (normalized email, date) -> connected seconds
// lookup. Duplicate keys are degenerate input: the later entry wins, with a
// warning.
func indexCalls(calls []CallTimeObservation, log zerolog.Logger) map[reconcileKey]int64 {
	index := make(map[reconcileKey]int64, len(calls))
	for _, c := range calls {
		key := reconcileKey{identity: c.Email.Normalized(), date: c.Date.Format("2006-01-02")}
		if _, dup := index[key]; dup {
			log.Warn().
				Str("email", c.Email.Normalized()).
				Str("date", key.date).
				Msg("duplicate call-time entry for key, keeping the later one")
		}
		index[key] = c.ConnectedSeconds
	}
	return index
}

func productivityKey(obs ProductivityObservation) reconcileKey {
	date := obs.Date.Format("2006-01-02")
	if email, err := NewEmail(obs.AgentEmail); err == nil {
		return reconcileKey{identity: email.Normalized(), date: date}
	}
	// Identity-less rows group under the display name instead.
	return reconcileKey{identity: NoIdentifier + "_" + obs.AgentName, date: date}
}

// apportion splits total seconds across the group proportional to each
// member's PDP count. Floor division guarantees the shares never sum above
// total; a zero-count group gets all zeros.
func apportion(total int64, group []ProductivityObservation) []int64 {
	shares := make([]int64, len(group))
	var sumCount int64
	for _, obs := range group {
		sumCount += int64(obs.PDPCount)
	}
	if sumCount == 0 {
		return shares
	}
	for i, obs := range group {
		shares[i] = total * int64(obs.PDPCount) / sumCount
	}
	return shares
}
