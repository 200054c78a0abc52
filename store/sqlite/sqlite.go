/*
Package sqlite provides the SQLite-backed productivity source.

PURPOSE:
  The analytical warehouse exports agent-hour productivity rows into a
  local SQLite mirror (a nightly sync job owns the export; this package
  only reads it, plus an insert path the sync job and tests share).

ROW TOLERANCE:
  A malformed row (empty agent name, out-of-range hour, negative counter)
  is logged and skipped; it never aborts the batch. The warehouse has
  enough historical junk that one bad row must not sink a month's report.

WAL MODE:
  Opened with WAL so report reads don't block the sync job's writes.

USAGE:
  store, err := sqlite.New("./data/productivity.db", log)
  if err != nil { ... }
  defer store.Close()

  records, err := store.Records(ctx, start, end)

SEE ALSO:
  - pdp/service.go: ProductivitySource interface this store implements
  - store/postgres: the connected-time counterpart
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/collecta/pdp-insights/pdp"
)

// Store reads productivity rows from the warehouse mirror.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New opens (and migrates) the mirror database. Use ":memory:" in tests.
func New(dbPath string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, log: log}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS productivity_records (
		record_date TEXT NOT NULL,
		hour INTEGER NOT NULL,
		dni TEXT NOT NULL,
		agent_name TEXT NOT NULL,
		agent_email TEXT NOT NULL DEFAULT '',
		total_operations INTEGER NOT NULL DEFAULT 0,
		effective_contacts INTEGER NOT NULL DEFAULT 0,
		no_contacts INTEGER NOT NULL DEFAULT 0,
		non_effective_contacts INTEGER NOT NULL DEFAULT 0,
		pdp_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_productivity_date
		ON productivity_records(record_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Records returns the mapped productivity observations for the inclusive
// date range, skipping malformed rows.
func (s *Store) Records(ctx context.Context, start, end time.Time) ([]pdp.ProductivityObservation, error) {
	query := `
		SELECT record_date, hour, dni, agent_name, agent_email,
		       total_operations, effective_contacts, no_contacts,
		       non_effective_contacts, pdp_count
		FROM productivity_records
		WHERE record_date >= ? AND record_date <= ?
		ORDER BY record_date, hour, dni`

	rows, err := s.db.QueryContext(ctx, query,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query productivity records: %w", err)
	}
	defer rows.Close()

	var records []pdp.ProductivityObservation
	skipped := 0
	for rows.Next() {
		var (
			rawDate string
			obs     pdp.ProductivityObservation
		)
		if err := rows.Scan(&rawDate, &obs.Hour, &obs.AgentID, &obs.AgentName,
			&obs.AgentEmail, &obs.TotalOperations, &obs.EffectiveContacts,
			&obs.NoContacts, &obs.NonEffectiveContacts, &obs.PDPCount); err != nil {
			return nil, fmt.Errorf("failed to scan productivity row: %w", err)
		}

		date, err := time.ParseInLocation("2006-01-02", rawDate, time.UTC)
		if err != nil {
			skipped++
			s.log.Warn().Str("record_date", rawDate).Msg("skipping row with unparseable date")
			continue
		}
		obs.Date = date

		mapped, err := pdp.NewProductivityObservation(obs)
		if err != nil {
			skipped++
			s.log.Warn().Err(err).
				Str("dni", obs.AgentID).
				Str("record_date", rawDate).
				Msg("skipping invalid productivity row")
			continue
		}
		records = append(records, mapped)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read productivity rows: %w", err)
	}

	s.log.Info().
		Int("records", len(records)).
		Int("skipped", skipped).
		Msg("fetched productivity records")
	return records, nil
}

// Insert writes raw rows into the mirror. Used by the sync job and by
// tests; it deliberately does not validate, so tests can seed the junk
// rows Records must tolerate.
func (s *Store) Insert(ctx context.Context, records []pdp.ProductivityObservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO productivity_records
			(record_date, hour, dni, agent_name, agent_email,
			 total_operations, effective_contacts, no_contacts,
			 non_effective_contacts, pdp_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Date.Format("2006-01-02"), r.Hour, r.AgentID, r.AgentName,
			r.AgentEmail, r.TotalOperations, r.EffectiveContacts,
			r.NoContacts, r.NonEffectiveContacts, r.PDPCount); err != nil {
			return fmt.Errorf("failed to insert productivity row: %w", err)
		}
	}
	return tx.Commit()
}
