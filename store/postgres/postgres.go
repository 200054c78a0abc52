/*
Package postgres provides the Postgres-backed connected-time source.

PURPOSE:
  The call platform lands per-agent-per-day connected-time totals in the
  agent_connected_times table. This package reads them by date range and
  maps rows into CallTimeObservation values, skipping rows whose email
  fails validation.

DRIVER:
  jackc/pgx via its database/sql adapter; the plain *sql.DB surface keeps
  this store symmetrical with the SQLite mirror.

SEE ALSO:
  - pdp/service.go: CallTimeSource interface this store implements
  - store/sqlite: the productivity counterpart
*/
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/collecta/pdp-insights/pdp"
)

// Store reads connected-time rows from the call platform's database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New opens a connection pool to the given Postgres URL.
func New(url string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db, log: log}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the connection at startup.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Records returns the mapped call-time observations for the inclusive date
// range, skipping rows with invalid emails.
func (s *Store) Records(ctx context.Context, start, end time.Time) ([]pdp.CallTimeObservation, error) {
	query := `
		SELECT date, email, total_seconds
		FROM agent_connected_times
		WHERE date >= $1 AND date <= $2
		ORDER BY date, email`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query call data: %w", err)
	}
	defer rows.Close()

	var records []pdp.CallTimeObservation
	skipped := 0
	for rows.Next() {
		var (
			date         time.Time
			email        string
			totalSeconds int64
		)
		if err := rows.Scan(&date, &email, &totalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan call data row: %w", err)
		}

		addr, err := pdp.NewEmail(email)
		if err != nil {
			skipped++
			s.log.Warn().Err(err).Str("date", date.Format("2006-01-02")).
				Msg("skipping call data row with invalid email")
			continue
		}
		obs, err := pdp.NewCallTimeObservation(addr, date, totalSeconds)
		if err != nil {
			skipped++
			s.log.Warn().Err(err).Str("email", addr.Normalized()).
				Msg("skipping invalid call data row")
			continue
		}
		records = append(records, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call data rows: %w", err)
	}

	s.log.Info().
		Int("records", len(records)).
		Int("skipped", skipped).
		Msg("fetched call data records")
	return records, nil
}
