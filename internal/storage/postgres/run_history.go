// Package postgres keeps an operational history of reconciliation runs.
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"law_mirror/internal/domain"
)

type RunHistoryStore struct {
	db *sqlx.DB
}

func NewRunHistoryStore(db *sqlx.DB) *RunHistoryStore {
	return &RunHistoryStore{db: db}
}

type runRow struct {
	ID         int64     `db:"id"`
	RanAt      time.Time `db:"ran_at"`
	Enumerated int       `db:"enumerated"`
	NewLaws    int       `db:"new_laws"`
	Refreshed  int       `db:"refreshed"`
	Skipped    int       `db:"skipped"`
	Published  int       `db:"published"`
	Errors     int       `db:"errors"`
	Generated  string    `db:"generated"`
	DurationMS int64     `db:"duration_ms"`
}

// Record inserts one row per completed run.
func (s *RunHistoryStore) Record(ctx context.Context, stats *domain.RunStats) error {
	query := `
		INSERT INTO law_sync_runs (
			ran_at, enumerated, new_laws, refreshed, skipped, published, errors, generated, duration_ms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	_, err := s.db.ExecContext(ctx, query,
		time.Now().UTC(),
		stats.Enumerated,
		stats.New,
		stats.Refreshed,
		stats.Skipped,
		stats.Published,
		stats.Errors,
		stats.Generated,
		stats.Duration.Milliseconds(),
	)
	return err
}

// Latest returns the most recent run, or nil if none have been recorded.
func (s *RunHistoryStore) Latest(ctx context.Context) (*domain.RunStats, error) {
	var row runRow
	query := `
		SELECT id, ran_at, enumerated, new_laws, refreshed, skipped, published, errors, generated, duration_ms
		FROM law_sync_runs
		ORDER BY ran_at DESC, id DESC
		LIMIT 1`

	err := s.db.GetContext(ctx, &row, query)
	if err != nil {
		return nil, err
	}

	return &domain.RunStats{
		Enumerated: row.Enumerated,
		New:        row.NewLaws,
		Refreshed:  row.Refreshed,
		Skipped:    row.Skipped,
		Published:  row.Published,
		Errors:     row.Errors,
		Generated:  row.Generated,
		Duration:   time.Duration(row.DurationMS) * time.Millisecond,
	}, nil
}
