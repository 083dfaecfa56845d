// Package history persists per-run comparison summaries in PostgreSQL,
// so completion can be tracked over time per locale.
package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"locale-qa/internal/textutil"
)

// Store writes and reads comparison summaries.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the summary table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS comparison_summaries (
			id       TEXT PRIMARY KEY,
			run_id   TEXT NOT NULL,
			run_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			locale   TEXT NOT NULL,
			category TEXT NOT NULL,
			amount   BIGINT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

// summaryRow is one (locale, category) counter flattened for storage.
type summaryRow struct {
	ID       string
	Locale   string
	Category string
	Amount   int64
}

// summaryRows flattens a run summary into sorted rows. The row id is a
// hash over run, locale and category, so re-recording a run upserts
// instead of duplicating.
func summaryRows(runID string, summary map[string]map[string]int) []summaryRow {
	var rows []summaryRow
	for locale, counters := range summary {
		for category, amount := range counters {
			rows = append(rows, summaryRow{
				ID:       textutil.Hash(runID + "\x00" + locale + "\x00" + category),
				Locale:   locale,
				Category: category,
				Amount:   int64(amount),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Locale != rows[j].Locale {
			return rows[i].Locale < rows[j].Locale
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// RecordRun stores the summary of one comparison run.
func (s *Store) RecordRun(ctx context.Context, runID string, summary map[string]map[string]int) error {
	rows := summaryRows(runID, summary)
	for _, row := range rows {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO comparison_summaries (id, run_id, locale, category, amount)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET amount = EXCLUDED.amount, run_at = now()`,
			row.ID, runID, row.Locale, row.Category, row.Amount)
		if err != nil {
			return fmt.Errorf("record summary row %s/%s: %w", row.Locale, row.Category, err)
		}
	}
	log.Debug().Str("run", runID).Int("rows", len(rows)).Msg("Recorded run summary")
	return nil
}

// TrendPoint is one historical value of a counter.
type TrendPoint struct {
	RunAt  time.Time
	Amount int64
}

// LocaleTrend returns the most recent values of one counter for a
// locale, newest first.
func (s *Store) LocaleTrend(ctx context.Context, locale, category string, limit int) ([]TrendPoint, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_at, amount
		FROM comparison_summaries
		WHERE locale = $1 AND category = $2
		ORDER BY run_at DESC
		LIMIT $3`,
		locale, category, limit)
	if err != nil {
		return nil, fmt.Errorf("query trend: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.RunAt, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read trend rows: %w", err)
	}
	return points, nil
}
