package store

import (
	"context"
	"fmt"
	"time"
)

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, name, call, winner_idx
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Source, &r.Name, &r.Call, &r.WinnerIndex); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetAttempts returns a run's attempt rows in candidate order.
func (s *Store) GetAttempts(ctx context.Context, runID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, idx, signature, bound, bind_error, score, winner
		 FROM attempts WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var bound, winner int
		if err := rows.Scan(&a.RunID, &a.Index, &a.Signature, &bound, &a.BindError, &a.Score, &winner); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Bound = bound != 0
		a.Winner = winner != 0
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
