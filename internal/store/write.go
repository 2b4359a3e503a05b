package store

import (
	"context"
	"fmt"
	"time"
)

// RecordRun atomically writes a run header and its attempt rows. Either
// the whole run is persisted or none of it.
func (s *Store) RecordRun(ctx context.Context, run Run, attempts []Attempt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, name, call, winner_idx)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		run.Name,
		run.Call,
		run.WinnerIndex,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, a := range attempts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attempts (run_id, idx, signature, bound, bind_error, score, winner)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, a.Index, a.Signature, boolInt(a.Bound), a.BindError, a.Score, boolInt(a.Winner),
		)
		if err != nil {
			return fmt.Errorf("insert attempt %s/%d: %w", run.ID, a.Index, err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
