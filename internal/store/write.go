package store

import (
	"context"
	"fmt"
)

// WriteCycle records a cycle and its calls in one transaction. Writing the
// same cycle ID twice is a no-op.
func (s *Store) WriteCycle(ctx context.Context, c Cycle) error {
	snap, err := marshalSnapshot(c.Snapshot)
	if err != nil {
		return fmt.Errorf("write cycle: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write cycle: begin: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO cycles (id, seq, kind, outcome, error, commands, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, c.ID, c.Seq, c.Kind, c.Outcome, c.Error, len(c.Calls), snap)
	if err != nil {
		return fmt.Errorf("write cycle %s: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commands (cycle_id, idx, side, name, args, failed, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write cycle %s: prepare: %w", c.ID, err)
	}
	defer stmt.Close()

	for i, call := range c.Calls {
		args, err := marshalArgs(call.Args)
		if err != nil {
			return fmt.Errorf("write cycle %s: call %d: %w", c.ID, i, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, i, call.Side, call.Name, args, call.Failed, call.Note); err != nil {
			return fmt.Errorf("write cycle %s: call %d: %w", c.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write cycle %s: commit: %w", c.ID, err)
	}
	return nil
}
