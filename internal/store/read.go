package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a cycle does not exist.
var ErrNotFound = errors.New("not found")

// ReadCycles returns the most recent cycles, oldest first, without their
// calls. A limit <= 0 returns every cycle. An empty kind matches all kinds.
func (s *Store) ReadCycles(ctx context.Context, kind string, limit int) ([]Cycle, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, kind, outcome, error, commands, snapshot FROM (
			SELECT * FROM cycles
			WHERE ? = '' OR kind = ?
			ORDER BY seq DESC, id COLLATE BINARY DESC
			LIMIT ?
		)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	cycles := []Cycle{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}

// ReadCycle returns one cycle with its calls in issue order.
func (s *Store) ReadCycle(ctx context.Context, id string) (Cycle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, kind, outcome, error, commands, snapshot
		FROM cycles WHERE id = ?
	`, id)
	c, err := scanCycle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Cycle{}, fmt.Errorf("cycle %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Cycle{}, err
	}

	calls, err := s.readCalls(ctx, id)
	if err != nil {
		return Cycle{}, err
	}
	c.Calls = calls
	return c, nil
}

func (s *Store) readCalls(ctx context.Context, cycleID string) ([]Call, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT side, name, args, failed, note FROM commands
		WHERE cycle_id = ?
		ORDER BY idx ASC
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		var (
			call Call
			args []byte
		)
		if err := rows.Scan(&call.Side, &call.Name, &args, &call.Failed, &call.Note); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		if call.Args, err = unmarshalArgs(args); err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}
	return calls, nil
}

// LastSeq returns the highest cycle seq, or 0 for an empty journal. The
// engine clock resumes from it.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM cycles`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(sc scanner) (Cycle, error) {
	var (
		c    Cycle
		snap []byte
	)
	if err := sc.Scan(&c.ID, &c.Seq, &c.Kind, &c.Outcome, &c.Error, &c.CommandCount, &snap); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cycle{}, err
		}
		return Cycle{}, fmt.Errorf("scan cycle: %w", err)
	}
	s, err := unmarshalSnapshot(snap)
	if err != nil {
		return Cycle{}, fmt.Errorf("cycle %s: %w", c.ID, err)
	}
	c.Snapshot = s
	return c, nil
}
