package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/fpsync/internal/fms"
)

// LastSavedSnapshot returns the snapshot of the most recent save cycle
// that pushed one, with that cycle's ID. It backs re-pushing a plan after
// the host store was reset. Returns ErrNotFound when no save was recorded.
func (s *Store) LastSavedSnapshot(ctx context.Context) (*fms.FlightPlanSnapshot, string, error) {
	var (
		id   string
		data []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, snapshot FROM cycles
		WHERE kind = 'save' AND snapshot IS NOT NULL
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`).Scan(&id, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("saved snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("saved snapshot: %w", err)
	}
	snap, err := unmarshalSnapshot(data)
	if err != nil {
		return nil, "", err
	}
	return snap, id, nil
}
