package store

import (
	"context"
	"fmt"
	"time"
)

// LoadVisited returns every visited source with the time it was marked.
func (d *DB) LoadVisited(ctx context.Context) (map[string]time.Time, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT source_id, seen_at FROM visited_sources;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]time.Time{}
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		out[id] = parseTime(at)
	}
	return out, rows.Err()
}

func (d *DB) SaveVisited(ctx context.Context, entries map[string]time.Time) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO visited_sources(source_id, seen_at) VALUES(?, ?)
ON CONFLICT(source_id) DO UPDATE SET seen_at = excluded.seen_at;`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, at := range entries {
		if _, err := stmt.ExecContext(ctx, id, formatTime(at)); err != nil {
			return fmt.Errorf("save visited %q: %w", id, err)
		}
	}
	return tx.Commit()
}

func (d *DB) PruneVisited(ctx context.Context, before time.Time) (int64, error) {
	res, err := d.Pool.ExecContext(ctx, `DELETE FROM visited_sources WHERE seen_at < ?;`, formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("prune visited sources: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
