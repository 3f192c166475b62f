// Package snapshotstore persists the raw payloads pulled from the
// portal, one row per user, endpoint and scrape time. Re-scraping
// within the same day replaces that day's row instead of stacking
// duplicates, so history keeps at most one snapshot per day.
package snapshotstore

import (
	"context"
	"database/sql"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type Snapshot struct {
	Endpoint string
	Time     time.Time
	Payload  string
}

func (s Store) Push(ctx context.Context, user string, snapshots []Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, snap := range snapshots {
		y, m, d := snap.Time.Date()
		startOfDay := time.Date(y, m, d, 0, 0, 0, 0, snap.Time.Location()).Unix()
		startOfNextDay := time.Date(y, m, d+1, 0, 0, 0, 0, snap.Time.Location()).Unix()

		_, err = tx.ExecContext(ctx,
			`DELETE FROM snapshots WHERE user = ? AND endpoint = ? AND time >= ? AND time < ?`,
			user, snap.Endpoint, startOfDay, startOfNextDay,
		)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO snapshots (user, endpoint, time, payload) VALUES (?, ?, ?, ?)`,
			user, snap.Endpoint, snap.Time.Unix(), snap.Payload,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Pull returns the most recent snapshot of every endpoint scraped for
// the given user.
func (s Store) Pull(ctx context.Context, user string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT endpoint, MAX(time), payload FROM snapshots
		WHERE user = ?
		GROUP BY endpoint
		ORDER BY endpoint`,
		user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var unix int64
		if err := rows.Scan(&snap.Endpoint, &unix, &snap.Payload); err != nil {
			return nil, err
		}
		snap.Time = time.Unix(unix, 0)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// History returns every snapshot of one endpoint for the given user,
// oldest first.
func (s Store) History(ctx context.Context, user, endpoint string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT endpoint, time, payload FROM snapshots
		WHERE user = ? AND endpoint = ?
		ORDER BY time ASC`,
		user, endpoint,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var unix int64
		if err := rows.Scan(&snap.Endpoint, &unix, &snap.Payload); err != nil {
			return nil, err
		}
		snap.Time = time.Unix(unix, 0)
		out = append(out, snap)
	}
	return out, rows.Err()
}
