// Package runlog keeps an audit trail of pipeline runs in a local sqlite
// file: which collections were fetched, how many pages and records each
// produced, and whether any came back partial.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"arcraiders-data/lib/runlog/db"

	_ "modernc.org/sqlite"
)

func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// single writer, WAL; see the sqlite docs on concurrent write
	// performance
	database.SetMaxOpenConns(1)
	if _, err := database.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := database.Exec(db.Schema); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return database, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type CollectionResult struct {
	Collection  string
	Pages       int
	Records     int
	Partial     bool
	RateLimited int
	Duration    time.Duration
}

type Run struct {
	Version     string
	StartedAt   time.Time
	FinishedAt  time.Time
	Collections []CollectionResult
}

func (s Store) Record(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO fetch_runs (version, started_at, finished_at) VALUES (?, ?, ?)`,
		run.Version, run.StartedAt.Unix(), run.FinishedAt.Unix(),
	)
	if err != nil {
		return err
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, c := range run.Collections {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO fetch_run_collections
			(run_id, collection, pages, records, partial, rate_limited, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runId, c.Collection, c.Pages, c.Records, c.Partial,
			c.RateLimited, c.Duration.Milliseconds(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// History returns the most recent runs, newest first.
func (s Store) History(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, version, started_at, finished_at
		FROM fetch_runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	var ids []int64
	for rows.Next() {
		var id, started, finished int64
		var run Run
		if err := rows.Scan(&id, &run.Version, &started, &finished); err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(started, 0)
		run.FinishedAt = time.Unix(finished, 0)
		runs = append(runs, run)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		collections, err := s.runCollections(ctx, id)
		if err != nil {
			return nil, err
		}
		runs[i].Collections = collections
	}
	return runs, nil
}

func (s Store) runCollections(ctx context.Context, runId int64) ([]CollectionResult, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT collection, pages, records, partial, rate_limited, duration_ms
		FROM fetch_run_collections WHERE run_id = ?`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CollectionResult
	for rows.Next() {
		var c CollectionResult
		var durationMs int64
		if err := rows.Scan(&c.Collection, &c.Pages, &c.Records, &c.Partial, &c.RateLimited, &durationMs); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, c)
	}
	return out, rows.Err()
}
