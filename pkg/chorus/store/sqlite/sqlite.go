package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/internalerr"
	"github.com/cognicore/chorus/pkg/chorus/sentiment"
	"github.com/cognicore/chorus/pkg/chorus/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}
	// One connection keeps per-connection pragmas in force and serializes
	// writers instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist.
// created_at is unix nanoseconds so ORDER BY is exact.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT,
	created_at INTEGER NOT NULL,
	config_json TEXT NOT NULL,
	result_json BLOB NOT NULL,
	comments INTEGER NOT NULL,
	insights INTEGER NOT NULL,
	positive INTEGER NOT NULL,
	negative INTEGER NOT NULL,
	neutral INTEGER NOT NULL,
	positive_percent INTEGER NOT NULL,
	negative_percent INTEGER NOT NULL,
	neutral_percent INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

CREATE TABLE IF NOT EXISTS run_keywords (
	run_id TEXT NOT NULL,
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	sentiment TEXT NOT NULL,
	PRIMARY KEY(run_id, word),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_keywords_word ON run_keywords(word);

CREATE TABLE IF NOT EXISTS run_insights (
	run_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	type TEXT NOT NULL,
	insight_json TEXT NOT NULL,
	PRIMARY KEY(run_id, position),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_insights_type ON run_insights(type);
`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: init schema: %w", internalerr.ErrStoreUnavailable, err)
	}
	return nil
}

// SaveRun inserts or replaces a run together with its keyword and insight
// index rows.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", internalerr.ErrInvalidInput)
	}

	cfgJSON, err := json.Marshal(r.Config)
	if err != nil {
		return err
	}
	resJSON, err := json.Marshal(r.Result)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM run_keywords WHERE run_id = ?`,
		`DELETE FROM run_insights WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, r.ID); err != nil {
			return err
		}
	}

	sum := r.Result.Sentiment
	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, source, created_at, config_json, result_json, comments, insights,
	positive, negative, neutral, positive_percent, negative_percent, neutral_percent)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Source, r.CreatedAt.UnixNano(), string(cfgJSON), resJSON,
		len(r.Result.Comments), len(r.Result.Insights),
		sum.Positive, sum.Negative, sum.Neutral,
		sum.PositivePercent, sum.NegativePercent, sum.NeutralPercent,
	)
	if err != nil {
		return err
	}

	if len(r.Result.Keywords) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_keywords (run_id, word, count, sentiment) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, kw := range r.Result.Keywords {
			if _, err := stmt.ExecContext(ctx, r.ID, kw.Word, kw.Count, kw.Sentiment.String()); err != nil {
				return err
			}
		}
	}

	if len(r.Result.Insights) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_insights (run_id, position, type, insight_json) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, in := range r.Result.Insights {
			data, err := json.Marshal(in)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, r.ID, i, in.Type.String(), string(data)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// GetRun loads a full run by ID
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r       store.Run
		created int64
		cfgJSON string
		resJSON []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, config_json, result_json FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Source, &created, &cfgJSON, &resJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	if err := json.Unmarshal([]byte(cfgJSON), &r.Config); err != nil {
		return store.Run{}, fmt.Errorf("decode config of run %q: %w", id, err)
	}
	if err := json.Unmarshal(resJSON, &r.Result); err != nil {
		return store.Run{}, fmt.Errorf("decode result of run %q: %w", id, err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	return r, nil
}

// ListRuns returns run summaries, newest first
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, source, created_at, comments, insights,
	positive, negative, neutral, positive_percent, negative_percent, neutral_percent
FROM runs
ORDER BY created_at DESC, id DESC
LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var (
			rs      store.RunSummary
			created int64
		)
		if err := rows.Scan(&rs.ID, &rs.Source, &created, &rs.Comments, &rs.Insights,
			&rs.Sentiment.Positive, &rs.Sentiment.Negative, &rs.Sentiment.Neutral,
			&rs.Sentiment.PositivePercent, &rs.Sentiment.NegativePercent, &rs.Sentiment.NeutralPercent,
		); err != nil {
			return nil, err
		}
		rs.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rs)
	}
	return out, rows.Err()
}

// KeywordHistory returns the word's count in every run it ranked in, newest first
func (s *sqliteStore) KeywordHistory(ctx context.Context, word string, limit int) ([]store.KeywordPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT k.run_id, r.created_at, k.count, k.sentiment
FROM run_keywords k
JOIN runs r ON r.id = k.run_id
WHERE k.word = ?
ORDER BY r.created_at DESC, r.id DESC
LIMIT ?`, word, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.KeywordPoint
	for rows.Next() {
		var (
			p       store.KeywordPoint
			created int64
			label   string
		)
		if err := rows.Scan(&p.RunID, &created, &p.Count, &label); err != nil {
			return nil, err
		}
		if p.Sentiment, err = sentiment.ParseLabel(label); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsightsByType returns stored insights of one type, newest run first and
// in ranked order within a run
func (s *sqliteStore) InsightsByType(ctx context.Context, t insight.Type, limit int) ([]store.StoredInsight, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT i.run_id, r.created_at, i.insight_json
FROM run_insights i
JOIN runs r ON r.id = i.run_id
WHERE i.type = ?
ORDER BY r.created_at DESC, r.id DESC, i.position ASC
LIMIT ?`, t.String(), sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.StoredInsight
	for rows.Next() {
		var (
			si      store.StoredInsight
			created int64
			data    string
		)
		if err := rows.Scan(&si.RunID, &created, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &si.Insight); err != nil {
			return nil, fmt.Errorf("decode insight of run %q: %w", si.RunID, err)
		}
		si.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, si)
	}
	return out, rows.Err()
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
