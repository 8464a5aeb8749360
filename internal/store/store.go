// Package store persists content workflow runs in SQLite.
//
// Runs are stored with their stage payloads as JSON, plus denormalized
// topic/title/article columns that feed an FTS5 index for full-text
// search over produced content.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lucasreb/healthflow/internal/agent"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one content workflow execution with all stage outputs.
type Run struct {
	ID         string               `json:"id"`
	Topic      string               `json:"topic"`
	Tone       string               `json:"tone"`
	Status     string               `json:"status"`
	Error      string               `json:"error,omitempty"`
	StartedAt  string               `json:"started_at"`
	FinishedAt string               `json:"finished_at"`
	Brief      *agent.ResearchBrief `json:"brief,omitempty"`
	Article    *agent.Article       `json:"article,omitempty"`
	Image      *agent.Illustration  `json:"image,omitempty"`
}

// Summary is the listing view of a run, without stage payloads.
type Summary struct {
	ID         string `json:"id"`
	Topic      string `json:"topic"`
	Title      string `json:"title,omitempty"`
	Status     string `json:"status"`
	WordCount  int    `json:"word_count,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}

// SearchResult is a summary with its FTS5 rank (more negative is a
// better match).
type SearchResult struct {
	Summary
	Rank float64 `json:"rank"`
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the store at path, applies pragmas and runs
// migrations. The parent directory is created if needed.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT NOT NULL UNIQUE,
			topic        TEXT NOT NULL,
			tone         TEXT NOT NULL DEFAULT 'professional',
			status       TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			title        TEXT NOT NULL DEFAULT '',
			article_text TEXT NOT NULL DEFAULT '',
			word_count   INTEGER NOT NULL DEFAULT 0,
			started_at   TEXT NOT NULL,
			finished_at  TEXT NOT NULL,
			brief_json   TEXT,
			article_json TEXT,
			image_json   TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_status  ON runs(status);

		CREATE VIRTUAL TABLE IF NOT EXISTS runs_fts USING fts5(
			topic,
			title,
			article_text,
			content='runs',
			content_rowid='seq'
		);

		CREATE TRIGGER IF NOT EXISTS runs_fts_insert AFTER INSERT ON runs BEGIN
			INSERT INTO runs_fts(rowid, topic, title, article_text)
			VALUES (new.seq, new.topic, new.title, new.article_text);
		END;

		CREATE TRIGGER IF NOT EXISTS runs_fts_delete AFTER DELETE ON runs BEGIN
			INSERT INTO runs_fts(runs_fts, rowid, topic, title, article_text)
			VALUES ('delete', old.seq, old.topic, old.title, old.article_text);
		END;

		CREATE TRIGGER IF NOT EXISTS runs_fts_update AFTER UPDATE ON runs BEGIN
			INSERT INTO runs_fts(runs_fts, rowid, topic, title, article_text)
			VALUES ('delete', old.seq, old.topic, old.title, old.article_text);
			INSERT INTO runs_fts(rowid, topic, title, article_text)
			VALUES (new.seq, new.topic, new.title, new.article_text);
		END;
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun inserts a run record.
func (s *Store) SaveRun(run Run) error {
	if run.ID == "" {
		return fmt.Errorf("store: run id must not be empty")
	}

	var title, articleText string
	var wordCount int
	if run.Brief != nil {
		title = run.Brief.Title
	}
	if run.Article != nil {
		articleText = run.Article.HTML
		wordCount = run.Article.WordCount
	}

	briefJSON, err := marshalNullable(run.Brief)
	if err != nil {
		return fmt.Errorf("store: encode brief: %w", err)
	}
	articleJSON, err := marshalNullable(run.Article)
	if err != nil {
		return fmt.Errorf("store: encode article: %w", err)
	}
	imageJSON, err := marshalNullable(run.Image)
	if err != nil {
		return fmt.Errorf("store: encode image: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, topic, tone, status, error, title, article_text, word_count,
			started_at, finished_at, brief_json, article_json, image_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Topic, run.Tone, run.Status, run.Error, title, articleText, wordCount,
		run.StartedAt, run.FinishedAt, briefJSON, articleJSON, imageJSON,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// GetRun loads a full run by id.
func (s *Store) GetRun(id string) (Run, error) {
	row := s.db.QueryRow(`
		SELECT id, topic, tone, status, error, started_at, finished_at,
			brief_json, article_json, image_json
		FROM runs WHERE id = ?`, id)

	var run Run
	var briefJSON, articleJSON, imageJSON sql.NullString
	err := row.Scan(&run.ID, &run.Topic, &run.Tone, &run.Status, &run.Error,
		&run.StartedAt, &run.FinishedAt, &briefJSON, &articleJSON, &imageJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: load run %s: %w", id, err)
	}

	if err := unmarshalNullable(briefJSON, &run.Brief); err != nil {
		return Run{}, fmt.Errorf("store: decode brief for %s: %w", id, err)
	}
	if err := unmarshalNullable(articleJSON, &run.Article); err != nil {
		return Run{}, fmt.Errorf("store: decode article for %s: %w", id, err)
	}
	if err := unmarshalNullable(imageJSON, &run.Image); err != nil {
		return Run{}, fmt.Errorf("store: decode image for %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Summary, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, topic, title, status, word_count, started_at, finished_at
		FROM runs ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.Title, &sum.Status,
			&sum.WordCount, &sum.StartedAt, &sum.FinishedAt); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// SearchRuns performs full-text search over topic, title and article
// text. Results are ordered by relevance.
func (s *Store) SearchRuns(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	ftsQuery := sanitizeFTS(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT r.id, r.topic, r.title, r.status, r.word_count, r.started_at, r.finished_at,
			runs_fts.rank
		FROM runs_fts
		JOIN runs r ON r.seq = runs_fts.rowid
		WHERE runs_fts MATCH ?
		ORDER BY runs_fts.rank
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search runs: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(&res.ID, &res.Topic, &res.Title, &res.Status,
			&res.WordCount, &res.StartedAt, &res.FinishedAt, &res.Rank); err != nil {
			return nil, fmt.Errorf("store: scan search result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// sanitizeFTS wraps each word in quotes for safe FTS5 queries.
// `edge computing` -> `"edge" "computing"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		w = strings.Trim(w, `"`)
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}

func marshalNullable[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalNullable[T any](src sql.NullString, dst **T) error {
	if !src.Valid || src.String == "" {
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(src.String), &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

// FormatTime renders a timestamp the way run rows store them.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return FormatTime(time.Now())
}
