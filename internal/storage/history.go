// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

// Entry is one recorded analysis.
type Entry struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Sentiment  string    `json:"sentiment,omitempty"`
	Score      *float64  `json:"score,omitempty"`
	Backend    string    `json:"backend"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Succeeded reports whether the analysis produced a label.
func (e Entry) Succeeded() bool {
	return e.Error == "" && e.Sentiment != ""
}

// Stats summarizes the stored history.
type Stats struct {
	Total         int            `json:"total"`
	Succeeded     int            `json:"succeeded"`
	Failed        int            `json:"failed"`
	ByLabel       map[string]int `json:"by_label"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	First         *time.Time     `json:"first,omitempty"`
	Last          *time.Time     `json:"last,omitempty"`
}

// ErrEntryNotFound is returned when a requested entry doesn't exist.
var ErrEntryNotFound = errors.New("history entry not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore persists analyses in a SQLite database.
// It is safe for concurrent use.
type HistoryStore struct {
	mu         sync.Mutex
	db         *sql.DB
	path       string
	maxEntries int
	now        func() time.Time
}

// Open opens or creates the history database at path. When maxEntries is
// positive, Record prunes the oldest rows beyond that count.
func Open(path string, maxEntries int) (*HistoryStore, error) {
	if path == "" {
		return nil, errors.New("history path cannot be empty")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	if path != ":memory:" {
		// Best effort; history may contain private text.
		_ = os.Chmod(path, 0600)
	}

	return &HistoryStore{
		db:         db,
		path:       path,
		maxEntries: maxEntries,
		now:        time.Now,
	}, nil
}

// Path returns the database path.
func (s *HistoryStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn returns the open database or ErrClosed. Callers hold s.mu.
func (s *HistoryStore) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Record stores an entry, assigning its ID and timestamp when unset,
// and returns the ID.
func (s *HistoryStore) Record(ctx context.Context, e Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return "", err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO analyses (id, text, sentiment, score, backend, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Text,
		nullString(e.Sentiment),
		nullFloat(e.Score),
		e.Backend,
		nullString(e.Error),
		e.DurationMs,
		e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record analysis: %w", err)
	}

	if s.maxEntries > 0 {
		if _, err := s.prune(ctx, db, s.maxEntries); err != nil {
			return e.ID, err
		}
	}
	return e.ID, nil
}

// Prune deletes all but the newest keep entries and returns the number removed.
func (s *HistoryStore) Prune(ctx context.Context, keep int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	return s.prune(ctx, db, keep)
}

func (s *HistoryStore) prune(ctx context.Context, db *sql.DB, keep int) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM analyses WHERE seq NOT IN (
			SELECT seq FROM analyses ORDER BY created_at DESC, seq DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every entry and returns the number removed.
func (s *HistoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM analyses`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

const selectColumns = `SELECT id, text, sentiment, score, backend, error, duration_ms, created_at FROM analyses`

// Get returns the entry with the given ID.
func (s *HistoryStore) Get(ctx context.Context, id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns the newest entries first. A limit of zero or less returns all.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]Entry, error) {
	return s.query(ctx, "", nil, limit)
}

// Search returns entries whose text contains query, case-insensitively for
// ASCII, newest first.
func (s *HistoryStore) Search(ctx context.Context, query string, limit int) ([]Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, limit)
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.query(ctx, ` WHERE text LIKE ? ESCAPE '\'`, []any{pattern}, limit)
}

func (s *HistoryStore) query(ctx context.Context, where string, args []any, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	q := selectColumns + where + ` ORDER BY created_at DESC, seq DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Stats aggregates the stored history.
func (s *HistoryStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByLabel: make(map[string]int)}

	var (
		avg         sql.NullFloat64
		first, last sql.NullInt64
	)
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN error IS NULL AND sentiment IS NOT NULL THEN 1 ELSE 0 END), 0),
		        AVG(duration_ms), MIN(created_at), MAX(created_at)
		 FROM analyses`).Scan(&stats.Total, &stats.Succeeded, &avg, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to read history stats: %w", err)
	}
	stats.Failed = stats.Total - stats.Succeeded
	if avg.Valid {
		stats.AvgDurationMs = avg.Float64
	}
	if first.Valid {
		t := time.Unix(0, first.Int64)
		stats.First = &t
	}
	if last.Valid {
		t := time.Unix(0, last.Int64)
		stats.Last = &t
	}

	rows, err := db.QueryContext(ctx,
		`SELECT sentiment, COUNT(*) FROM analyses
		 WHERE error IS NULL AND sentiment IS NOT NULL
		 GROUP BY sentiment`)
	if err != nil {
		return nil, fmt.Errorf("failed to read label counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			label string
			count int
		)
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		stats.ByLabel[label] = count
	}
	return stats, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e         Entry
		sentiment sql.NullString
		score     sql.NullFloat64
		errText   sql.NullString
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.Text, &sentiment, &score, &e.Backend, &errText, &e.DurationMs, &createdAt); err != nil {
		return nil, err
	}
	e.Sentiment = sentiment.String
	e.Error = errText.String
	if score.Valid {
		v := score.Float64
		e.Score = &v
	}
	e.CreatedAt = time.Unix(0, createdAt)
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// escapeLike escapes LIKE wildcards so the query matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
