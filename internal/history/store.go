// Package history keeps a local log of completed exports.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Export is one recorded conversion.
type Export struct {
	ID           string
	VideoID      string
	VideoTitle   string
	DanmakuCount int
	ExportedAt   time.Time
}

// Store manages export history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts an export entry and returns it.
func (s *Store) Record(ctx context.Context, videoID, title string, count int) (*Export, error) {
	if videoID == "" {
		return nil, errors.New("video id is required")
	}

	export := &Export{
		ID:           uuid.NewString(),
		VideoID:      videoID,
		VideoTitle:   title,
		DanmakuCount: count,
		ExportedAt:   s.now().UTC(),
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO export_history (id, video_id, video_title, danmaku_count, exported_at)
        VALUES (?, ?, ?, ?, ?)`,
		export.ID,
		export.VideoID,
		nullableString(title),
		export.DanmakuCount,
		export.ExportedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert export: %w", err)
	}
	return export, nil
}

// List returns the most recent exports first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Export, error) {
	query := `SELECT id, video_id, video_title, danmaku_count, exported_at
        FROM export_history ORDER BY exported_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var exports []Export
	for rows.Next() {
		var (
			e          Export
			title      sql.NullString
			exportedAt string
		)
		if err := rows.Scan(&e.ID, &e.VideoID, &title, &e.DanmakuCount, &exportedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		e.VideoTitle = title.String
		if ts, err := time.Parse(time.RFC3339Nano, exportedAt); err == nil {
			e.ExportedAt = ts
		}
		exports = append(exports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exports: %w", err)
	}
	return exports, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
