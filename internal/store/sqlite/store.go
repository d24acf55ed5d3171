// Package sqlite keeps a local, file-backed copy of completed drafts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	_ "modernc.org/sqlite"
)

// Store implements session.HistorySink on a SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it to the latest
// schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create directory: %w", err)
	}
	if err := migrateUp(path); err != nil {
		return nil, err
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer avoids SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save inserts rec; a repeated session id is ignored.
func (s *Store) Save(ctx context.Context, rec domain.HistoryRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("sqlite: history record has no session id")
	}
	autopilot, err := json.Marshal(nonNil(rec.Autopilot))
	if err != nil {
		return fmt.Errorf("sqlite: marshal autopilot: %w", err)
	}
	actions, err := json.Marshal(nonNil(rec.Actions))
	if err != nil {
		return fmt.Errorf("sqlite: marshal actions: %w", err)
	}
	roles, err := json.Marshal(rec.Roles)
	if err != nil {
		return fmt.Errorf("sqlite: marshal roles: %w", err)
	}

	const query = `
		INSERT OR IGNORE INTO draft_history
			(session_id, code, format, autopilot, actions, roles, blue_win_prob, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		rec.SessionID, rec.Code, rec.Format, string(autopilot), string(actions), string(roles),
		rec.BlueWinProb, formatTime(rec.StartedAt), formatTime(rec.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save draft %s: %w", rec.SessionID, err)
	}
	return nil
}

const selectColumns = `SELECT session_id, code, format, autopilot, actions, roles, blue_win_prob, started_at, completed_at FROM draft_history`

func (s *Store) Get(ctx context.Context, sessionID string) (domain.HistoryRecord, error) {
	rec, err := scan(s.db.QueryRowContext(ctx, selectColumns+` WHERE session_id = ?`, sessionID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HistoryRecord{}, fmt.Errorf("%w: draft %s", domain.ErrNotFound, sessionID)
	}
	return rec, err
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list drafts: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (domain.HistoryRecord, error) {
	var (
		rec                       domain.HistoryRecord
		autopilot, actions, roles string
		winProb                   sql.NullFloat64
		startedAt, completedAt    string
	)
	if err := row.Scan(&rec.SessionID, &rec.Code, &rec.Format, &autopilot, &actions, &roles,
		&winProb, &startedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("sqlite: scan draft: %w", err)
	}
	if winProb.Valid {
		rec.BlueWinProb = &winProb.Float64
	}
	var err error
	if err = json.Unmarshal([]byte(autopilot), &rec.Autopilot); err != nil {
		return rec, fmt.Errorf("sqlite: unmarshal autopilot: %w", err)
	}
	if len(rec.Autopilot) == 0 {
		rec.Autopilot = nil
	}
	if err = json.Unmarshal([]byte(actions), &rec.Actions); err != nil {
		return rec, fmt.Errorf("sqlite: unmarshal actions: %w", err)
	}
	if err = json.Unmarshal([]byte(roles), &rec.Roles); err != nil {
		return rec, fmt.Errorf("sqlite: unmarshal roles: %w", err)
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return rec, fmt.Errorf("sqlite: started_at: %w", err)
	}
	if rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return rec, fmt.Errorf("sqlite: completed_at: %w", err)
	}
	return rec, nil
}

// formatTime writes UTC with fixed-width nanoseconds so text order is time
// order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
