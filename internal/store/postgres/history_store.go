package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryStore appends completed drafts to draft_history. It implements
// session.HistorySink.
type HistoryStore struct {
	pool *pgxpool.Pool
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

// historyRow is a record flattened into column values.
type historyRow struct {
	autopilot []string
	actions   []byte
	roles     []byte
}

func encodeRecord(rec domain.HistoryRecord) (historyRow, error) {
	if rec.SessionID == "" {
		return historyRow{}, fmt.Errorf("postgres: history record has no session id")
	}
	row := historyRow{autopilot: make([]string, len(rec.Autopilot))}
	for i, t := range rec.Autopilot {
		row.autopilot[i] = string(t)
	}
	actions := rec.Actions
	if actions == nil {
		actions = []domain.HistoryAction{}
	}
	var err error
	if row.actions, err = json.Marshal(actions); err != nil {
		return historyRow{}, fmt.Errorf("postgres: marshal actions: %w", err)
	}
	if row.roles, err = json.Marshal(rec.Roles); err != nil {
		return historyRow{}, fmt.Errorf("postgres: marshal roles: %w", err)
	}
	return row, nil
}

// Save inserts rec. A second save of the same session is ignored, keeping the
// table append-only.
func (s *HistoryStore) Save(ctx context.Context, rec domain.HistoryRecord) error {
	row, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO draft_history
			(session_id, code, format, autopilot, actions, roles, blue_win_prob, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_id) DO NOTHING`
	_, err = s.pool.Exec(ctx, query,
		rec.SessionID, rec.Code, rec.Format, row.autopilot, row.actions, row.roles,
		rec.BlueWinProb, rec.StartedAt, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save draft %s: %w", rec.SessionID, err)
	}
	return nil
}

// Get loads one record by session id.
func (s *HistoryStore) Get(ctx context.Context, sessionID string) (domain.HistoryRecord, error) {
	const query = `
		SELECT session_id, code, format, autopilot, actions, roles, blue_win_prob, started_at, completed_at
		FROM draft_history WHERE session_id = $1`
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.HistoryRecord{}, fmt.Errorf("%w: draft %s", domain.ErrNotFound, sessionID)
	}
	return rec, err
}

// Recent returns up to limit records, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	const query = `
		SELECT session_id, code, format, autopilot, actions, roles, blue_win_prob, started_at, completed_at
		FROM draft_history ORDER BY completed_at DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list drafts: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (domain.HistoryRecord, error) {
	var (
		rec       domain.HistoryRecord
		autopilot []string
		actions   []byte
		roles     []byte
	)
	err := row.Scan(&rec.SessionID, &rec.Code, &rec.Format, &autopilot, &actions, &roles,
		&rec.BlueWinProb, &rec.StartedAt, &rec.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("postgres: scan draft: %w", err)
	}
	for _, a := range autopilot {
		rec.Autopilot = append(rec.Autopilot, domain.Team(a))
	}
	if err := json.Unmarshal(actions, &rec.Actions); err != nil {
		return rec, fmt.Errorf("postgres: unmarshal actions: %w", err)
	}
	if err := json.Unmarshal(roles, &rec.Roles); err != nil {
		return rec, fmt.Errorf("postgres: unmarshal roles: %w", err)
	}
	return rec, nil
}
