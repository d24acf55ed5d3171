package domain

import "time"

// HistoryAction is one recorded ban or pick as it is persisted.
type HistoryAction struct {
	Order      int    `json:"order"`
	Team       Team   `json:"team"`
	Type       string `json:"type"`
	ChampionID int    `json:"champion_id"`
	Champion   string `json:"champion,omitempty"`
	Role       Role   `json:"role,omitempty"`
	Autopilot  bool   `json:"autopilot,omitempty"`
}

// HistoryRecord is the append-only record written once per completed draft.
type HistoryRecord struct {
	SessionID   string                `json:"session_id"`
	Code        string                `json:"code"`
	Format      string                `json:"format"`
	Autopilot   []Team                `json:"autopilot,omitempty"`
	Actions     []HistoryAction       `json:"actions"`
	Roles       map[Team]map[Role]int `json:"roles"`
	BlueWinProb *float64              `json:"blue_win_prob,omitempty"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt time.Time             `json:"completed_at"`
}
