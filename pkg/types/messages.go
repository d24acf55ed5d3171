// Package types holds the JSON shapes the draft service exchanges with
// clients.
package types

import (
	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
)

// Client -> Server message types.
const (
	MsgBan       = "Ban"
	MsgPick      = "Pick"
	MsgRecommend = "Recommend"
)

// Server -> Client message types.
const (
	MsgStateSnapshot   = "StateSnapshot"
	MsgRecommendations = "Recommendations"
	MsgError           = "Error"
)

// ClientMessage is a WebSocket frame from a client. Champion may carry a name
// or id and wins over ChampionID when set.
type ClientMessage struct {
	Type       string `json:"type"`
	Team       string `json:"team,omitempty"`
	ChampionID int    `json:"champion_id,omitempty"`
	Champion   string `json:"champion,omitempty"`
	Role       string `json:"role,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type ServerMessage struct {
	Type    string                     `json:"type"` // "StateSnapshot" | "Recommendations" | "Error"
	Version int                        `json:"version,omitempty"`
	State   *StateSnapshot             `json:"state,omitempty"`
	Side    string                     `json:"side,omitempty"`
	Items   []recommend.Recommendation `json:"items,omitempty"`
	Error   string                     `json:"error,omitempty"`
	Code    string                     `json:"code,omitempty"`
}

// ActionRequest is the body of POST /drafts/{code}/actions.
type ActionRequest struct {
	Side     string `json:"side"`
	Action   string `json:"action"`
	Champion string `json:"champion"`
	Role     string `json:"role,omitempty"`
}

// CreateDraftRequest is the optional body of POST /drafts. Actions, when set,
// start the draft from the position they reach.
type CreateDraftRequest struct {
	Autopilot []string        `json:"autopilot,omitempty"`
	Actions   []ActionRequest `json:"actions,omitempty"`
}

type CreateDraftResponse struct {
	Code      string `json:"code"`
	SessionID string `json:"session_id"`
}

type RecommendationsResponse struct {
	Version int                        `json:"version"`
	Side    string                     `json:"side"`
	Items   []recommend.Recommendation `json:"items"`
}

type LegalResponse struct {
	Version   int   `json:"version"`
	Champions []int `json:"champions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HistoryResponse is the body of GET /history, newest draft first.
type HistoryResponse struct {
	Records []domain.HistoryRecord `json:"records"`
}
