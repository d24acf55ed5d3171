package types

import (
	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
)

// StateSnapshot is the public view of a draft sent over HTTP and WebSocket.
type StateSnapshot struct {
	Version         int                           `json:"version"`
	Code            string                        `json:"code"`
	Phase           engine.Phase                  `json:"phase"`
	ActiveTurnIndex int                           `json:"active_turn_index"`
	ActiveTeam      domain.Team                   `json:"active_team,omitempty"`
	ActiveAction    engine.ActionType             `json:"active_action,omitempty"`
	TotalTurns      int                           `json:"total_turns"`
	Picks           map[domain.Team][]engine.Pick `json:"picks"`
	Bans            map[domain.Team][]int         `json:"bans"`
	VacantRoles     map[domain.Team][]domain.Role `json:"vacant_roles"`
	Actions         []engine.Action               `json:"actions"`
	Completed       bool                          `json:"completed"`
	Autopilot       []domain.Team                 `json:"autopilot,omitempty"`
}

func NewStateSnapshot(code string, version int, s engine.State) StateSnapshot {
	snap := StateSnapshot{
		Version:         version,
		Code:            code,
		Phase:           s.Phase,
		ActiveTurnIndex: s.Cursor,
		TotalTurns:      len(s.Order),
		Picks:           s.Picks,
		Bans:            s.Bans,
		VacantRoles:     map[domain.Team][]domain.Role{},
		Actions:         s.Actions,
		Completed:       s.Done,
	}
	if step, ok := s.CurrentStep(); ok {
		snap.ActiveTeam = step.Team
		snap.ActiveAction = step.Action
	}
	for _, t := range domain.Teams {
		snap.VacantRoles[t] = s.VacantRoles(t)
	}
	return snap
}
