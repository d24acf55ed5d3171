package engine

import (
	"slices"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

type Phase string

const PhaseDone Phase = "done"

func newEmptyState(order []TurnStep) State {
	s := State{
		Order:   order,
		Bans:    map[domain.Team][]int{domain.TeamBlue: {}, domain.TeamRed: {}},
		Picks:   map[domain.Team][]Pick{domain.TeamBlue: {}, domain.TeamRed: {}},
		Actions: []Action{},
		Cursor:  0,
	}
	s.Phase = DerivePhase(order, s.Cursor)
	return s
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func DerivePhase(order []TurnStep, cursor int) Phase {
	if cursor >= len(order) {
		return PhaseDone
	}
	return order[cursor].Phase
}

// clone deep-copies the mutable parts of s. Order is shared because it is
// never written after Initialize.
func (s State) clone() State {
	c := s
	c.Bans = make(map[domain.Team][]int, len(s.Bans))
	for team, ids := range s.Bans {
		c.Bans[team] = slices.Clone(ids)
	}
	c.Picks = make(map[domain.Team][]Pick, len(s.Picks))
	for team, picks := range s.Picks {
		c.Picks[team] = slices.Clone(picks)
	}
	c.Actions = slices.Clone(s.Actions)
	return c
}

func hasPick(s State, id int) bool {
	for _, picks := range s.Picks {
		for _, p := range picks {
			if p.ChampionID == id {
				return true
			}
		}
	}
	return false
}

func hasBan(s State, id int) bool {
	return slices.Contains(s.Bans[domain.TeamBlue], id) || slices.Contains(s.Bans[domain.TeamRed], id)
}

func roleTaken(s State, team domain.Team, role domain.Role) bool {
	for _, p := range s.Picks[team] {
		if p.Role == role {
			return true
		}
	}
	return false
}
