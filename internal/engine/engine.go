package engine

import (
	"fmt"
	"slices"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

// Pick is a champion locked into a role slot.
type Pick struct {
	ChampionID int         `json:"champion_id"`
	Role       domain.Role `json:"role"`
}

// Action is one ban or pick. Order is assigned by Apply and equals the turn
// index the action was taken on.
type Action struct {
	Team       domain.Team `json:"team"`
	Type       ActionType  `json:"type"`
	ChampionID int         `json:"champion_id"`
	Role       domain.Role `json:"role,omitempty"`
	Order      int         `json:"order"`
}

type State struct {
	Order   []TurnStep             `json:"turns"`
	Cursor  int                    `json:"cursor"`
	Phase   Phase                  `json:"phase"`
	Bans    map[domain.Team][]int  `json:"bans"`
	Picks   map[domain.Team][]Pick `json:"picks"`
	Actions []Action               `json:"actions"`
	Done    bool                   `json:"done"`
}

type EventType string

const (
	EvtChampionPicked EventType = "ChampionPicked"
	EvtChampionBanned EventType = "ChampionBanned"
	EvtTurnAdvanced   EventType = "TurnAdvanced"
	EvtDraftCompleted EventType = "DraftCompleted"
)

type Event struct {
	Type       EventType   `json:"type"`
	Team       domain.Team `json:"team,omitempty"`
	ChampionID int         `json:"champion_id,omitempty"`
	Role       domain.Role `json:"role,omitempty"`
}

// Roster is the set of champions a draft may use.
type Roster interface {
	ChampionIDs() []int
	Contains(id int) bool
}

// Machine applies actions against a roster. It holds no draft state; every
// State it returns is a fresh value.
type Machine struct {
	roster Roster
}

func NewMachine(roster Roster) *Machine {
	return &Machine{roster: roster}
}

// Initialize builds the opening state for a format.
func Initialize(spec TurnSpec) (State, error) {
	order, err := spec.Expand()
	if err != nil {
		return State{}, err
	}
	return newEmptyState(order), nil
}

// CurrentStep returns the step to be played next, or false once the draft is
// complete.
func (s State) CurrentStep() (TurnStep, bool) {
	if s.Cursor >= len(s.Order) {
		return TurnStep{}, false
	}
	return s.Order[s.Cursor], true
}

// IsUsed reports whether id is already banned or picked by either team.
func (s State) IsUsed(id int) bool {
	return hasBan(s, id) || hasPick(s, id)
}

// VacantRoles lists the role slots team has not filled, in canonical order.
func (s State) VacantRoles(team domain.Team) []domain.Role {
	var out []domain.Role
	for _, r := range domain.Roles {
		if !roleTaken(s, team, r) {
			out = append(out, r)
		}
	}
	return out
}

// LegalActions returns the ids playable on the current turn, ascending. Bans
// and picks draw from the same pool.
func (m *Machine) LegalActions(s State) []int {
	if _, ok := s.CurrentStep(); !ok || m.roster == nil {
		return nil
	}
	var out []int
	for _, id := range m.roster.ChampionIDs() {
		if !s.IsUsed(id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Apply validates a against the current step and returns the resulting state.
// On error the returned state is s, untouched.
func (m *Machine) Apply(s State, a Action) ([]Event, State, error) {
	step, ok := s.CurrentStep()
	if !ok {
		return nil, s, domain.ErrDraftComplete
	}

	// Turn must match BOTH team & action
	if step.Team != a.Team || step.Action != a.Type {
		return nil, s, fmt.Errorf("%w: expected %s %s, got %s %s",
			domain.ErrWrongTurn, step.Team, step.Action, a.Team, a.Type)
	}

	if m.roster != nil && !m.roster.Contains(a.ChampionID) {
		return nil, s, fmt.Errorf("%w: id %d", domain.ErrUnknownChampion, a.ChampionID)
	}

	if s.IsUsed(a.ChampionID) {
		return nil, s, fmt.Errorf("%w: id %d", domain.ErrChampionUnavailable, a.ChampionID)
	}

	a.Order = s.Cursor
	next := s.clone()
	var events []Event

	switch a.Type {
	case ActionPick:
		if !a.Role.Valid() {
			return nil, s, fmt.Errorf("%w: %q is not a draft role", domain.ErrRoleUnavailable, a.Role)
		}
		if roleTaken(s, a.Team, a.Role) {
			return nil, s, fmt.Errorf("%w: %s already filled %s", domain.ErrRoleUnavailable, a.Team, a.Role)
		}
		next.Picks[a.Team] = append(next.Picks[a.Team], Pick{ChampionID: a.ChampionID, Role: a.Role})
		events = append(events, Event{Type: EvtChampionPicked, Team: a.Team, ChampionID: a.ChampionID, Role: a.Role})

	case ActionBan:
		a.Role = ""
		next.Bans[a.Team] = append(next.Bans[a.Team], a.ChampionID)
		events = append(events, Event{Type: EvtChampionBanned, Team: a.Team, ChampionID: a.ChampionID})
	}

	next.Actions = append(next.Actions, a)
	next.Cursor++
	next.Phase = DerivePhase(next.Order, next.Cursor)
	events = append(events, Event{Type: EvtTurnAdvanced})

	//Completion
	if next.Cursor == len(next.Order) {
		next.Done = true
		events = append(events, Event{Type: EvtDraftCompleted})
	}
	return events, next, nil
}

// Replay rebuilds the state reached by playing actions from the start of
// spec. It stops at the first action that does not apply.
func (m *Machine) Replay(spec TurnSpec, actions []Action) (State, error) {
	s, err := Initialize(spec)
	if err != nil {
		return State{}, err
	}
	for i, a := range actions {
		_, s, err = m.Apply(s, a)
		if err != nil {
			return s, fmt.Errorf("replay action %d: %w", i, err)
		}
	}
	return s, nil
}
