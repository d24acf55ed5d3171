package engine

import (
	"fmt"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"go.uber.org/multierr"
)

type ActionType string

const (
	ActionBan  ActionType = "ban"
	ActionPick ActionType = "pick"
)

func (a ActionType) Valid() bool {
	return a == ActionBan || a == ActionPick
}

// TurnSpecEntry gives Count consecutive actions of one type to one team.
type TurnSpecEntry struct {
	Team   domain.Team `toml:"side" json:"side"`
	Action ActionType  `toml:"action" json:"action"`
	Count  int         `toml:"count" json:"count"`
	// Phase optionally labels the entry. Unlabelled entries are named after
	// their action and round, e.g. "ban1", "pick2".
	Phase Phase `toml:"phase" json:"phase,omitempty"`
}

// TurnSpec is the declarative draft format. It is expanded once into the
// per-action step list the machine walks through.
type TurnSpec []TurnSpecEntry

// TurnStep is a single action slot in the expanded format.
type TurnStep struct {
	Team   domain.Team `json:"team"`
	Action ActionType  `json:"action"`
	Phase  Phase       `json:"phase"`
}

// DefaultTurnSpec is solo-queue tournament draft: 3-3 then 2-2 alternating
// bans, followed by B / RR / BB / RR / BB / R picks.
func DefaultTurnSpec() TurnSpec {
	return TurnSpec{
		// Ban round 1
		{Team: domain.TeamBlue, Action: ActionBan, Count: 1, Phase: "ban1"},
		{Team: domain.TeamRed, Action: ActionBan, Count: 1, Phase: "ban1"},
		{Team: domain.TeamBlue, Action: ActionBan, Count: 1, Phase: "ban1"},
		{Team: domain.TeamRed, Action: ActionBan, Count: 1, Phase: "ban1"},
		{Team: domain.TeamBlue, Action: ActionBan, Count: 1, Phase: "ban1"},
		{Team: domain.TeamRed, Action: ActionBan, Count: 1, Phase: "ban1"},
		// Ban round 2
		{Team: domain.TeamBlue, Action: ActionBan, Count: 1, Phase: "ban2"},
		{Team: domain.TeamRed, Action: ActionBan, Count: 1, Phase: "ban2"},
		{Team: domain.TeamBlue, Action: ActionBan, Count: 1, Phase: "ban2"},
		{Team: domain.TeamRed, Action: ActionBan, Count: 1, Phase: "ban2"},
		// Picks
		{Team: domain.TeamBlue, Action: ActionPick, Count: 1},
		{Team: domain.TeamRed, Action: ActionPick, Count: 2},
		{Team: domain.TeamBlue, Action: ActionPick, Count: 2},
		{Team: domain.TeamRed, Action: ActionPick, Count: 2},
		{Team: domain.TeamBlue, Action: ActionPick, Count: 2},
		{Team: domain.TeamRed, Action: ActionPick, Count: 1},
	}
}

// Validate reports every malformed entry at once.
func (ts TurnSpec) Validate() error {
	if len(ts) == 0 {
		return fmt.Errorf("%w: turn spec is empty", domain.ErrConfiguration)
	}

	var errs error
	picks := map[domain.Team]int{}
	for i, e := range ts {
		if !e.Team.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("%w: turn %d: unknown side %q", domain.ErrConfiguration, i, e.Team))
		}
		if !e.Action.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("%w: turn %d: unknown action %q", domain.ErrConfiguration, i, e.Action))
		}
		if e.Phase == PhaseDone {
			errs = multierr.Append(errs, fmt.Errorf("%w: turn %d: phase %q is reserved", domain.ErrConfiguration, i, e.Phase))
		}
		if e.Count <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: turn %d: count must be positive, got %d", domain.ErrConfiguration, i, e.Count))
		}
		if e.Action == ActionPick && e.Count > 0 {
			picks[e.Team] += e.Count
		}
	}

	for _, team := range domain.Teams {
		if picks[team] > len(domain.Roles) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s has %d pick slots but only %d roles exist",
				domain.ErrConfiguration, team, picks[team], len(domain.Roles)))
		}
	}
	return errs
}

// Expand validates the spec and flattens it into one step per action.
func (ts TurnSpec) Expand() ([]TurnStep, error) {
	if err := ts.Validate(); err != nil {
		return nil, err
	}

	var steps []TurnStep
	rounds := map[ActionType]int{}
	var last ActionType
	for _, e := range ts {
		if e.Action != last {
			rounds[e.Action]++
			last = e.Action
		}
		phase := e.Phase
		if phase == "" {
			phase = Phase(fmt.Sprintf("%s%d", e.Action, rounds[e.Action]))
		}
		for range e.Count {
			steps = append(steps, TurnStep{Team: e.Team, Action: e.Action, Phase: phase})
		}
	}
	return steps, nil
}
