package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"go.uber.org/zap"
)

const autopilotBudget = 2 * time.Second

// runAutopilot plays every consecutive step that belongs to an autopilot side.
func (s *Session) runAutopilot() {
	for {
		step, ok := s.state.CurrentStep()
		if !ok || !slices.Contains(s.cfg.Autopilot, step.Team) {
			return
		}
		a, err := s.autopilotAction(step)
		if err == nil {
			err = s.apply(a, true)
		}
		if err != nil {
			s.log.Error("autopilot stalled", zap.String("team", string(step.Team)), zap.Error(err))
			return
		}
		s.log.Debug("autopilot acted", zap.String("team", string(a.Team)), zap.String("action", string(a.Type)),
			zap.Int("champion_id", a.ChampionID), zap.String("role", string(a.Role)))
	}
}

// autopilotAction takes the top recommendation for the step. Picks skip
// candidates whose role is already filled. Without a usable list it falls
// back to the most picked legal champion.
func (s *Session) autopilotAction(step engine.TurnStep) (engine.Action, error) {
	legal := s.deps.Machine.LegalActions(s.state)
	if len(legal) == 0 {
		return engine.Action{}, fmt.Errorf("no legal champions left for %s %s", step.Team, step.Action)
	}
	a := engine.Action{Team: step.Team, Type: step.Action}

	if s.deps.Recommender != nil {
		ctx, cancel := context.WithTimeout(s.ctx, autopilotBudget)
		recs, _, err := s.deps.Recommender.ForTurn(ctx, s.state, legal)
		cancel()
		if err != nil {
			s.log.Warn("autopilot recommendations failed", zap.Error(err))
		}
		for _, r := range recs {
			if step.Action == engine.ActionPick && r.RoleConflict {
				continue
			}
			a.ChampionID = r.ChampionID
			if step.Action == engine.ActionPick {
				a.Role = r.Role
			}
			return a, nil
		}
	}

	a.ChampionID = s.mostPicked(legal)
	if step.Action == engine.ActionPick {
		vacant := s.state.VacantRoles(step.Team)
		if len(vacant) == 0 {
			return engine.Action{}, fmt.Errorf("%s has no vacant role", step.Team)
		}
		a.Role = vacant[0]
		if s.deps.Catalog != nil {
			if c, err := s.deps.Catalog.ByID(a.ChampionID); err == nil {
				for _, r := range c.RolesByPickRate() {
					if slices.Contains(vacant, r) {
						a.Role = r
						break
					}
				}
			}
		}
	}
	return a, nil
}

// mostPicked returns the legal champion with the highest pick rate in any
// role, or the lowest id when no catalog is wired.
func (s *Session) mostPicked(legal []int) int {
	best, bestRate := legal[0], -1.0
	if s.deps.Catalog == nil {
		return best
	}
	for _, id := range legal {
		c, err := s.deps.Catalog.ByID(id)
		if err != nil {
			continue
		}
		if r := c.MaxPickRate(); r > bestRate {
			best, bestRate = id, r
		}
	}
	return best
}
