// Package signal defines the historical lookups recommendations are scored
// from, plus in-memory implementations loaded once at start-up.
package signal

import (
	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

// Slot is a champion in a role.
type Slot struct {
	ChampionID int         `json:"champion_id"`
	Role       domain.Role `json:"role"`
}

// PairStat is the observed record of two slots, either on the same team or
// facing each other. WinRate is from the first slot's point of view.
type PairStat struct {
	WinRate     float64 `json:"win_rate"`
	SampleCount int     `json:"sample_count"`
}

// Wins is the estimated number of games won.
func (p PairStat) Wins() float64 {
	return p.WinRate * float64(p.SampleCount)
}

// DraftContext is the draft as seen by a win-probability model. Side is the
// team whose chance of winning is asked for.
type DraftContext struct {
	Side domain.Team `json:"side"`
	Blue []Slot      `json:"blue"`
	Red  []Slot      `json:"red"`
}

func (c DraftContext) Team(t domain.Team) []Slot {
	if t == domain.TeamRed {
		return c.Red
	}
	return c.Blue
}

type WinProbabilityModel interface {
	WinProbability(ctx DraftContext) (float64, error)
}

type SynergyTable interface {
	Synergy(a, b Slot) (PairStat, error)
}

// CounterTable answers how a fares against b.
type CounterTable interface {
	Counter(a, b Slot) (PairStat, error)
}

type MetaTable interface {
	Meta(championID int, role domain.Role) (domain.RoleStats, error)
}

// Providers bundles the four lookups. A nil member counts as unavailable for
// every candidate.
type Providers struct {
	WinProb WinProbabilityModel
	Synergy SynergyTable
	Counter CounterTable
	Meta    MetaTable
}

// Smooth shrinks an observed win rate towards mean. strength is the number of
// pseudo-games the prior is worth.
func Smooth(winRate float64, games int, mean, strength float64) float64 {
	if games < 0 {
		games = 0
	}
	denom := float64(games) + strength
	if denom <= 0 {
		return mean
	}
	return (winRate*float64(games) + strength*mean) / denom
}
