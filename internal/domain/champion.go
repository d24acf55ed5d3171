package domain

import "sort"

// RoleStats is the aggregate ladder performance of a champion in one role.
type RoleStats struct {
	PickRate    float64 `json:"pick_rate"`
	BanRate     float64 `json:"ban_rate"`
	WinRate     float64 `json:"win_rate"`
	SampleCount int     `json:"sample_count"`
}

type Champion struct {
	ID    int                `json:"id"`
	Name  string             `json:"name"`
	Roles map[Role]RoleStats `json:"roles"`
}

// RolesByPickRate returns the champion's played roles, most picked first.
// Equal pick rates fall back to the canonical role order so the result is
// stable.
func (c Champion) RolesByPickRate() []Role {
	roles := make([]Role, 0, len(c.Roles))
	for _, r := range Roles {
		if _, ok := c.Roles[r]; ok {
			roles = append(roles, r)
		}
	}
	sort.SliceStable(roles, func(i, j int) bool {
		return c.Roles[roles[i]].PickRate > c.Roles[roles[j]].PickRate
	})
	return roles
}

// MaxPickRate is the champion's pick rate in its most played role.
func (c Champion) MaxPickRate() float64 {
	best := 0.0
	for _, s := range c.Roles {
		if s.PickRate > best {
			best = s.PickRate
		}
	}
	return best
}
