package signal

import (
	"fmt"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
)

type pairKey struct {
	a, b Slot
}

// PairTable is an in-memory pairwise lookup. A pair with no record reads as
// zero games, which smoothing turns into the prior.
type PairTable struct {
	stats      map[pairKey]PairStat
	complement bool
}

// NewSynergyTable stores teammates; (a,b) and (b,a) share one record.
func NewSynergyTable() *PairTable {
	return &PairTable{stats: map[pairKey]PairStat{}}
}

// NewCounterTable stores matchups; (b,a) is stored as the complement of (a,b).
func NewCounterTable() *PairTable {
	return &PairTable{stats: map[pairKey]PairStat{}, complement: true}
}

// Add records the stat for a with b. The reverse direction is filled in unless
// it has already been added explicitly.
func (t *PairTable) Add(a, b Slot, st PairStat) error {
	if st.WinRate < 0 || st.WinRate > 1 {
		return fmt.Errorf("%w: win rate %v out of range for %d/%d", domain.ErrConfiguration, st.WinRate, a.ChampionID, b.ChampionID)
	}
	if st.SampleCount < 0 {
		return fmt.Errorf("%w: negative sample count for %d/%d", domain.ErrConfiguration, a.ChampionID, b.ChampionID)
	}
	t.stats[pairKey{a, b}] = st

	rev := pairKey{b, a}
	if _, ok := t.stats[rev]; ok {
		return nil
	}
	if t.complement {
		st.WinRate = 1 - st.WinRate
	}
	t.stats[rev] = st
	return nil
}

func (t *PairTable) Lookup(a, b Slot) PairStat {
	return t.stats[pairKey{a, b}]
}

func (t *PairTable) Synergy(a, b Slot) (PairStat, error) {
	return t.Lookup(a, b), nil
}

func (t *PairTable) Counter(a, b Slot) (PairStat, error) {
	return t.Lookup(a, b), nil
}

func (t *PairTable) Len() int { return len(t.stats) }
