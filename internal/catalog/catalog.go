// Package catalog loads the champion directory and the signal tables behind
// recommendations, either from Postgres or from the built-in demo data.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/DoyleJ11/lol-draft-advisor/internal/champion"
	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"
)

// Catalog is everything the engine reads. It is immutable once built.
type Catalog struct {
	Directory *champion.Directory
	Meta      *signal.MetaIndex
	Synergy   *signal.PairTable
	Counter   *signal.PairTable
	// Digest changes whenever any champion stat or pair record does. It does
	// not depend on the order rows were loaded in.
	Digest string
}

// Build validates champs and pairs and indexes them. Pairs that reference an
// unknown champion are rejected.
func Build(champs []domain.Champion, pairs []PairModel) (*Catalog, error) {
	dir, err := champion.New(champs)
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		Directory: dir,
		Meta:      signal.NewMetaIndex(dir.All()),
		Synergy:   signal.NewSynergyTable(),
		Counter:   signal.NewCounterTable(),
		Digest:    digest(champs, pairs),
	}

	var errs error
	for _, p := range pairs {
		errs = multierr.Append(errs, c.addPair(p))
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

func (c *Catalog) addPair(p PairModel) error {
	a, err := c.slot(p.ChampionA, p.RoleA)
	if err != nil {
		return err
	}
	b, err := c.slot(p.ChampionB, p.RoleB)
	if err != nil {
		return err
	}
	st := signal.PairStat{WinRate: p.WinRate, SampleCount: p.SampleCount}
	switch p.Kind {
	case KindSynergy:
		return c.Synergy.Add(a, b, st)
	case KindCounter:
		return c.Counter.Add(a, b, st)
	default:
		return fmt.Errorf("%w: unknown pair kind %q", domain.ErrConfiguration, p.Kind)
	}
}

func (c *Catalog) slot(id int, role string) (signal.Slot, error) {
	if !c.Directory.Contains(id) {
		return signal.Slot{}, fmt.Errorf("%w: pair references unknown champion %d", domain.ErrConfiguration, id)
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return signal.Slot{}, fmt.Errorf("%w: champion %d: %v", domain.ErrConfiguration, id, err)
	}
	return signal.Slot{ChampionID: id, Role: r}, nil
}

// Providers wires the tables to the recommendation engine, with the baseline
// win-probability model smoothed the same way as everything else.
func (c *Catalog) Providers(s recommend.Smoothing) signal.Providers {
	return signal.Providers{
		WinProb: signal.NewBaselineModel(c.Meta, s.PriorMean, s.PriorStrength),
		Synergy: c.Synergy,
		Counter: c.Counter,
		Meta:    c.Meta,
	}
}

func digest(champs []domain.Champion, pairs []PairModel) string {
	h := xxhash.New()
	sorted := slices.SortedFunc(slices.Values(champs), func(a, b domain.Champion) int { return cmp.Compare(a.ID, b.ID) })
	for _, c := range sorted {
		fmt.Fprintf(h, "c%d:%s;", c.ID, c.Name)
		for _, r := range domain.Roles {
			if st, ok := c.Roles[r]; ok {
				fmt.Fprintf(h, "%s:%v:%v:%v:%d;", r, st.PickRate, st.BanRate, st.WinRate, st.SampleCount)
			}
		}
	}
	rows := make([]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, fmt.Sprintf("p%s:%d:%s:%d:%s:%v:%d;", p.Kind, p.ChampionA, p.RoleA, p.ChampionB, p.RoleB, p.WinRate, p.SampleCount))
	}
	slices.Sort(rows)
	for _, r := range rows {
		_, _ = h.WriteString(r)
	}
	return strconv.FormatUint(h.Sum64(), 36)
}
