// Package recommend ranks ban and pick candidates by blending win
// probability, team synergy, lane counters and meta strength.
package recommend

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strings"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

type Component string

const (
	ComponentWinProb Component = "win_prob"
	ComponentSynergy Component = "synergy"
	ComponentCounter Component = "counter"
	ComponentMeta    Component = "meta"
)

// Components lists every score component in blend order.
var Components = []Component{ComponentWinProb, ComponentSynergy, ComponentCounter, ComponentMeta}

const DefaultTopN = 5

// Catalog resolves champion ids to their records.
type Catalog interface {
	ByID(id int) (domain.Champion, error)
}

// PairScore explains one synergy or counter term: the other champion and the
// smoothed win rate against or alongside it.
type PairScore struct {
	ChampionID  int         `json:"champion_id"`
	Name        string      `json:"name"`
	Role        domain.Role `json:"role"`
	Score       float64     `json:"score"`
	SampleCount int         `json:"sample_count"`
}

type Recommendation struct {
	Rank         int         `json:"rank"`
	ChampionID   int         `json:"champion_id"`
	Name         string      `json:"name"`
	Role         domain.Role `json:"role"`
	RoleConflict bool        `json:"role_conflict,omitempty"`
	Score        float64     `json:"score"`
	// WinProbability is 0 when the model could not score the candidate.
	WinProbability float64               `json:"win_probability"`
	Components     map[Component]float64 `json:"components"`
	Missing        []Component           `json:"missing,omitempty"`
	Partial        bool                  `json:"partial,omitempty"`

	SynergyPairs    []PairScore       `json:"synergy_pairs,omitempty"`
	CounterMatchups []PairScore       `json:"counter_matchups,omitempty"`
	MetaStats       *domain.RoleStats `json:"meta_stats,omitempty"`
}

type Options struct {
	Weights   Weights
	Smoothing Smoothing
	// Parallelism bounds concurrent candidate scoring. Zero means GOMAXPROCS.
	Parallelism int
}

func DefaultOptions() Options {
	return Options{Weights: DefaultWeights(), Smoothing: DefaultSmoothing()}
}

// Engine is read-only after construction and safe for concurrent use.
type Engine struct {
	catalog   Catalog
	providers signal.Providers
	opts      Options
}

func NewEngine(catalog Catalog, providers signal.Providers, opts Options) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: recommendation engine needs a champion catalog", domain.ErrConfiguration)
	}
	if err := multierr.Combine(opts.Weights.Validate(), opts.Smoothing.Validate()); err != nil {
		return nil, err
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	return &Engine{catalog: catalog, providers: providers, opts: opts}, nil
}

func (e *Engine) Options() Options { return e.opts }

// Recommend scores every unused champion in pool for side and returns them
// best first. A cancelled ctx yields ctx.Err() and no list.
func (e *Engine) Recommend(ctx context.Context, s engine.State, side domain.Team, pool []int) ([]Recommendation, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("unknown side %q", side)
	}

	candidates := make([]int, 0, len(pool))
	seen := make(map[int]bool, len(pool))
	for _, id := range pool {
		if seen[id] || s.IsUsed(id) {
			continue
		}
		seen[id] = true
		candidates = append(candidates, id)
	}

	dc := e.newDraftView(s, side)
	out := make([]Recommendation, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Parallelism)
	for i, id := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := e.score(dc, id)
			if err != nil {
				return err
			}
			out[i] = rec
			return nil
		})
	}
	err := g.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, compareRecommendations)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// ForTurn ranks pool for whoever benefits on the current step: the acting
// side on a pick, the opponent on a ban (the threats worth denying). It
// returns the side the list was scored for.
func (e *Engine) ForTurn(ctx context.Context, s engine.State, pool []int) ([]Recommendation, domain.Team, error) {
	side, ok := SideFor(s)
	if !ok {
		return nil, "", domain.ErrDraftComplete
	}
	recs, err := e.Recommend(ctx, s, side, pool)
	if err != nil {
		return nil, "", err
	}
	return recs, side, nil
}

// SideFor is the team a list for the current step is scored for. It is false
// once the draft is complete.
func SideFor(s engine.State) (domain.Team, bool) {
	step, ok := s.CurrentStep()
	if !ok {
		return "", false
	}
	if step.Action == engine.ActionBan {
		return step.Team.Opponent(), true
	}
	return step.Team, true
}

// Top returns at most n entries of list. n <= 0 returns list unchanged.
func Top(list []Recommendation, n int) []Recommendation {
	if n <= 0 || n >= len(list) {
		return list
	}
	return list[:n]
}

// compareRecommendations orders by score, then win probability (both
// descending), then name and id ascending.
func compareRecommendations(a, b Recommendation) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(b.WinProbability, a.WinProbability); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ChampionID, b.ChampionID)
}

// draftView is the part of the state every candidate is scored against.
type draftView struct {
	side      domain.Team
	vacant    []domain.Role
	teammates []signal.Slot
	opponents []signal.Slot
}

func (e *Engine) newDraftView(s engine.State, side domain.Team) draftView {
	return draftView{
		side:      side,
		vacant:    s.VacantRoles(side),
		teammates: slotsOf(s.Picks[side]),
		opponents: slotsOf(s.Picks[side.Opponent()]),
	}
}

func slotsOf(picks []engine.Pick) []signal.Slot {
	out := make([]signal.Slot, len(picks))
	for i, p := range picks {
		out[i] = signal.Slot{ChampionID: p.ChampionID, Role: p.Role}
	}
	return out
}

func (e *Engine) score(dv draftView, id int) (Recommendation, error) {
	champ, err := e.catalog.ByID(id)
	if err != nil {
		return Recommendation{}, err
	}
	role, conflict := AssignRole(champ, dv.vacant)
	slot := signal.Slot{ChampionID: id, Role: role}

	rec := Recommendation{
		ChampionID:   id,
		Name:         champ.Name,
		Role:         role,
		RoleConflict: conflict,
		Components:   make(map[Component]float64, len(Components)),
	}

	// Meta first: its smoothed win rate doubles as the synergy and counter
	// baseline when there is nobody to pair with.
	metaWinRate, metaOK := 0.0, false
	if e.providers.Meta != nil {
		if st, err := e.providers.Meta.Meta(id, role); err == nil {
			metaWinRate, metaOK = e.opts.Smoothing.Smooth(st.WinRate, st.SampleCount), true
			rec.MetaStats = &st
			rec.Components[ComponentMeta] = st.PickRate * metaWinRate
		}
	}

	if e.providers.WinProb != nil {
		if p, ok := e.winProbability(dv, slot); ok {
			rec.WinProbability = p
			rec.Components[ComponentWinProb] = p
		}
	}

	if e.providers.Synergy != nil {
		v, pairs, ok := e.aggregate(slot, dv.teammates, e.providers.Synergy.Synergy, metaWinRate, metaOK)
		if ok {
			rec.Components[ComponentSynergy] = v
			rec.SynergyPairs = pairs
		}
	}
	if e.providers.Counter != nil {
		v, pairs, ok := e.aggregate(slot, dv.opponents, e.providers.Counter.Counter, metaWinRate, metaOK)
		if ok {
			rec.Components[ComponentCounter] = v
			rec.CounterMatchups = pairs
		}
	}

	e.blend(&rec)
	return rec, nil
}

func (e *Engine) winProbability(dv draftView, slot signal.Slot) (float64, bool) {
	dc := signal.DraftContext{Side: dv.side}
	own := append(slices.Clone(dv.teammates), slot)
	if dv.side == domain.TeamBlue {
		dc.Blue, dc.Red = own, dv.opponents
	} else {
		dc.Blue, dc.Red = dv.opponents, own
	}
	p, err := e.providers.WinProb.WinProbability(dc)
	if err != nil || math.IsNaN(p) || p < 0 || p > 1 {
		return 0, false
	}
	return p, true
}

// aggregate averages the smoothed pair win rate of slot against others. With
// no others it falls back to the smoothed meta win rate.
func (e *Engine) aggregate(slot signal.Slot, others []signal.Slot, lookup func(a, b signal.Slot) (signal.PairStat, error), metaWinRate float64, metaOK bool) (float64, []PairScore, bool) {
	if len(others) == 0 {
		return metaWinRate, nil, metaOK
	}
	pairs := make([]PairScore, 0, len(others))
	sum := 0.0
	for _, o := range others {
		st, err := lookup(slot, o)
		if err != nil {
			return 0, nil, false
		}
		v := e.opts.Smoothing.Smooth(st.WinRate, st.SampleCount)
		sum += v
		ps := PairScore{ChampionID: o.ChampionID, Role: o.Role, Score: v, SampleCount: st.SampleCount}
		if c, err := e.catalog.ByID(o.ChampionID); err == nil {
			ps.Name = c.Name
		}
		pairs = append(pairs, ps)
	}
	return sum / float64(len(others)), pairs, true
}

// blend combines the available components, renormalising the weights of the
// ones present. Missing components are listed on the recommendation.
func (e *Engine) blend(rec *Recommendation) {
	total, weight := 0.0, 0.0
	for _, c := range Components {
		v, ok := rec.Components[c]
		if !ok {
			rec.Missing = append(rec.Missing, c)
			continue
		}
		w := e.opts.Weights.of(c)
		total += w * v
		weight += w
	}
	rec.Partial = len(rec.Missing) > 0
	if weight > 0 {
		rec.Score = total / weight
	}
}
