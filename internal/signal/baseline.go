package signal

import (
	"math"
)

// BaselineModel estimates win probability from ladder stats alone: each
// side's strength is the mean smoothed win rate of its picks in their roles,
// and the gap between sides goes through a logistic curve. It stands in for a
// trained model behind the same interface.
type BaselineModel struct {
	Meta          MetaTable
	PriorMean     float64
	PriorStrength float64
	// Scale is the logistic slope applied to the strength gap.
	Scale float64
}

func NewBaselineModel(meta MetaTable, priorMean, priorStrength float64) *BaselineModel {
	return &BaselineModel{Meta: meta, PriorMean: priorMean, PriorStrength: priorStrength, Scale: 10}
}

func (b *BaselineModel) WinProbability(ctx DraftContext) (float64, error) {
	own := b.strength(ctx.Team(ctx.Side))
	other := b.strength(ctx.Team(ctx.Side.Opponent()))
	return 1 / (1 + math.Exp(-b.Scale*(own-other))), nil
}

// strength falls back to the prior for slots without stats so an unknown
// champion neither helps nor hurts its team.
func (b *BaselineModel) strength(team []Slot) float64 {
	if len(team) == 0 {
		return b.PriorMean
	}
	sum := 0.0
	for _, s := range team {
		v := b.PriorMean
		if b.Meta != nil {
			if st, err := b.Meta.Meta(s.ChampionID, s.Role); err == nil {
				v = Smooth(st.WinRate, st.SampleCount, b.PriorMean, b.PriorStrength)
			}
		}
		sum += v
	}
	return sum / float64(len(team))
}
