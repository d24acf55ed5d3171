package recommend

import (
	"fmt"
	"math"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"go.uber.org/multierr"
)

const weightSumTolerance = 1e-6

// Weights controls how the four components are blended. They must be
// non-negative and sum to 1.
type Weights struct {
	WinProb float64 `toml:"win_prob" json:"win_prob" env:"WIN_PROB"`
	Synergy float64 `toml:"synergy" json:"synergy" env:"SYNERGY"`
	Counter float64 `toml:"counter" json:"counter" env:"COUNTER"`
	Meta    float64 `toml:"meta" json:"meta" env:"META"`
}

func DefaultWeights() Weights {
	return Weights{WinProb: 0.40, Synergy: 0.30, Counter: 0.20, Meta: 0.10}
}

func (w Weights) of(c Component) float64 {
	switch c {
	case ComponentWinProb:
		return w.WinProb
	case ComponentSynergy:
		return w.Synergy
	case ComponentCounter:
		return w.Counter
	case ComponentMeta:
		return w.Meta
	}
	return 0
}

func (w Weights) Validate() error {
	var errs error
	sum := 0.0
	for _, c := range Components {
		v := w.of(c)
		if v < 0 || math.IsNaN(v) {
			errs = multierr.Append(errs, fmt.Errorf("%w: weight %s must be non-negative, got %v", domain.ErrConfiguration, c, v))
		}
		sum += v
	}
	if math.Abs(sum-1) > weightSumTolerance {
		errs = multierr.Append(errs, fmt.Errorf("%w: weights sum to %v, want 1.0", domain.ErrConfiguration, sum))
	}
	return errs
}

// Smoothing is the Bayesian prior applied to every observed win rate.
type Smoothing struct {
	PriorMean     float64 `toml:"prior_mean" json:"prior_mean" env:"PRIOR_MEAN"`
	PriorStrength float64 `toml:"prior_strength" json:"prior_strength" env:"PRIOR_STRENGTH"`
}

func DefaultSmoothing() Smoothing {
	return Smoothing{PriorMean: 0.5, PriorStrength: 20}
}

func (s Smoothing) Validate() error {
	var errs error
	if s.PriorMean < 0 || s.PriorMean > 1 || math.IsNaN(s.PriorMean) {
		errs = multierr.Append(errs, fmt.Errorf("%w: prior mean %v outside [0,1]", domain.ErrConfiguration, s.PriorMean))
	}
	if s.PriorStrength < 0 || math.IsNaN(s.PriorStrength) {
		errs = multierr.Append(errs, fmt.Errorf("%w: prior strength %v is negative", domain.ErrConfiguration, s.PriorStrength))
	}
	return errs
}

// Smooth returns (wins + k*m) / (games + k) where wins = winRate * games.
func (s Smoothing) Smooth(winRate float64, games int) float64 {
	return signal.Smooth(winRate, games, s.PriorMean, s.PriorStrength)
}
