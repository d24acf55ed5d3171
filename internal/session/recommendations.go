package session

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"go.uber.org/zap"
)

// RecommendationCache memoises full ranked lists by draft position.
type RecommendationCache interface {
	Load(ctx context.Context, st engine.State, side domain.Team) ([]recommend.Recommendation, bool, error)
	Store(ctx context.Context, st engine.State, side domain.Team, recs []recommend.Recommendation) error
}

type Recommendations struct {
	Version int
	Side    domain.Team
	Items   []recommend.Recommendation
}

// Recommend ranks the current legal champions for side, or for whoever the
// current step favours when side is empty. Scoring runs on the caller's
// goroutine against a copy of the state so the actor keeps serving actions.
func (s *Session) Recommend(ctx context.Context, side domain.Team, limit int) (Recommendations, error) {
	if s.deps.Recommender == nil {
		return Recommendations{}, fmt.Errorf("%w: recommendations are not configured", domain.ErrSignalProvider)
	}
	v, err := s.View(ctx)
	if err != nil {
		return Recommendations{}, err
	}
	if v.State.Done {
		return Recommendations{}, domain.ErrDraftComplete
	}
	if side == "" {
		side, _ = recommend.SideFor(v.State)
	}

	out := Recommendations{Version: v.Version, Side: side}
	if s.deps.Cache != nil {
		recs, ok, err := s.deps.Cache.Load(ctx, v.State, side)
		if err != nil {
			s.log.Warn("recommendation cache read", zap.Error(err))
		}
		if ok {
			out.Items = recommend.Top(recs, limit)
			return out, nil
		}
	}

	recs, err := s.deps.Recommender.Recommend(ctx, v.State, side, v.Legal)
	if err != nil {
		return Recommendations{}, err
	}
	if s.deps.Cache != nil {
		if err := s.deps.Cache.Store(ctx, v.State, side, recs); err != nil {
			s.log.Warn("recommendation cache write", zap.Error(err))
		}
	}
	out.Items = recommend.Top(recs, limit)
	return out, nil
}
