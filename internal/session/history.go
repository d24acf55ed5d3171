package session

import (
	"context"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const historyWriteTimeout = 10 * time.Second

// HistorySink persists completed drafts. Save is called once per session.
type HistorySink interface {
	Save(ctx context.Context, rec domain.HistoryRecord) error
}

// MultiSink writes to every sink and reports all failures.
type MultiSink []HistorySink

func (m MultiSink) Save(ctx context.Context, rec domain.HistoryRecord) error {
	var errs error
	for _, s := range m {
		errs = multierr.Append(errs, s.Save(ctx, rec))
	}
	return errs
}

func (s *Session) record() {
	if s.recorded {
		return
	}
	s.recorded = true
	if s.deps.Sink == nil {
		return
	}

	rec := s.historyRecord()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), historyWriteTimeout)
	defer cancel()
	if err := s.deps.Sink.Save(ctx, rec); err != nil {
		s.log.Error("saving draft history", zap.Error(err))
		return
	}
	s.log.Info("draft history saved")
}

func (s *Session) historyRecord() domain.HistoryRecord {
	rec := domain.HistoryRecord{
		SessionID:   s.id,
		Code:        s.cfg.Code,
		Format:      s.cfg.FormatName,
		Autopilot:   s.cfg.Autopilot,
		Actions:     make([]domain.HistoryAction, 0, len(s.state.Actions)),
		Roles:       map[domain.Team]map[domain.Role]int{},
		StartedAt:   s.startedAt,
		CompletedAt: s.deps.Clock(),
	}
	for i, a := range s.state.Actions {
		ha := domain.HistoryAction{
			Order:      a.Order,
			Team:       a.Team,
			Type:       string(a.Type),
			ChampionID: a.ChampionID,
			Role:       a.Role,
			Autopilot:  i < len(s.autoActions) && s.autoActions[i],
		}
		if s.deps.Catalog != nil {
			if c, err := s.deps.Catalog.ByID(a.ChampionID); err == nil {
				ha.Champion = c.Name
			}
		}
		rec.Actions = append(rec.Actions, ha)
	}
	for _, team := range domain.Teams {
		roles := map[domain.Role]int{}
		for _, p := range s.state.Picks[team] {
			roles[p.Role] = p.ChampionID
		}
		rec.Roles[team] = roles
	}

	if s.deps.WinProb != nil {
		p, err := s.deps.WinProb.WinProbability(finalContext(s.state))
		if err != nil {
			s.log.Warn("winner prediction unavailable", zap.Error(err))
		} else {
			rec.BlueWinProb = &p
		}
	}
	return rec
}

// finalContext is the finished draft from blue's point of view.
func finalContext(st engine.State) signal.DraftContext {
	dc := signal.DraftContext{Side: domain.TeamBlue}
	for _, p := range st.Picks[domain.TeamBlue] {
		dc.Blue = append(dc.Blue, signal.Slot{ChampionID: p.ChampionID, Role: p.Role})
	}
	for _, p := range st.Picks[domain.TeamRed] {
		dc.Red = append(dc.Red, signal.Slot{ChampionID: p.ChampionID, Role: p.Role})
	}
	return dc
}
