// Package session runs one draft as an actor: a single goroutine owns the
// draft state and every change arrives through its inbox.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/logging"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("session closed")

type Msg interface{ isSessionMsg() }

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// Submit applies one action. Reply is optional; when set it must be buffered.
type Submit struct {
	Action engine.Action
	Reply  chan SubmitResult
}

func (Submit) isSessionMsg() {}

type SubmitResult struct {
	Snapshot Snapshot
	Err      error
}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type Snapshot struct {
	Version int
	State   engine.State
}

type View struct {
	ID         string
	Code       string
	Version    int
	NumClients int
	State      engine.State
	Legal      []int
	Autopilot  []domain.Team
}

type Config struct {
	Code       string
	Format     engine.TurnSpec
	FormatName string
	Autopilot  []domain.Team
	// Resume starts the draft from the position these actions reach.
	Resume []engine.Action
}

// Deps are shared across sessions. Only Machine is required.
type Deps struct {
	Machine     *engine.Machine
	Catalog     recommend.Catalog
	Recommender *recommend.Engine
	WinProb     signal.WinProbabilityModel
	Sink        HistorySink
	Cache       RecommendationCache
	Logger      *zap.Logger
	Clock       func() time.Time
	// OnComplete runs on the actor goroutine once the finished draft has been
	// recorded. It must not block.
	OnComplete func(*Session)
}

type Session struct {
	id      string
	cfg     Config
	deps    Deps
	log     *zap.Logger
	inbox   chan Msg
	state   engine.State
	version int
	clients map[string]chan Snapshot

	autoActions []bool
	startedAt   time.Time
	recorded    bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, cfg Config, deps Deps) (*Session, error) {
	if deps.Machine == nil {
		return nil, fmt.Errorf("%w: session needs a state machine", domain.ErrConfiguration)
	}
	for _, t := range cfg.Autopilot {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown autopilot side %q", domain.ErrConfiguration, t)
		}
	}
	initial, err := engine.Initialize(cfg.Format)
	if err != nil {
		return nil, err
	}
	if len(cfg.Resume) > 0 {
		if initial, err = deps.Machine.Replay(cfg.Format, cfg.Resume); err != nil {
			return nil, fmt.Errorf("resume: %w", err)
		}
		if initial.Done {
			return nil, fmt.Errorf("resume: %w", domain.ErrDraftComplete)
		}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		deps:    deps,
		inbox:   make(chan Msg, 64), // Small buffer
		state:   initial,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),

		autoActions: make([]bool, len(cfg.Resume)),
	}
	s.log = logging.OrNop(deps.Logger).Named("session").With(
		zap.String("code", cfg.Code),
		zap.String("session_id", s.id),
	)
	s.startedAt = deps.Clock()

	go s.loop()
	return s, nil
}

func (s *Session) ID() string   { return s.id }
func (s *Session) Code() string { return s.cfg.Code }

// Inbox exposes the actor's mailbox to the hub and transport layers.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Done is closed once the actor has stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) loop() {
	defer close(s.done)
	s.log.Info("session started", zap.Any("autopilot", s.cfg.Autopilot))
	s.runAutopilot()

	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				s.clients[msg.ClientID] = msg.Outbox
				s.send(msg.ClientID, msg.Outbox, s.snapshot())

			case Leave:
				delete(s.clients, msg.ClientID)

			case Submit:
				err := s.apply(msg.Action, false)
				if err == nil {
					s.runAutopilot()
				} else {
					s.log.Debug("action rejected", zap.String("team", string(msg.Action.Team)),
						zap.Int("champion_id", msg.Action.ChampionID), zap.Error(err))
				}
				if msg.Reply != nil {
					msg.Reply <- SubmitResult{Snapshot: s.snapshot(), Err: err}
				}

			case GetState:
				msg.Reply <- s.view()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) apply(a engine.Action, auto bool) error {
	events, next, err := s.deps.Machine.Apply(s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	s.version++
	s.autoActions = append(s.autoActions, auto)
	s.broadcast(s.snapshot())

	if engine.ContainsEvent(events, engine.EvtDraftCompleted) {
		s.log.Info("draft completed", zap.Int("actions", len(s.state.Actions)))
		s.record()
		if s.deps.OnComplete != nil {
			s.deps.OnComplete(s)
		}
	}
	return nil
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Version: s.version, State: s.state}
}

func (s *Session) view() View {
	return View{
		ID:         s.id,
		Code:       s.cfg.Code,
		Version:    s.version,
		NumClients: len(s.clients),
		State:      s.state,
		Legal:      s.deps.Machine.LegalActions(s.state),
		Autopilot:  slices.Clone(s.cfg.Autopilot),
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
	s.log.Info("session stopped", zap.Int("version", s.version))
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.clients {
		s.send(id, ch, snap)
	}
}

func (s *Session) send(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		//ok
	default:
		// Client is slow/full - drop them.
		s.log.Warn("dropping slow client", zap.String("client_id", id))
		close(ch)
		delete(s.clients, id)
	}
}

func (s *Session) post(ctx context.Context, m Msg) error {
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View asks the actor for a consistent copy of its state.
func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := s.post(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Submit applies a and returns the snapshot after it, along with any autopilot
// replies it triggered.
func (s *Session) Submit(ctx context.Context, a engine.Action) (Snapshot, error) {
	reply := make(chan SubmitResult, 1)
	if err := s.post(ctx, Submit{Action: a, Reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case r := <-reply:
		return r.Snapshot, r.Err
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Close stops the actor and waits for it to exit.
func (s *Session) Close() {
	s.cancel()
	<-s.done
}
