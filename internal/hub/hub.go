// Package hub is the registry of live draft sessions, itself run as an actor.
package hub

import (
	"context"
	"errors"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/logging"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"go.uber.org/zap"
)

var ErrCodeTaken = errors.New("session code already in use")

type HubMsg interface{ isHubMsg() }

type Created struct {
	Session *session.Session
	Err     error
}

// CreateSession starts a session under Code. It fails if the code is taken.
type CreateSession struct {
	Config session.Config
	Reply  chan Created
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

// RemoveSession stops and forgets the session under Code. When Session is
// set, only that instance is removed, so a stale request cannot evict a newer
// draft that reused the code.
type RemoveSession struct {
	Code    string
	Session *session.Session
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// DefaultRetention is how long a completed draft stays reachable by default.
const DefaultRetention = 10 * time.Minute

type Hub struct {
	inbox     chan HubMsg
	sessions  map[string]*session.Session
	deps      session.Deps
	retention time.Duration
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

type Option func(*Hub)

// WithRetention keeps completed drafts reachable for d before evicting them.
// Zero evicts them as soon as they are recorded.
func WithRetention(d time.Duration) Option {
	return func(h *Hub) { h.retention = max(d, 0) }
}

// NewHub starts the registry. deps are handed to every session it creates;
// the hub sets their OnComplete to schedule eviction.
func NewHub(parent context.Context, deps session.Deps, opts ...Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		sessions:  make(map[string]*session.Session),
		deps:      deps,
		retention: DefaultRetention,
		log:       logging.OrNop(deps.Logger).Named("hub"),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.deps.OnComplete = h.completed
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if h.sessions[msg.Config.Code] != nil {
					msg.Reply <- Created{Err: ErrCodeTaken}
					break
				}
				msg.Reply <- h.start(msg.Config)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case RemoveSession:
				s := h.sessions[msg.Code]
				if s == nil || (msg.Session != nil && msg.Session != s) {
					break
				}
				stop(s)
				delete(h.sessions, msg.Code)
				h.log.Info("session removed", zap.String("code", msg.Code), zap.String("session_id", s.ID()))

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) start(cfg session.Config) Created {
	s, err := session.New(h.ctx, cfg, h.deps)
	if err != nil {
		h.log.Warn("session rejected", zap.String("code", cfg.Code), zap.Error(err))
		return Created{Err: err}
	}
	h.sessions[cfg.Code] = s
	h.log.Info("session created", zap.String("code", cfg.Code), zap.String("session_id", s.ID()))
	return Created{Session: s}
}

// completed schedules eviction of a finished draft. It runs on the session's
// goroutine, so it only arms a timer.
func (h *Hub) completed(s *session.Session) {
	time.AfterFunc(h.retention, func() {
		select {
		case h.inbox <- RemoveSession{Code: s.Code(), Session: s}:
		case <-h.done:
		}
	})
}

// stop asks s to shut down without blocking on a session that already exited.
func stop(s *session.Session) {
	select {
	case s.Inbox() <- session.Shutdown{}:
	case <-s.Done():
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		stop(s)
	}
	clear(h.sessions)
	h.cancel()
}

// Create is the blocking form of CreateSession.
func (h *Hub) Create(ctx context.Context, cfg session.Config) (*session.Session, error) {
	reply := make(chan Created, 1)
	select {
	case h.inbox <- CreateSession{Config: cfg, Reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case c := <-reply:
		return c.Session, c.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns the session under code, or nil.
func (h *Hub) Get(ctx context.Context, code string) *session.Session {
	reply := make(chan *session.Session, 1)
	select {
	case h.inbox <- GetSession{Code: code, Reply: reply}:
	case <-ctx.Done():
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-ctx.Done():
		return nil
	}
}

// Close shuts every session down and waits for the hub to exit.
func (h *Hub) Close() {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.done:
	}
	<-h.done
}
