package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/hub"
	"github.com/DoyleJ11/lol-draft-advisor/internal/logging"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"github.com/DoyleJ11/lol-draft-advisor/pkg/types"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver turns a champion name or id into a champion.
type Resolver interface {
	Resolve(ref string) (domain.Champion, error)
}

type Options struct {
	// TopN caps recommendation lists when the client sends no limit.
	TopN int
	// OriginPatterns are passed to websocket.Accept; empty means same-origin.
	OriginPatterns []string
	Logger         *zap.Logger
}

func Handler(h *hub.Hub, champs Resolver, opts Options) http.HandlerFunc {
	log := logging.OrNop(opts.Logger).Named("ws")
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		s := h.Get(r.Context(), code)
		if s == nil {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()
		log := log.With(zap.String("code", code), zap.String("client_id", clientID))

		select {
		case s.Inbox() <- session.Join{ClientID: clientID, Outbox: out}:
		case <-s.Done():
			conn.Close(websocket.StatusGoingAway, "draft closed")
			return
		case <-r.Context().Done():
			return
		}
		defer func() {
			select {
			case s.Inbox() <- session.Leave{ClientID: clientID}:
			case <-s.Done():
			}
		}()
		log.Info("client connected")

		replies := make(chan types.ServerMessage, 8)

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				var msg types.ServerMessage
				select {
				case snap, ok := <-out:
					if !ok {
						conn.Close(websocket.StatusGoingAway, "draft closed")
						return
					}
					view := types.NewStateSnapshot(code, snap.Version, snap.State)
					msg = types.ServerMessage{Type: types.MsgStateSnapshot, Version: snap.Version, State: &view}
				case msg = <-replies:
				case <-writeCtx.Done():
					return
				}
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Error("encoding message", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				err = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					log.Debug("write failed", zap.Error(err))
					return
				}
			}
		}()

		reply := func(msg types.ServerMessage) {
			select {
			case replies <- msg:
			case <-writeCtx.Done():
			}
		}

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Info("client disconnected")
				default:
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				reply(errorMessage(errors.New("bad json"), "bad_request"))
				continue
			}

			switch cm.Type {
			case types.MsgBan, types.MsgPick:
				a, err := toAction(cm, champs)
				if err != nil {
					reply(errorMessage(err, domain.ErrorCode(err)))
					continue
				}
				// Success is announced by the snapshot broadcast.
				if _, err := s.Submit(r.Context(), a); err != nil {
					reply(errorMessage(err, domain.ErrorCode(err)))
				}

			case types.MsgRecommend:
				var side domain.Team
				if cm.Team != "" {
					if side, err = domain.ParseTeam(cm.Team); err != nil {
						reply(errorMessage(err, "bad_request"))
						continue
					}
				}
				limit := cm.Limit
				if limit <= 0 {
					limit = opts.TopN
				}
				recs, err := s.Recommend(r.Context(), side, limit)
				if err != nil {
					reply(errorMessage(err, domain.ErrorCode(err)))
					continue
				}
				reply(types.ServerMessage{Type: types.MsgRecommendations, Version: recs.Version, Side: string(recs.Side), Items: recs.Items})

			default:
				reply(errorMessage(errors.New("unknown type"), "bad_request"))
			}
		}
	}
}

func errorMessage(err error, code string) types.ServerMessage {
	return types.ServerMessage{Type: types.MsgError, Error: err.Error(), Code: code}
}

// toAction builds an engine action from a Ban or Pick frame. Champion names
// are resolved here; legality is left to the session.
func toAction(m types.ClientMessage, champs Resolver) (engine.Action, error) {
	team, err := domain.ParseTeam(m.Team)
	if err != nil {
		return engine.Action{}, err
	}

	ref := m.Champion
	if ref == "" {
		ref = strconv.Itoa(m.ChampionID)
	}
	c, err := champs.Resolve(ref)
	if err != nil {
		return engine.Action{}, err
	}

	a := engine.Action{Team: team, ChampionID: c.ID}
	switch m.Type {
	case types.MsgBan:
		a.Type = engine.ActionBan
	case types.MsgPick:
		a.Type = engine.ActionPick
		role, err := domain.ParseRole(m.Role)
		if err != nil {
			return engine.Action{}, errors.Join(domain.ErrRoleUnavailable, err)
		}
		a.Role = role
	}
	return a, nil
}
