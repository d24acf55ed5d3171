package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/hub"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"github.com/DoyleJ11/lol-draft-advisor/pkg/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxCodeAttempts = 16

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateDraft starts a new session under a fresh join code.
func CreateDraft(h *hub.Hub, champs Resolver, cfg Config, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional; a chunked request may still carry none.
		var req types.CreateDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		autopilot := cfg.Autopilot
		if req.Autopilot != nil {
			autopilot = make([]domain.Team, 0, len(req.Autopilot))
			for _, s := range req.Autopilot {
				t, err := domain.ParseTeam(s)
				if err != nil {
					writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
					return
				}
				autopilot = append(autopilot, t)
			}
		}

		resume := make([]engine.Action, 0, len(req.Actions))
		for _, ar := range req.Actions {
			a, err := actionFromRequest(ar, champs)
			if err != nil {
				writeError(w, err)
				return
			}
			resume = append(resume, a)
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := GenerateCode()
			if err != nil {
				writeError(w, fmt.Errorf("generating code: %w", err))
				return
			}
			s, err := h.Create(r.Context(), session.Config{
				Code:       code,
				Format:     cfg.Format,
				FormatName: cfg.FormatName,
				Autopilot:  autopilot,
				Resume:     resume,
			})
			if errors.Is(err, hub.ErrCodeTaken) {
				log.Debug("collision on code, regenerating", zap.String("code", code))
				continue
			}
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, types.CreateDraftResponse{Code: code, SessionID: s.ID()})
			return
		}
		writeError(w, hub.ErrCodeTaken)
	}
}

// lookup resolves the {code} URL parameter, writing 404 when there is no
// such draft.
func lookup(h *hub.Hub, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	code := chi.URLParam(r, "code")
	s := h.Get(r.Context(), code)
	if s == nil {
		writeError(w, fmt.Errorf("%w: draft %q", domain.ErrNotFound, code))
		return nil, false
	}
	return s, true
}

func GetDraft(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(h, w, r)
		if !ok {
			return
		}
		v, err := s.View(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		snap := types.NewStateSnapshot(v.Code, v.Version, v.State)
		snap.Autopilot = v.Autopilot
		writeJSON(w, http.StatusOK, snap)
	}
}

func GetLegal(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(h, w, r)
		if !ok {
			return
		}
		v, err := s.View(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		legal := v.Legal
		if legal == nil {
			legal = []int{}
		}
		writeJSON(w, http.StatusOK, types.LegalResponse{Version: v.Version, Champions: legal})
	}
}

// SubmitAction applies one ban or pick and answers with the resulting state.
func SubmitAction(h *hub.Hub, champs Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(h, w, r)
		if !ok {
			return
		}
		var req types.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		a, err := actionFromRequest(req, champs)
		if err != nil {
			writeError(w, err)
			return
		}
		snap, err := s.Submit(r.Context(), a)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.NewStateSnapshot(s.Code(), snap.Version, snap.State))
	}
}

func actionFromRequest(req types.ActionRequest, champs Resolver) (engine.Action, error) {
	team, err := domain.ParseTeam(req.Side)
	if err != nil {
		return engine.Action{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	c, err := champs.Resolve(req.Champion)
	if err != nil {
		return engine.Action{}, err
	}
	a := engine.Action{Team: team, ChampionID: c.ID}
	switch engine.ActionType(req.Action) {
	case engine.ActionBan:
		a.Type = engine.ActionBan
	case engine.ActionPick:
		a.Type = engine.ActionPick
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			return engine.Action{}, errors.Join(domain.ErrRoleUnavailable, err)
		}
		a.Role = role
	default:
		return engine.Action{}, fmt.Errorf("%w: unknown action %q", errBadRequest, req.Action)
	}
	return a, nil
}

// GetRecommendations ranks candidates for ?side= (default: whoever the current
// step favours), capped at ?limit= (default TopN).
func GetRecommendations(h *hub.Hub, topN int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(h, w, r)
		if !ok {
			return
		}
		q := r.URL.Query()
		var side domain.Team
		if v := q.Get("side"); v != "" {
			t, err := domain.ParseTeam(v)
			if err != nil {
				writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
				return
			}
			side = t
		}
		limit := topN
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				writeError(w, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
				return
			}
			limit = n
		}

		recs, err := s.Recommend(r.Context(), side, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.RecommendationsResponse{
			Version: recs.Version,
			Side:    string(recs.Side),
			Items:   recs.Items,
		})
	}
}

func GetChampion(champs Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := champs.Resolve(chi.URLParam(r, "ref"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
