package httpapi

import (
	"net/http"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/hub"
	"github.com/DoyleJ11/lol-draft-advisor/internal/logging"
	"github.com/DoyleJ11/lol-draft-advisor/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Resolver turns a champion name or id into a champion.
type Resolver = ws.Resolver

// Config carries the per-draft defaults and the HTTP knobs.
type Config struct {
	Format     engine.TurnSpec
	FormatName string
	Autopilot  []domain.Team
	TopN       int

	// RatePerSecond and RateBurst bound requests per client IP. Zero disables.
	RatePerSecond  float64
	RateBurst      int
	RequestTimeout time.Duration
	OriginPatterns []string

	// History serves /history. Nil leaves the routes unmounted.
	History HistoryReader
}

func SetupRoutes(h *hub.Hub, champs Resolver, cfg Config, log *zap.Logger) http.Handler {
	log = logging.OrNop(log).Named("http")
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, champs, ws.Options{
		TopN:           cfg.TopN,
		OriginPatterns: cfg.OriginPatterns,
		Logger:         log,
	}))

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(cfg.RatePerSecond, cfg.RateBurst))
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Post("/drafts", CreateDraft(h, champs, cfg, log))
		r.Route("/drafts/{code}", func(r chi.Router) {
			r.Get("/", GetDraft(h))
			r.Get("/legal", GetLegal(h))
			r.Post("/actions", SubmitAction(h, champs))
			r.Get("/recommendations", GetRecommendations(h, cfg.TopN))
		})
		r.Get("/champions/{ref}", GetChampion(champs))
		if cfg.History != nil {
			r.Get("/history", ListHistory(cfg.History))
			r.Get("/history/{sessionID}", GetHistory(cfg.History))
		}
	})
	return r
}
