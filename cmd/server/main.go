// Command server runs the draft service: the HTTP and WebSocket API in front
// of the session hub.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/config"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/httpapi"
	"github.com/DoyleJ11/lol-draft-advisor/internal/hub"
	"github.com/DoyleJ11/lol-draft-advisor/internal/logging"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	seed := flag.Bool("seed-catalog", false, "write the demo catalog to the catalog database and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	if *seed {
		err = seedCatalog(ctx, cfg, log)
	} else {
		err = run(ctx, cfg, log)
	}
	stop()
	if err != nil {
		log.Error("server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("server stopped")
	_ = log.Sync()
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	var cl closers
	defer func() { err = multierr.Append(err, cl.Close()) }()

	cat, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	opts := cfg.RecommendOptions()
	rec, err := recommend.NewEngine(cat.Directory, cat.Providers(opts.Smoothing), opts)
	if err != nil {
		return err
	}
	sink, history, err := historySinks(ctx, cfg, log, &cl)
	if err != nil {
		return err
	}
	cache, err := recommendationCache(ctx, cfg, opts, cat.Digest, &cl)
	if err != nil {
		return err
	}
	autopilot, err := cfg.AutopilotTeams()
	if err != nil {
		return err
	}

	// Sessions outlive the signal until the HTTP server has drained.
	h := hub.NewHub(context.WithoutCancel(ctx), session.Deps{
		Machine:     engine.NewMachine(cat.Directory),
		Catalog:     cat.Directory,
		Recommender: rec,
		WinProb:     cat.Providers(opts.Smoothing).WinProb,
		Sink:        sink,
		Cache:       cache,
		Logger:      log,
	}, hub.WithRetention(cfg.Draft.Retention))

	handler := httpapi.SetupRoutes(h, cat.Directory, httpapi.Config{
		Format:         cfg.Draft.Turns,
		FormatName:     cfg.Draft.Name,
		Autopilot:      autopilot,
		TopN:           cfg.Recommend.TopN,
		RatePerSecond:  cfg.Server.RatePerSecond,
		RateBurst:      cfg.Server.RateBurst,
		RequestTimeout: cfg.Server.RequestTimeout,
		OriginPatterns: cfg.Server.OriginPatterns,
		History:        history,
	}, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.Int("champions", cat.Directory.Len()))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		h.Close()
		return err
	})
	return g.Wait()
}
