package main

import (
	"context"
	"fmt"

	s3blob "github.com/DoyleJ11/lol-draft-advisor/internal/blob/s3"
	rediscache "github.com/DoyleJ11/lol-draft-advisor/internal/cache/redis"
	"github.com/DoyleJ11/lol-draft-advisor/internal/catalog"
	"github.com/DoyleJ11/lol-draft-advisor/internal/config"
	"github.com/DoyleJ11/lol-draft-advisor/internal/httpapi"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"github.com/DoyleJ11/lol-draft-advisor/internal/store/postgres"
	"github.com/DoyleJ11/lol-draft-advisor/internal/store/sqlite"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// closers release resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(f func() error) { *c = append(*c, f) }

func (c closers) Close() error {
	var errs error
	for i := len(c) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, c[i]())
	}
	return errs
}

func loadCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.DSN == "" {
		log.Warn("no catalog database configured, serving demo catalog")
		return catalog.Demo()
	}
	db, err := catalog.Open(cfg.Catalog.DSN, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	// The catalog is read once; the pool is not needed afterwards.
	defer sqlDB.Close()
	return catalog.Load(ctx, db)
}

func seedCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Catalog.DSN == "" {
		return fmt.Errorf("catalog.dsn is required to seed")
	}
	db, err := catalog.Open(cfg.Catalog.DSN, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer sqlDB.Close()

	if err := catalog.Migrate(db); err != nil {
		return err
	}
	champs, pairs := catalog.DemoChampions(), catalog.DemoPairs()
	if err := catalog.Seed(ctx, db, champs, pairs); err != nil {
		return err
	}
	log.Info("catalog seeded", zap.Int("champions", len(champs)), zap.Int("pairs", len(pairs)))
	return nil
}

// historySinks opens every configured history target. The sink is nil when
// none is configured. Reads are served from Postgres when it is configured,
// otherwise from SQLite; S3 is write-only.
func historySinks(ctx context.Context, cfg *config.Config, log *zap.Logger, cl *closers) (session.HistorySink, httpapi.HistoryReader, error) {
	var (
		sinks  session.MultiSink
		reader httpapi.HistoryReader
	)

	if dsn := cfg.History.PostgresDSN; dsn != "" {
		client, err := postgres.New(ctx, postgres.ClientConfig{DSN: dsn})
		if err != nil {
			return nil, nil, err
		}
		cl.add(client.Close)
		if err := client.RunMigrations(ctx); err != nil {
			return nil, nil, err
		}
		store := postgres.NewHistoryStore(client.Pool())
		sinks = append(sinks, store)
		reader = store
		log.Info("draft history: postgres")
	}
	if path := cfg.History.SQLitePath; path != "" {
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		cl.add(store.Close)
		sinks = append(sinks, store)
		if reader == nil {
			reader = store
		}
		log.Info("draft history: sqlite", zap.String("path", path))
	}
	if cfg.S3.Bucket != "" {
		client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := client.Health(ctx); err != nil {
			log.Warn("s3 bucket not reachable yet", zap.Error(err))
		}
		sinks = append(sinks, s3blob.NewHistoryArchive(client, cfg.S3.Prefix))
		log.Info("draft history: s3", zap.String("bucket", cfg.S3.Bucket))
	}

	switch len(sinks) {
	case 0:
		return nil, reader, nil
	case 1:
		return sinks[0], reader, nil
	default:
		return sinks, reader, nil
	}
}

func recommendationCache(ctx context.Context, cfg *config.Config, opts recommend.Options, catalogDigest string, cl *closers) (session.RecommendationCache, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	client, err := rediscache.New(ctx, rediscache.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	cl.add(client.Close)
	return rediscache.NewRecommendationCache(client, cfg.Redis.TTL, rediscache.Namespace(opts, catalogDigest)), nil
}
