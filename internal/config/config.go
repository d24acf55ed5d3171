// Package config loads the service configuration from a TOML file, a .env
// file and DRAFT_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DRAFT_"

type Config struct {
	Server    ServerConfig    `toml:"server" envPrefix:"SERVER_"`
	Log       LogConfig       `toml:"log" envPrefix:"LOG_"`
	Draft     DraftConfig     `toml:"draft" envPrefix:"FORMAT_"`
	Recommend RecommendConfig `toml:"recommend" envPrefix:"RECOMMEND_"`
	Catalog   CatalogConfig   `toml:"catalog" envPrefix:"CATALOG_"`
	History   HistoryConfig   `toml:"history" envPrefix:"HISTORY_"`
	Redis     RedisConfig     `toml:"redis" envPrefix:"REDIS_"`
	S3        S3Config        `toml:"s3" envPrefix:"S3_"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port            int           `toml:"port" env:"PORT"`
	RatePerSecond   float64       `toml:"rate_per_second" env:"RATE_PER_SECOND"`
	RateBurst       int           `toml:"rate_burst" env:"RATE_BURST"`
	RequestTimeout  time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	OriginPatterns  []string      `toml:"origin_patterns" env:"ORIGIN_PATTERNS" envSeparator:","`
}

type LogConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// DraftConfig is the format every new draft starts with.
type DraftConfig struct {
	Name      string          `toml:"name" env:"NAME"`
	Turns     engine.TurnSpec `toml:"turns"`
	Autopilot []string        `toml:"autopilot" env:"AUTOPILOT" envSeparator:","`
	// Retention is how long a completed draft stays readable before it is
	// evicted. Zero evicts it as soon as its history is written.
	Retention time.Duration `toml:"retention" env:"RETENTION"`
}

type RecommendConfig struct {
	Weights     recommend.Weights   `toml:"weights" envPrefix:"WEIGHT_"`
	Smoothing   recommend.Smoothing `toml:"smoothing" envPrefix:"SMOOTHING_"`
	TopN        int                 `toml:"top_n" env:"TOP_N"`
	Parallelism int                 `toml:"parallelism" env:"PARALLELISM"`
}

// CatalogConfig locates champion and signal data. An empty DSN serves the
// built-in demo catalog.
type CatalogConfig struct {
	DSN string `toml:"dsn" env:"DSN"`
}

// HistoryConfig selects where completed drafts are written. Every configured
// target receives each record.
type HistoryConfig struct {
	PostgresDSN string `toml:"postgres_dsn" env:"POSTGRES_DSN"`
	SQLitePath  string `toml:"sqlite_path" env:"SQLITE_PATH"`
}

type RedisConfig struct {
	Addr     string        `toml:"addr" env:"ADDR"`
	Password string        `toml:"password" env:"PASSWORD"`
	DB       int           `toml:"db" env:"DB"`
	TTL      time.Duration `toml:"ttl" env:"TTL"`
}

type S3Config struct {
	Bucket         string `toml:"bucket" env:"BUCKET"`
	Prefix         string `toml:"prefix" env:"PREFIX"`
	Region         string `toml:"region" env:"REGION"`
	Endpoint       string `toml:"endpoint" env:"ENDPOINT"`
	AccessKey      string `toml:"access_key" env:"ACCESS_KEY"`
	SecretKey      string `toml:"secret_key" env:"SECRET_KEY"`
	ForcePathStyle bool   `toml:"force_path_style" env:"FORCE_PATH_STYLE"`
}

// Defaults returns a Config that runs a standalone server with the demo
// catalog and no persistence.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			RatePerSecond:   20,
			RateBurst:       40,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Draft: DraftConfig{
			Name:      "tournament",
			Turns:     engine.DefaultTurnSpec(),
			Retention: 10 * time.Minute,
		},
		Recommend: RecommendConfig{
			Weights:   recommend.DefaultWeights(),
			Smoothing: recommend.DefaultSmoothing(),
			TopN:      recommend.DefaultTopN,
		},
		Redis: RedisConfig{TTL: 10 * time.Minute},
		S3:    S3Config{Prefix: "drafts/", Region: "us-east-1"},
	}
}

// AutopilotTeams parses Draft.Autopilot.
func (c *Config) AutopilotTeams() ([]domain.Team, error) {
	out := make([]domain.Team, 0, len(c.Draft.Autopilot))
	for _, s := range c.Draft.Autopilot {
		t, err := domain.ParseTeam(s)
		if err != nil {
			return nil, fmt.Errorf("%w: autopilot: %v", domain.ErrConfiguration, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// RecommendOptions converts the recommend section for recommend.NewEngine.
func (c *Config) RecommendOptions() recommend.Options {
	return recommend.Options{
		Weights:     c.Recommend.Weights,
		Smoothing:   c.Recommend.Smoothing,
		Parallelism: c.Recommend.Parallelism,
	}
}

// Validate reports every problem at once. Each is wrapped in
// domain.ErrConfiguration.
func (c *Config) Validate() error {
	var errs error
	add := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrConfiguration}, args...)...))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RatePerSecond < 0 {
		add("server.rate_per_second must not be negative")
	}
	if c.Server.RatePerSecond > 0 && c.Server.RateBurst < 1 {
		add("server.rate_burst must be at least 1 when rate limiting is on")
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		add("server timeouts must not be negative")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		add("log.format %q: want json or console", c.Log.Format)
	}

	errs = multierr.Append(errs, c.Draft.Turns.Validate())
	if c.Draft.Retention < 0 {
		add("draft.retention must not be negative")
	}
	if _, err := c.AutopilotTeams(); err != nil {
		errs = multierr.Append(errs, err)
	}

	errs = multierr.Append(errs, c.Recommend.Weights.Validate())
	errs = multierr.Append(errs, c.Recommend.Smoothing.Validate())
	if c.Recommend.TopN < 1 {
		add("recommend.top_n must be at least 1, got %d", c.Recommend.TopN)
	}
	if c.Recommend.Parallelism < 0 {
		add("recommend.parallelism must not be negative")
	}

	if c.Redis.DB < 0 {
		add("redis.db must not be negative")
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		add("redis.ttl must be positive")
	}
	if c.S3.Bucket != "" && c.S3.Region == "" {
		add("s3.region is required when s3.bucket is set")
	}
	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		add("s3.access_key and s3.secret_key must be set together")
	}
	return errs
}
