package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

// RecommendationCache implements session.RecommendationCache. Entries are
// keyed by draft position, so two sessions that reach the same bans and picks
// share a list.
//
// Key schema:
//
//	draft:recs:{namespace}:{side}:{fingerprint} - JSON list, expires after ttl
type RecommendationCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewRecommendationCache stores lists for ttl. namespace separates lists
// scored under different options; see Namespace.
func NewRecommendationCache(c *Client, ttl time.Duration, namespace string) *RecommendationCache {
	return &RecommendationCache{rdb: c.Underlying(), ttl: ttl, namespace: namespace}
}

// Namespace derives a cache namespace from the scoring options and the
// catalog digest, so neither a config change nor a catalog reseed serves lists
// scored under the old inputs.
func Namespace(opts recommend.Options, catalogDigest string) string {
	h := xxhash.New()
	_, _ = h.WriteString(catalogDigest)
	_, _ = h.WriteString("|")
	for _, v := range []float64{
		opts.Weights.WinProb, opts.Weights.Synergy, opts.Weights.Counter, opts.Weights.Meta,
		opts.Smoothing.PriorMean, opts.Smoothing.PriorStrength,
	} {
		_, _ = h.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		_, _ = h.WriteString("|")
	}
	return strconv.FormatUint(h.Sum64(), 36)
}

// Fingerprint identifies a draft position: the remaining format and every
// ban and pick made so far, in order.
func Fingerprint(st engine.State) string {
	h := xxhash.New()
	for _, step := range st.Order {
		fmt.Fprintf(h, "%s:%s;", step.Team, step.Action)
	}
	_, _ = h.WriteString("/")
	for _, a := range st.Actions {
		fmt.Fprintf(h, "%s:%s:%d:%s;", a.Team, a.Type, a.ChampionID, a.Role)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func (c *RecommendationCache) key(st engine.State, side domain.Team) string {
	return fmt.Sprintf("draft:recs:%s:%s:%s", c.namespace, side, Fingerprint(st))
}

func (c *RecommendationCache) Load(ctx context.Context, st engine.State, side domain.Team) ([]recommend.Recommendation, bool, error) {
	key := c.key(st, side)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	var recs []recommend.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, false, fmt.Errorf("redis: unmarshal %s: %w", key, err)
	}
	return recs, true, nil
}

func (c *RecommendationCache) Store(ctx context.Context, st engine.State, side domain.Team, recs []recommend.Recommendation) error {
	key := c.key(st, side)
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
