package redis

import (
	"testing"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, st engine.State, actions ...engine.Action) engine.State {
	t.Helper()
	m := engine.NewMachine(nil)
	for _, a := range actions {
		var err error
		_, st, err = m.Apply(st, a)
		require.NoError(t, err)
	}
	return st
}

func TestFingerprint(t *testing.T) {
	start, err := engine.Initialize(engine.DefaultTurnSpec())
	require.NoError(t, err)

	ban := engine.Action{Team: domain.TeamBlue, Type: engine.ActionBan, ChampionID: 103}
	a := apply(t, start, ban)
	b := apply(t, start, ban)
	other := apply(t, start, engine.Action{Team: domain.TeamBlue, Type: engine.ActionBan, ChampionID: 266})

	assert.Equal(t, Fingerprint(a), Fingerprint(b), "same position, same key")
	assert.NotEqual(t, Fingerprint(a), Fingerprint(other))
	assert.NotEqual(t, Fingerprint(start), Fingerprint(a))

	short, err := engine.Initialize(engine.TurnSpec{{Team: domain.TeamBlue, Action: engine.ActionBan, Count: 1}})
	require.NoError(t, err)
	assert.NotEqual(t, Fingerprint(start), Fingerprint(short), "format is part of the position")
}

func TestFingerprint_RoleMatters(t *testing.T) {
	st, err := engine.Initialize(engine.TurnSpec{{Team: domain.TeamBlue, Action: engine.ActionPick, Count: 2}})
	require.NoError(t, err)
	top := apply(t, st, engine.Action{Team: domain.TeamBlue, Type: engine.ActionPick, ChampionID: 266, Role: domain.RoleTop})
	mid := apply(t, st, engine.Action{Team: domain.TeamBlue, Type: engine.ActionPick, ChampionID: 266, Role: domain.RoleMiddle})
	assert.NotEqual(t, Fingerprint(top), Fingerprint(mid))
}

func TestKey(t *testing.T) {
	st, err := engine.Initialize(engine.DefaultTurnSpec())
	require.NoError(t, err)
	c := &RecommendationCache{ttl: time.Minute, namespace: "ns"}

	assert.Equal(t, "draft:recs:ns:red:"+Fingerprint(st), c.key(st, domain.TeamRed))
	assert.NotEqual(t, c.key(st, domain.TeamRed), c.key(st, domain.TeamBlue))
}

func TestNamespace(t *testing.T) {
	opts := recommend.DefaultOptions()
	base := Namespace(recommend.DefaultOptions(), "cat1")
	assert.Equal(t, base, Namespace(opts, "cat1"))

	// Parallelism does not change the ranking.
	opts.Parallelism = 8
	assert.Equal(t, base, Namespace(opts, "cat1"))

	// A reseeded catalog starts a fresh namespace.
	assert.NotEqual(t, base, Namespace(opts, "cat2"))

	opts.Weights.Meta, opts.Weights.WinProb = 0.2, 0.3
	assert.NotEqual(t, base, Namespace(opts, "cat1"))
}
