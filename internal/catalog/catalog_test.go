package catalog

import (
	"maps"
	"slices"
	"testing"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDemo_Builds(t *testing.T) {
	c, err := Demo()
	require.NoError(t, err)
	assert.Equal(t, len(DemoChampions()), c.Directory.Len())

	k, err := c.Directory.Resolve("kaisa")
	require.NoError(t, err)
	assert.Equal(t, 145, k.ID)

	// Synergy is symmetric; counters are stored with their complement.
	xayah := signal.Slot{ChampionID: 498, Role: domain.RoleBottom}
	rakan := signal.Slot{ChampionID: 497, Role: domain.RoleUtility}
	assert.Equal(t, c.Synergy.Lookup(xayah, rakan), c.Synergy.Lookup(rakan, xayah))

	garen := signal.Slot{ChampionID: 86, Role: domain.RoleTop}
	jayce := signal.Slot{ChampionID: 126, Role: domain.RoleTop}
	assert.InDelta(t, 0.459, c.Counter.Lookup(jayce, garen).WinRate, 1e-9)
}

func TestBuild_RejectsBadPairs(t *testing.T) {
	champs := []domain.Champion{
		{ID: 1, Name: "One", Roles: map[domain.Role]domain.RoleStats{domain.RoleTop: {PickRate: 0.1}}},
		{ID: 2, Name: "Two", Roles: map[domain.Role]domain.RoleStats{domain.RoleMiddle: {PickRate: 0.1}}},
	}
	_, err := Build(champs, []PairModel{
		{Kind: KindSynergy, ChampionA: 1, RoleA: "TOP", ChampionB: 99, RoleB: "MIDDLE", WinRate: 0.5},
		{Kind: "rivalry", ChampionA: 1, RoleA: "TOP", ChampionB: 2, RoleB: "MIDDLE", WinRate: 0.5},
		{Kind: KindCounter, ChampionA: 1, RoleA: "TOP", ChampionB: 2, RoleB: "MIDDLE", WinRate: 1.5},
		{Kind: KindCounter, ChampionA: 1, RoleA: "LANE", ChampionB: 2, RoleB: "MIDDLE", WinRate: 0.5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Len(t, multierr.Errors(err), 4)
}

func TestBuild_Digest(t *testing.T) {
	champs, pairs := DemoChampions(), DemoPairs()
	base, err := Build(champs, pairs)
	require.NoError(t, err)
	require.NotEmpty(t, base.Digest)

	// Load order does not matter.
	reversed := slices.Clone(champs)
	slices.Reverse(reversed)
	swapped := slices.Clone(pairs)
	slices.Reverse(swapped)
	same, err := Build(reversed, swapped)
	require.NoError(t, err)
	assert.Equal(t, base.Digest, same.Digest)

	// A reseed with new ladder numbers does.
	changed := slices.Clone(champs)
	c := changed[0]
	c.Roles = maps.Clone(c.Roles)
	for r, st := range c.Roles {
		st.WinRate += 0.01
		c.Roles[r] = st
	}
	changed[0] = c
	other, err := Build(changed, pairs)
	require.NoError(t, err)
	assert.NotEqual(t, base.Digest, other.Digest)

	fewer, err := Build(champs, pairs[1:])
	require.NoError(t, err)
	assert.NotEqual(t, base.Digest, fewer.Digest)
}

func TestBuild_RejectsBadChampions(t *testing.T) {
	_, err := Build([]domain.Champion{{ID: 1, Name: "No Roles"}}, nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestChampionModel_RoundTrip(t *testing.T) {
	c := DemoChampions()[14] // Yasuo, three roles
	require.Equal(t, "Yasuo", c.Name)

	m := championModel(c)
	require.Len(t, m.Roles, 3)
	assert.Equal(t, string(domain.RoleMiddle), m.Roles[0].Role, "most picked role first")

	back, err := m.toDomain()
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestChampionModel_BadRole(t *testing.T) {
	m := ChampionModel{ID: 1, Name: "x", Roles: []RoleStatModel{{ChampionID: 1, Role: "LANE"}}}
	_, err := m.toDomain()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestProviders(t *testing.T) {
	c, err := Demo()
	require.NoError(t, err)
	p := c.Providers(recommend.DefaultSmoothing())
	require.NotNil(t, p.WinProb)

	eng, err := recommend.NewEngine(c.Directory, p, recommend.DefaultOptions())
	require.NoError(t, err)
	assert.NotNil(t, eng)
}
