package signal

import (
	"testing"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	aatroxTop = Slot{ChampionID: 266, Role: domain.RoleTop}
	leeJungle = Slot{ChampionID: 64, Role: domain.RoleJungle}
	dariusTop = Slot{ChampionID: 122, Role: domain.RoleTop}
)

func TestSmooth(t *testing.T) {
	assert.InDelta(t, 0.5238, Smooth(1, 1, 0.5, 20), 1e-4)
	assert.InDelta(t, 0.60, Smooth(1, 5, 0.5, 20), 1e-9)
	assert.Equal(t, 0.5, Smooth(0, 0, 0.5, 20))
	assert.Equal(t, 0.5, Smooth(0.9, -3, 0.5, 20))
	assert.Equal(t, 0.7, Smooth(0.7, 0, 0.7, 0))
}

func TestSmooth_ConvergesMonotonically(t *testing.T) {
	for _, r := range []float64{0.2, 0.5, 0.65, 1} {
		prevGap := 1.0
		for games := 1; games <= 1_000_000; games *= 10 {
			gap := r - Smooth(r, games, 0.5, 20)
			if gap < 0 {
				gap = -gap
			}
			assert.LessOrEqual(t, gap, prevGap, "r=%v games=%d", r, games)
			prevGap = gap
		}
		assert.InDelta(t, r, Smooth(r, 1_000_000, 0.5, 20), 1e-4)
	}
}

func TestSynergyTable_IsSymmetric(t *testing.T) {
	tbl := NewSynergyTable()
	require.NoError(t, tbl.Add(aatroxTop, leeJungle, PairStat{WinRate: 0.55, SampleCount: 400}))

	ab, err := tbl.Synergy(aatroxTop, leeJungle)
	require.NoError(t, err)
	ba, err := tbl.Synergy(leeJungle, aatroxTop)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
	assert.InDelta(t, 220.0, ab.Wins(), 1e-9)

	missing, err := tbl.Synergy(aatroxTop, dariusTop)
	require.NoError(t, err)
	assert.Equal(t, PairStat{}, missing)
}

func TestCounterTable_StoresComplement(t *testing.T) {
	tbl := NewCounterTable()
	require.NoError(t, tbl.Add(aatroxTop, dariusTop, PairStat{WinRate: 0.46, SampleCount: 1000}))

	got, _ := tbl.Counter(dariusTop, aatroxTop)
	assert.InDelta(t, 0.54, got.WinRate, 1e-9)
	assert.Equal(t, 1000, got.SampleCount)

	// An explicit reverse record wins over the derived one.
	require.NoError(t, tbl.Add(dariusTop, aatroxTop, PairStat{WinRate: 0.52, SampleCount: 900}))
	got, _ = tbl.Counter(dariusTop, aatroxTop)
	assert.Equal(t, PairStat{WinRate: 0.52, SampleCount: 900}, got)
	got, _ = tbl.Counter(aatroxTop, dariusTop)
	assert.Equal(t, PairStat{WinRate: 0.46, SampleCount: 1000}, got)
	assert.Equal(t, 2, tbl.Len())
}

func TestPairTable_RejectsBadStats(t *testing.T) {
	tbl := NewSynergyTable()
	assert.ErrorIs(t, tbl.Add(aatroxTop, leeJungle, PairStat{WinRate: 1.2, SampleCount: 3}), domain.ErrConfiguration)
	assert.ErrorIs(t, tbl.Add(aatroxTop, leeJungle, PairStat{WinRate: 0.5, SampleCount: -1}), domain.ErrConfiguration)
	assert.Equal(t, 0, tbl.Len())
}

func TestMetaIndex(t *testing.T) {
	idx := NewMetaIndex([]domain.Champion{{
		ID:   266,
		Name: "Aatrox",
		Roles: map[domain.Role]domain.RoleStats{
			domain.RoleTop: {PickRate: 0.1, WinRate: 0.51, SampleCount: 5000},
		},
	}})

	st, err := idx.Meta(266, domain.RoleTop)
	require.NoError(t, err)
	assert.Equal(t, 0.51, st.WinRate)

	_, err = idx.Meta(266, domain.RoleUtility)
	assert.ErrorIs(t, err, domain.ErrSignalProvider)
	_, err = idx.Meta(1, domain.RoleTop)
	assert.ErrorIs(t, err, domain.ErrSignalProvider)
}

func TestBaselineModel(t *testing.T) {
	idx := NewMetaIndex([]domain.Champion{
		{ID: 266, Name: "Aatrox", Roles: map[domain.Role]domain.RoleStats{domain.RoleTop: {WinRate: 0.56, SampleCount: 10000}}},
		{ID: 122, Name: "Darius", Roles: map[domain.Role]domain.RoleStats{domain.RoleTop: {WinRate: 0.47, SampleCount: 10000}}},
	})
	m := NewBaselineModel(idx, 0.5, 20)

	empty, err := m.WinProbability(DraftContext{Side: domain.TeamBlue})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, empty, 1e-12)

	blue := []Slot{aatroxTop}
	red := []Slot{dariusTop}
	pBlue, err := m.WinProbability(DraftContext{Side: domain.TeamBlue, Blue: blue, Red: red})
	require.NoError(t, err)
	pRed, err := m.WinProbability(DraftContext{Side: domain.TeamRed, Blue: blue, Red: red})
	require.NoError(t, err)

	assert.Greater(t, pBlue, 0.5)
	assert.Less(t, pBlue, 1.0)
	assert.InDelta(t, 1.0, pBlue+pRed, 1e-12)

	// Unknown slot reads as the prior.
	unknown, err := m.WinProbability(DraftContext{Side: domain.TeamBlue, Blue: []Slot{{ChampionID: 9, Role: domain.RoleTop}}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, unknown, 1e-12)
}
