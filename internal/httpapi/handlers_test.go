package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DoyleJ11/lol-draft-advisor/internal/champion"
	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/DoyleJ11/lol-draft-advisor/internal/engine"
	"github.com/DoyleJ11/lol-draft-advisor/internal/hub"
	"github.com/DoyleJ11/lol-draft-advisor/internal/recommend"
	"github.com/DoyleJ11/lol-draft-advisor/internal/session"
	"github.com/DoyleJ11/lol-draft-advisor/internal/signal"
	"github.com/DoyleJ11/lol-draft-advisor/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortFormat is one blue ban followed by one red pick.
func shortFormat() engine.TurnSpec {
	return engine.TurnSpec{
		{Team: domain.TeamBlue, Action: engine.ActionBan, Count: 1},
		{Team: domain.TeamRed, Action: engine.ActionPick, Count: 1},
	}
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, cfg, nil)
}

// newTestServerWith lets a test adjust the session dependencies, e.g. to add a
// history sink.
func newTestServerWith(t *testing.T, cfg Config, adjust func(*session.Deps)) *httptest.Server {
	t.Helper()
	d, err := champion.New([]domain.Champion{
		{ID: 266, Name: "Aatrox", Roles: map[domain.Role]domain.RoleStats{domain.RoleTop: {PickRate: 0.1, WinRate: 0.5, SampleCount: 100}}},
		{ID: 103, Name: "Ahri", Roles: map[domain.Role]domain.RoleStats{domain.RoleMiddle: {PickRate: 0.1, WinRate: 0.52, SampleCount: 100}}},
		{ID: 145, Name: "Kai'Sa", Roles: map[domain.Role]domain.RoleStats{domain.RoleBottom: {PickRate: 0.2, WinRate: 0.49, SampleCount: 100}}},
	})
	require.NoError(t, err)
	meta := signal.NewMetaIndex(d.All())
	rec, err := recommend.NewEngine(d, signal.Providers{Meta: meta, WinProb: signal.NewBaselineModel(meta, 0.5, 20)}, recommend.DefaultOptions())
	require.NoError(t, err)

	deps := session.Deps{Machine: engine.NewMachine(d), Catalog: d, Recommender: rec}
	if adjust != nil {
		adjust(&deps)
	}
	h := hub.NewHub(context.Background(), deps)
	t.Cleanup(func() { h.Inbox() <- hub.ShutdownHub{} })

	if cfg.Format == nil {
		cfg.Format = shortFormat()
	}
	srv := httptest.NewServer(SetupRoutes(h, d, cfg, nil))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createDraft(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/drafts", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[types.CreateDraftResponse](t, resp)
	require.Len(t, created.Code, 6)
	require.NotEmpty(t, created.SessionID)
	return created.Code
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, srv.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDraftLifecycle(t *testing.T) {
	srv := newTestServer(t, Config{TopN: 2})
	code := createDraft(t, srv)
	base := srv.URL + "/drafts/" + code

	resp := do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[types.StateSnapshot](t, resp)
	assert.Equal(t, code, snap.Code)
	assert.Equal(t, 0, snap.Version)
	assert.Equal(t, domain.TeamBlue, snap.ActiveTeam)
	assert.Equal(t, engine.ActionBan, snap.ActiveAction)

	resp = do(t, http.MethodGet, base+"/legal", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	legal := decode[types.LegalResponse](t, resp)
	assert.ElementsMatch(t, []int{103, 145, 266}, legal.Champions)

	// A ban turn is scored for the opponent.
	resp = do(t, http.MethodGet, base+"/recommendations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recs := decode[types.RecommendationsResponse](t, resp)
	assert.Equal(t, "red", recs.Side)
	assert.Len(t, recs.Items, 2)

	resp = do(t, http.MethodPost, base+"/actions", types.ActionRequest{Side: "blue", Action: "ban", Champion: "ahri"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[types.StateSnapshot](t, resp)
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, []int{103}, snap.Bans[domain.TeamBlue])

	resp = do(t, http.MethodPost, base+"/actions", types.ActionRequest{Side: "red", Action: "pick", Champion: "Kai'Sa", Role: "adc"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decode[types.StateSnapshot](t, resp)
	assert.True(t, snap.Completed)

	resp = do(t, http.MethodPost, base+"/actions", types.ActionRequest{Side: "blue", Action: "ban", Champion: "Aatrox"})
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Equal(t, "draft_complete", decode[types.ErrorResponse](t, resp).Code)

	resp = do(t, http.MethodGet, base+"/recommendations", nil)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestSubmitAction_Errors(t *testing.T) {
	srv := newTestServer(t, Config{})
	base := srv.URL + "/drafts/" + createDraft(t, srv)

	tests := []struct {
		name   string
		req    types.ActionRequest
		status int
		code   string
	}{
		{"wrong turn", types.ActionRequest{Side: "red", Action: "ban", Champion: "Ahri"}, http.StatusConflict, "wrong_turn"},
		{"unknown champion", types.ActionRequest{Side: "blue", Action: "ban", Champion: "Nobody"}, http.StatusNotFound, "unknown_champion"},
		{"bad side", types.ActionRequest{Side: "green", Action: "ban", Champion: "Ahri"}, http.StatusBadRequest, "bad_request"},
		{"bad action", types.ActionRequest{Side: "blue", Action: "hover", Champion: "Ahri"}, http.StatusBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, base+"/actions", tt.req)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[types.ErrorResponse](t, resp).Code)
		})
	}

	// Nothing above changed the draft.
	snap := decode[types.StateSnapshot](t, do(t, http.MethodGet, base, nil))
	assert.Equal(t, 0, snap.Version)
}

func TestUnknownDraft(t *testing.T) {
	srv := newTestServer(t, Config{})
	resp := do(t, http.MethodGet, srv.URL+"/drafts/NOPE00", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", decode[types.ErrorResponse](t, resp).Code)
}

func TestGetRecommendations_BadQuery(t *testing.T) {
	srv := newTestServer(t, Config{})
	base := srv.URL + "/drafts/" + createDraft(t, srv)

	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, base+"/recommendations?limit=0", nil).StatusCode)
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, base+"/recommendations?side=purple", nil).StatusCode)

	resp := do(t, http.MethodGet, base+"/recommendations?side=blue&limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recs := decode[types.RecommendationsResponse](t, resp)
	assert.Equal(t, "blue", recs.Side)
	assert.Len(t, recs.Items, 1)
}

func TestCreateDraft_Autopilot(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, srv.URL+"/drafts", types.CreateDraftRequest{Autopilot: []string{"orange"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/drafts", types.CreateDraftRequest{Autopilot: []string{"blue"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	code := decode[types.CreateDraftResponse](t, resp).Code

	// Blue's ban was made on start, so red is on the clock.
	snap := decode[types.StateSnapshot](t, do(t, http.MethodGet, srv.URL+"/drafts/"+code, nil))
	assert.Equal(t, 1, snap.Version)
	assert.Equal(t, domain.TeamRed, snap.ActiveTeam)
	assert.Equal(t, []domain.Team{domain.TeamBlue}, snap.Autopilot)
}

func TestCreateDraft_EmptyChunkedBody(t *testing.T) {
	srv := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/drafts", strings.NewReader(""))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	srv.Config.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/drafts", strings.NewReader("{"))
	req.ContentLength = -1
	rec = httptest.NewRecorder()
	srv.Config.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDraft_Resume(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := do(t, http.MethodPost, srv.URL+"/drafts", types.CreateDraftRequest{
		Actions: []types.ActionRequest{{Side: "blue", Action: "ban", Champion: "Ahri"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	code := decode[types.CreateDraftResponse](t, resp).Code

	snap := decode[types.StateSnapshot](t, do(t, http.MethodGet, srv.URL+"/drafts/"+code, nil))
	assert.Equal(t, []int{103}, snap.Bans[domain.TeamBlue])
	assert.Equal(t, domain.TeamRed, snap.ActiveTeam)

	// Red cannot open the draft.
	resp = do(t, http.MethodPost, srv.URL+"/drafts", types.CreateDraftRequest{
		Actions: []types.ActionRequest{{Side: "red", Action: "ban", Champion: "Ahri"}},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/drafts", types.CreateDraftRequest{
		Actions: []types.ActionRequest{{Side: "blue", Action: "ban", Champion: "Nobody"}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetChampion(t *testing.T) {
	srv := newTestServer(t, Config{})

	resp := do(t, http.MethodGet, srv.URL+"/champions/kaisa", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 145, decode[domain.Champion](t, resp).ID)

	resp = do(t, http.MethodGet, srv.URL+"/champions/266", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Aatrox", decode[domain.Champion](t, resp).Name)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/champions/teemo", nil).StatusCode)
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Config{RatePerSecond: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/drafts/AAAAAA", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/drafts/AAAAAA", nil).StatusCode)
	resp := do(t, http.MethodGet, srv.URL+"/drafts/AAAAAA", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/healthz", nil).StatusCode)
}
