package web // nolint:testpackage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"tennistinder/internal/back"
	"tennistinder/internal/config"
	"tennistinder/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart"
)

func createTestServer(t *testing.T) (*Server, map[string]int64) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(store.DriverSQLite, "file:"+path+"?_foreign_keys=on&_txlock=immediate")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())

	b := back.New(st, 0)
	_, err = b.ImportPlayers(context.Background(), strings.NewReader("A,B\nAna,Marc\nBen,Nina\nChloe,\nDavid,\n"))
	require.NoError(t, err)

	players, err := b.ListPlayers(context.Background(), "")
	require.NoError(t, err)
	ids := make(map[string]int64, len(players))
	for _, v := range players {
		ids[v.Name] = v.ID
	}

	conf := config.Default()
	conf.RateLimit = 0

	return NewServer(b, &conf), ids
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

// Responses are decoded into their wire shape, only the fields asserted on.
type (
	playerJSON struct {
		ID     int64      `json:"id"`
		Name   string     `json:"name"`
		Group  back.Group `json:"group"`
		Rating int        `json:"rating"`
		Wins   int        `json:"wins"`
	}

	teamJSON struct {
		ID          int64      `json:"id"`
		Active      bool       `json:"active"`
		Group       back.Group `json:"group"`
		Player1Name string     `json:"player1_name"`
	}

	matchJSON struct {
		ID               int64  `json:"id"`
		Ref              string `json:"ref"`
		Side1Player1Name string `json:"side1_player1_name"`
	}

	matchResultJSON struct {
		MatchID     int64          `json:"match_id"`
		Ref         string         `json:"ref"`
		Kind        back.MatchKind `json:"kind"`
		WinnerDelta int            `json:"winner_delta"`
		LoserDelta  int            `json:"loser_delta"`
		Side2Names  []string       `json:"side2_names"`
	}

	matchupJSON struct {
		Side1 []playerJSON `json:"side1"`
		Side2 []playerJSON `json:"side2"`
	}

	leaderboardEntryJSON struct {
		Rank int    `json:"rank"`
		Name string `json:"name"`
	}
)

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp errorResponse
	decodeBody(t, w, &resp)

	return resp.Error.Code
}

func body(t *testing.T, v interface{}) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return string(data)
}

func TestRecordMatchEndpoint(t *testing.T) {
	s, ids := createTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/matches", body(t, recordMatchRequest{
		Side1:  []int64{ids["Ana"], ids["Ben"]},
		Side2:  []int64{ids["Chloe"], ids["David"]},
		Winner: back.SideTwo,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res matchResultJSON
	decodeBody(t, w, &res)
	assert.NotEmpty(t, res.Ref)
	assert.Equal(t, 16, res.WinnerDelta)
	assert.Equal(t, -16, res.LoserDelta)
	assert.Equal(t, back.MatchKindDoubles, res.Kind)
	assert.Equal(t, []string{"Chloe", "David"}, res.Side2Names)

	w = do(t, s, http.MethodGet, "/v1/matches?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var matches []matchJSON
	decodeBody(t, w, &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, res.MatchID, matches[0].ID)
	assert.Equal(t, res.Ref, matches[0].Ref)
	assert.Equal(t, "Ana", matches[0].Side1Player1Name)
}

func TestRecordMatchEndpointErrors(t *testing.T) {
	s, ids := createTestServer(t)

	cases := []struct {
		name string
		body string
		code int
		err  string
	}{
		{
			"oversized side",
			body(t, recordMatchRequest{Side1: []int64{ids["Ana"], ids["Ben"], ids["Chloe"]}, Side2: []int64{ids["David"]}, Winner: 1}),
			http.StatusBadRequest, back.RuleSideSize,
		},
		{
			"uneven sides",
			body(t, recordMatchRequest{Side1: []int64{ids["Ana"]}, Side2: []int64{ids["Ben"], ids["Chloe"]}, Winner: 1}),
			http.StatusBadRequest, back.RuleSideArity,
		},
		{
			"bad winner",
			body(t, recordMatchRequest{Side1: []int64{ids["Ana"]}, Side2: []int64{ids["Ben"]}, Winner: 3}),
			http.StatusBadRequest, back.RuleInvalidWinner,
		},
		{
			"cross group",
			body(t, recordMatchRequest{Side1: []int64{ids["Ana"]}, Side2: []int64{ids["Marc"]}, Winner: 1}),
			http.StatusBadRequest, back.RuleGroupMismatch,
		},
		{
			"unknown player",
			body(t, recordMatchRequest{Side1: []int64{ids["Ana"]}, Side2: []int64{9999}, Winner: 1}),
			http.StatusNotFound, "not_found",
		},
		{"malformed", `{"side1": [`, http.StatusBadRequest, "bad_request"},
		{"unknown field", `{"side3": [1]}`, http.StatusBadRequest, "bad_request"},
	}

	for _, v := range cases {
		t.Run(v.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/v1/matches", v.body)
			assert.Equal(t, v.code, w.Code, w.Body.String())
			assert.Equal(t, v.err, errorCode(t, w))
		})
	}

	w := do(t, s, http.MethodGet, "/v1/matches", "")
	var matches []matchJSON
	decodeBody(t, w, &matches)
	assert.Empty(t, matches)
}

func TestTeamsEndpoints(t *testing.T) {
	s, ids := createTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/teams", body(t, map[string]int64{
		"player1_id": ids["Ana"],
		"player2_id": ids["Ben"],
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var team teamJSON
	decodeBody(t, w, &team)
	assert.True(t, team.Active)
	assert.Equal(t, "Ana", team.Player1Name)
	assert.Equal(t, back.GroupA, team.Group)

	w = do(t, s, http.MethodPost, "/v1/teams", body(t, map[string]int64{
		"player1_id": ids["Ben"],
		"player2_id": ids["Ana"],
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, back.RuleTeamExists, errorCode(t, w))

	target := "/v1/teams/" + strconv.FormatInt(team.ID, 10)
	w = do(t, s, http.MethodPatch, target, `{"active": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &team)
	assert.False(t, team.Active)

	w = do(t, s, http.MethodPatch, target, `{"rating": 3000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPatch, "/v1/teams/9999", `{"active": true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/v1/teams", "")
	var teams []teamJSON
	decodeBody(t, w, &teams)
	require.Len(t, teams, 1)
	assert.False(t, teams[0].Active)
}

func TestPlayersEndpoints(t *testing.T) {
	s, _ := createTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/players/import", strings.NewReader("B\n  Emma   Watson \nNina\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report back.ImportReport
	decodeBody(t, w, &report)
	assert.Equal(t, back.ImportReport{Created: 1, Skipped: 1}, report)

	w = do(t, s, http.MethodGet, "/v1/players?group=b", "")
	require.Equal(t, http.StatusOK, w.Code)
	var players []playerJSON
	decodeBody(t, w, &players)
	assert.Len(t, players, 3)

	var emma playerJSON
	for _, v := range players {
		if v.Name == "Emma Watson" {
			emma = v
		}
	}
	require.NotZero(t, emma.ID, "imported names keep their casing")

	w = do(t, s, http.MethodGet, "/v1/players/"+strconv.FormatInt(emma.ID, 10), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var player playerJSON
	decodeBody(t, w, &player)
	assert.Equal(t, emma, player)

	w = do(t, s, http.MethodGet, "/v1/players/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))

	w = do(t, s, http.MethodGet, "/v1/players/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", errorCode(t, w))

	w = do(t, s, http.MethodGet, "/v1/players?group=Z", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, back.RuleInvalidGroup, errorCode(t, w))
}

func TestPreviewAndMatchupEndpoints(t *testing.T) {
	s, ids := createTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/preview", body(t, previewRequest{
		Side1: []int64{ids["Ana"]},
		Side2: []int64{ids["Ben"]},
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview back.Preview
	decodeBody(t, w, &preview)
	assert.Equal(t, 100, preview.Competitiveness)
	assert.Equal(t, 16, preview.IfSide1Wins.WinnerDelta)
	assert.Equal(t, 32, preview.KFactor)

	w = do(t, s, http.MethodPost, "/v1/preview", body(t, previewRequest{
		Side1: []int64{ids["Ana"]},
		Side2: []int64{ids["Marc"]},
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, back.RuleGroupMismatch, errorCode(t, w))

	w = do(t, s, http.MethodPost, "/v1/matchups/random", `{"group": "a", "kind": "doubles"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var matchup matchupJSON
	decodeBody(t, w, &matchup)
	assert.Len(t, matchup.Side1, 2)
	assert.Len(t, matchup.Side2, 2)

	w = do(t, s, http.MethodPost, "/v1/matchups/random", `{"group": "B", "kind": "doubles"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, back.RuleNotEnoughPlayers, errorCode(t, w))
}

func TestLeaderboardEndpoints(t *testing.T) {
	s, ids := createTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/matches", body(t, recordMatchRequest{
		Side1:  []int64{ids["Chloe"]},
		Side2:  []int64{ids["David"]},
		Winner: back.SideOne,
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/v1/leaderboard/A", "")
	require.Equal(t, http.StatusOK, w.Code)
	var leaderboard []leaderboardEntryJSON
	decodeBody(t, w, &leaderboard)
	require.Len(t, leaderboard, 4)
	assert.Equal(t, "Chloe", leaderboard[0].Name)
	assert.Equal(t, 1, leaderboard[0].Rank)
	assert.Equal(t, 2, leaderboard[1].Rank)
	assert.Equal(t, 2, leaderboard[2].Rank)
	assert.Equal(t, "David", leaderboard[3].Name)

	w = do(t, s, http.MethodGet, "/v1/leaderboard/C", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/v1/leaderboard.xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())

	w = do(t, s, http.MethodGet, "/v1/stats/ratings/A.svg", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
}

func TestIndexAndNotFound(t *testing.T) {
	s, _ := createTestServer(t)

	w := do(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tennis Tinder API")

	w = do(t, s, http.MethodGet, "/v2/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorCode(t, w))
}

func TestGetRatingsBars(t *testing.T) {
	players := []back.Player{{Rating: 1210}, {Rating: 1190}, {Rating: 1310}, {Rating: 1300}}
	bars, maxValue := getRatingsBars(players, chart.Style{})

	require.Len(t, bars, 3)
	assert.Equal(t, "1200", bars[0].Label)
	assert.Equal(t, 0.5, bars[0].Value)
	assert.Equal(t, "1250", bars[1].Label)
	assert.Zero(t, bars[1].Value)
	assert.Equal(t, "1300", bars[2].Label)
	assert.Equal(t, 0.5, maxValue)
}

func TestRateLimit(t *testing.T) {
	h := rateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, serve("192.0.2.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, serve("192.0.2.1:4321"))
	assert.Equal(t, http.StatusNoContent, serve("192.0.2.2:1234"))
}

func TestIPLimiterSweep(t *testing.T) {
	now := time.Now()
	l := newIPLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	l.get("192.0.2.1")
	now = now.Add(2 * time.Minute)
	l.get("192.0.2.2")
	assert.Len(t, l.visitors, 2)

	now = now.Add(time.Minute + time.Second)
	l.get("192.0.2.3")
	assert.Len(t, l.visitors, 2)
	assert.NotContains(t, l.visitors, "192.0.2.1")
	assert.Contains(t, l.visitors, "192.0.2.2")
}
