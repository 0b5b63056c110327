package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/config"
	"github.com/pongclub/rally/internal/database"
	"github.com/pongclub/rally/internal/metrics"
	"github.com/pongclub/rally/internal/notifier"
	"github.com/pongclub/rally/internal/pubsub"
	"github.com/pongclub/rally/internal/replay"
	"github.com/pongclub/rally/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	clubStore := club.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	coordinator := replay.New(clubStore, metricsSvc)
	server := NewServer(clubStore, metricsSvc, metricsHandler, cfg, notifier.NewMock(), coordinator, pubsub.NewMock("TEST"))

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
	}
	return server, teardown
}

func doJSON(t *testing.T, server *Server, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		require.NoError(t, json.NewEncoder(body).Encode(payload))
	}
	req := httptest.NewRequest(method, target, body)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func createTestPlayer(t *testing.T, server *Server, name string) club.PlayerInfo {
	t.Helper()

	rr := doJSON(t, server, "POST", "/players", playerRequest{Name: name})
	require.Equal(t, http.StatusCreated, rr.Code)

	var player club.PlayerInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &player))
	return player
}

// runReplay drives the synchronous Pub/Sub push endpoint so derived state is
// settled before the test asserts anything.
func runReplay(t *testing.T, server *Server) {
	t.Helper()

	payload, err := msgpack.Marshal(pubsub.ReplayRequest{Reason: "test"})
	require.NoError(t, err)
	wrapper := map[string]any{
		"subscription": "test-sub",
		"message":      map[string]any{"data": base64.StdEncoding.EncodeToString(payload)},
	}
	rr := doJSON(t, server, "POST", "/pubsub/replay", wrapper)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthCheckHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestCreatePlayerHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	player := createTestPlayer(t, server, "Alice")
	assert.NotEmpty(t, player.ID)
	assert.Equal(t, "Alice", player.Name)
	assert.Equal(t, 1200, player.EloRating)

	t.Run("duplicate name rejected", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/players", playerRequest{Name: "alice"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/players", playerRequest{Name: "  "})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListPlayersHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	createTestPlayer(t, server, "Alice")
	createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "GET", "/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var players []club.PlayerInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 2)
}

func TestGetPlayerHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	runReplay(t, server)

	rr = doJSON(t, server, "GET", "/players/"+alice.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var detail playerDetailResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, 1216, detail.Player.EloRating)
	assert.Equal(t, 1, detail.Stats.Wins)
	assert.Equal(t, []string{"W"}, detail.Stats.RecentForm)
	require.Len(t, detail.History, 1)
	assert.Equal(t, 1216, detail.History[0].RatingAfter)

	require.Len(t, detail.Achievements, 13)
	unlocked := make(map[string]bool)
	for _, badge := range detail.Achievements {
		unlocked[badge.ID] = badge.Unlocked
	}
	assert.True(t, unlocked["first_win"])
	assert.False(t, unlocked["wins_5"])

	t.Run("unknown player", func(t *testing.T) {
		rr := doJSON(t, server, "GET", "/players/nope", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRenamePlayerHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")

	rr := doJSON(t, server, "PUT", "/players/"+alice.ID, playerRequest{Name: "Alicia"})
	require.Equal(t, http.StatusOK, rr.Code)

	var renamed club.PlayerInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &renamed))
	assert.Equal(t, "Alicia", renamed.Name)

	t.Run("unknown player", func(t *testing.T) {
		rr := doJSON(t, server, "PUT", "/players/nope", playerRequest{Name: "Nobody"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeletePlayerHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, server, "DELETE", "/players/"+alice.ID+"?dry_run=true", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, server, "GET", "/players/"+alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Matches involving the deleted player go with them.
	rr = doJSON(t, server, "GET", "/matches", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []*club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	assert.Len(t, matches, 0)
}

func TestCreateMatchHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	t.Run("winner derived from sets", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      []club.SetScore{{P1: 11, P2: 7}, {P1: 7, P2: 11}, {P1: 11, P2: 9}},
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var match club.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))
		assert.Equal(t, alice.ID, match.WinnerID)
		assert.NotEmpty(t, match.ID)
	})

	t.Run("even split is a draw", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      []club.SetScore{{P1: 11, P2: 7}, {P1: 7, P2: 11}},
		})
		require.Equal(t, http.StatusCreated, rr.Code)

		var match club.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))
		assert.Empty(t, match.WinnerID)
	})

	t.Run("unknown player rejected", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: "nope",
			Sets:      []club.SetScore{{P1: 11, P2: 7}},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("doubles requires four players", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			IsDoubles: true,
			Sets:      []club.SetScore{{P1: 11, P2: 7}},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing sets rejected", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("more than nine sets rejected", func(t *testing.T) {
		sets := make([]club.SetScore, 10)
		for i := range sets {
			sets[i] = club.SetScore{P1: 11, P2: 7}
		}
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      sets,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("level set score rejected", func(t *testing.T) {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      []club.SetScore{{P1: 11, P2: 11}},
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateMatchHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var match club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))

	t.Run("flipping the sets flips the winner", func(t *testing.T) {
		rr := doJSON(t, server, "PUT", "/matches/"+match.ID+"?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      []club.SetScore{{P1: 7, P2: 11}},
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var updated club.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, bob.ID, updated.WinnerID)
	})

	t.Run("note only edit persists the note", func(t *testing.T) {
		rr := doJSON(t, server, "PUT", "/matches/"+match.ID+"?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      []club.SetScore{{P1: 7, P2: 11}},
			Note:      "league night",
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var updated club.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
		assert.Equal(t, "league night", updated.Note)
	})

	t.Run("unknown match", func(t *testing.T) {
		rr := doJSON(t, server, "PUT", "/matches/nope?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      []club.SetScore{{P1: 11, P2: 7}},
		})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteMatchHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var match club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))

	rr = doJSON(t, server, "DELETE", "/matches/"+match.ID+"?dry_run=true", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, server, "GET", "/matches/"+match.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	t.Run("unknown match", func(t *testing.T) {
		rr := doJSON(t, server, "DELETE", "/matches/nope?dry_run=true", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLeaderboardHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	runReplay(t, server)

	rr = doJSON(t, server, "GET", "/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []stats.Entry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, alice.ID, entries[0].Player.ID)
	assert.Equal(t, 1216, entries[0].Player.EloRating)
	assert.Equal(t, bob.ID, entries[1].Player.ID)
}

func TestHeadToHeadHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	for _, sets := range [][]club.SetScore{
		{{P1: 11, P2: 7}},
		{{P1: 11, P2: 9}},
		{{P1: 7, P2: 11}},
	} {
		rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
			Date:      1000,
			Player1ID: alice.ID,
			Player2ID: bob.ID,
			Sets:      sets,
		})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doJSON(t, server, "GET", fmt.Sprintf("/h2h?player1=%s&player2=%s", alice.ID, bob.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var h2h headToHeadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &h2h))
	assert.Equal(t, 2, h2h.Wins)
	assert.Equal(t, 1, h2h.OtherWins)
	assert.Equal(t, 3, h2h.Total)

	t.Run("missing params", func(t *testing.T) {
		rr := doJSON(t, server, "GET", "/h2h?player1="+alice.ID, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("same player twice", func(t *testing.T) {
		rr := doJSON(t, server, "GET", fmt.Sprintf("/h2h?player1=%s&player2=%s", alice.ID, alice.ID), nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown player", func(t *testing.T) {
		rr := doJSON(t, server, "GET", "/h2h?player1="+alice.ID+"&player2=nope", nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestReplayHandlerDryRun(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	rr := doJSON(t, server, "POST", "/replay?dry_run=true", nil)
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestPubSubReplayHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	runReplay(t, server)

	rr = doJSON(t, server, "GET", "/players/"+alice.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var detail playerDetailResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, 1216, detail.Player.EloRating)

	t.Run("invalid wrapper", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/pubsub/replay", bytes.NewBufferString("not json"))
		rec := httptest.NewRecorder()
		server.Router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid base64", func(t *testing.T) {
		wrapper := map[string]any{"message": map[string]any{"data": "!!!not-base64!!!"}}
		rr := doJSON(t, server, "POST", "/pubsub/replay", wrapper)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAnnounceLeaderboardHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, server, "POST", "/announce/leaderboard?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	mock := server.Notifier.(*notifier.Mock)
	require.Len(t, mock.SendLeaderboardCalls, 1)
	entries := mock.SendLeaderboardCalls[0]
	require.Len(t, entries, 2)
	assert.Equal(t, alice.ID, entries[0].Player.ID)

	t.Run("no notifier configured", func(t *testing.T) {
		server.Notifier = nil
		defer func() { server.Notifier = mock }()

		rr := doJSON(t, server, "POST", "/announce/leaderboard", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestPubSubNotifyResultHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	alice := createTestPlayer(t, server, "Alice")
	bob := createTestPlayer(t, server, "Bob")

	rr := doJSON(t, server, "POST", "/matches?dry_run=true", matchRequest{
		Date:      1000,
		Player1ID: alice.ID,
		Player2ID: bob.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var match club.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))

	payload, err := msgpack.Marshal(pubsub.ResultNotification{MatchID: match.ID})
	require.NoError(t, err)
	wrapper := map[string]any{
		"subscription": "test-sub",
		"message":      map[string]any{"data": base64.StdEncoding.EncodeToString(payload)},
	}
	rr = doJSON(t, server, "POST", "/pubsub/notify-result?dry_run=true", wrapper)
	require.Equal(t, http.StatusOK, rr.Code)

	mock := server.Notifier.(*notifier.Mock)
	require.Len(t, mock.SendResultNotificationCalls, 1)
	assert.Equal(t, match.ID, mock.SendResultNotificationCalls[0].Match.ID)

	t.Run("deleted match is acknowledged", func(t *testing.T) {
		payload, err := msgpack.Marshal(pubsub.ResultNotification{MatchID: "gone"})
		require.NoError(t, err)
		wrapper := map[string]any{
			"message": map[string]any{"data": base64.StdEncoding.EncodeToString(payload)},
		}
		rr := doJSON(t, server, "POST", "/pubsub/notify-result", wrapper)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, mock.SendResultNotificationCalls, 1)
	})
}

func TestClearStoreHandler(t *testing.T) {
	server, teardown := setupTestServer(t)
	defer teardown()

	createTestPlayer(t, server, "Alice")

	rr := doJSON(t, server, "POST", "/clear", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Store cleared!", rr.Body.String())

	rr = doJSON(t, server, "GET", "/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var players []club.PlayerInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Len(t, players, 0)
}
