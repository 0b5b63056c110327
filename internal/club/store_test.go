package club_test

import (
	"database/sql"
	"testing"

	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := club.New(db)
	return store, db, dbTeardown
}

func TestCreateAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	alice, err := store.CreatePlayer("Alice")
	require.NoError(t, err)
	assert.Equal(t, 1200, alice.EloRating)

	_, err = store.CreatePlayer("Bob")
	require.NoError(t, err)

	assert.True(t, store.IsKnownPlayer(alice.ID))
	assert.False(t, store.IsKnownPlayer("nope"))

	players, err := store.GetAllPlayers()
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].Name)

	t.Run("rejects duplicate names case-insensitively", func(t *testing.T) {
		_, err := store.CreatePlayer("alice")
		assert.Error(t, err)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		_, err := store.CreatePlayer("  ")
		assert.Error(t, err)
	})
}

func TestMatchRoundtrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	p1, err := store.CreatePlayer("Alice")
	require.NoError(t, err)
	p2, err := store.CreatePlayer("Bob")
	require.NoError(t, err)

	match := &club.Match{
		Date:      1700000000,
		Player1ID: p1.ID,
		Player2ID: p2.ID,
		Sets:      []club.SetScore{{P1: 11, P2: 7}, {P1: 11, P2: 9}},
		WinnerID:  p1.ID,
		Note:      "league night",
	}
	require.NoError(t, store.CreateMatch(match))
	require.NotEmpty(t, match.ID)
	require.NotZero(t, match.CreatedAt)

	got, err := store.GetMatch(match.ID)
	require.NoError(t, err)
	assert.Equal(t, match.Sets, got.Sets)
	assert.Equal(t, p1.ID, got.WinnerID)
	assert.Equal(t, "league night", got.Note)
	assert.False(t, got.IsDoubles)

	t.Run("update overwrites structural fields", func(t *testing.T) {
		match.Sets = []club.SetScore{{P1: 7, P2: 11}}
		match.WinnerID = p2.ID
		require.NoError(t, store.UpdateMatch(match))

		got, err := store.GetMatch(match.ID)
		require.NoError(t, err)
		assert.Equal(t, p2.ID, got.WinnerID)
		require.Len(t, got.Sets, 1)
	})

	t.Run("delete removes the match", func(t *testing.T) {
		require.NoError(t, store.DeleteMatch(match.ID))
		_, err := store.GetMatch(match.ID)
		assert.Error(t, err)
	})
}

func TestGetMatchesForPlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	var ids []string
	for _, name := range []string{"A", "B", "C", "D"} {
		p, err := store.CreatePlayer(name)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	// One doubles match with C in seat 3, one singles without C.
	require.NoError(t, store.CreateMatch(&club.Match{
		Date: 100, Player1ID: ids[0], Player2ID: ids[1], Player3ID: ids[2], Player4ID: ids[3],
		IsDoubles: true, Sets: []club.SetScore{{P1: 11, P2: 5}}, WinnerID: ids[0],
	}))
	require.NoError(t, store.CreateMatch(&club.Match{
		Date: 200, Player1ID: ids[0], Player2ID: ids[1],
		Sets: []club.SetScore{{P1: 11, P2: 5}}, WinnerID: ids[0],
	}))

	matches, err := store.GetMatchesForPlayer(ids[2])
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].IsDoubles)

	all, err := store.GetAllMatches()
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Display order is newest first.
	assert.Equal(t, int64(200), all[0].Date)
}

func TestDeletePlayerCascadesMatches(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	p1, err := store.CreatePlayer("Alice")
	require.NoError(t, err)
	p2, err := store.CreatePlayer("Bob")
	require.NoError(t, err)

	require.NoError(t, store.CreateMatch(&club.Match{
		Date: 100, Player1ID: p1.ID, Player2ID: p2.ID,
		Sets: []club.SetScore{{P1: 11, P2: 5}}, WinnerID: p1.ID,
	}))

	require.NoError(t, store.DeletePlayer(p2.ID))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRatingWriteSurface(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	p1, err := store.CreatePlayer("Alice")
	require.NoError(t, err)

	match := &club.Match{Date: 100, Player1ID: p1.ID, Player2ID: "x"}
	// A second player so the match insert passes foreign keys.
	p2, err := store.CreatePlayer("Bob")
	require.NoError(t, err)
	match.Player2ID = p2.ID
	match.Sets = []club.SetScore{{P1: 11, P2: 5}}
	match.WinnerID = p1.ID
	require.NoError(t, store.CreateMatch(match))

	require.NoError(t, store.UpdatePlayerRating(p1.ID, 1216))
	got, err := store.GetPlayer(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1216, got.EloRating)

	require.NoError(t, store.WriteRatingHistoryEntry(&club.EloHistoryEntry{
		PlayerID: p1.ID, MatchID: match.ID, RatingBefore: 1200, RatingAfter: 1216, CreatedAt: 100,
	}))

	history, err := store.GetRatingHistory(p1.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1200, history[0].RatingBefore)
	assert.Equal(t, 1216, history[0].RatingAfter)

	require.NoError(t, store.ResetAllRatings(1200))
	got, err = store.GetPlayer(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200, got.EloRating)

	require.NoError(t, store.DeleteAllRatingHistory())
	history, err = store.GetRatingHistory(p1.ID)
	require.NoError(t, err)
	assert.Len(t, history, 0)
}

func TestScanMatchToleratesMalformedSets(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	p1, err := store.CreatePlayer("Alice")
	require.NoError(t, err)
	p2, err := store.CreatePlayer("Bob")
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO matches (id, date, player1_id, player2_id, is_doubles, sets_json, winner_id, created_at)
		VALUES ('bad', 100, ?, ?, 0, 'not-json', ?, 100)`, p1.ID, p2.ID, p1.ID)
	require.NoError(t, err)

	got, err := store.GetMatch("bad")
	require.NoError(t, err)
	assert.Empty(t, got.Sets)
}
