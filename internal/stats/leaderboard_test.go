package stats_test

import (
	"testing"

	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardOrdering(t *testing.T) {
	players := []club.PlayerInfo{
		{ID: "low", Name: "Low", EloRating: 1200},
		{ID: "top", Name: "Top", EloRating: 1300},
		{ID: "mid", Name: "Mid", EloRating: 1200},
	}

	// mid: 3 wins / 5 matches (60%), low: 2 wins / 5 matches (40%).
	var matches []*club.Match
	for i := 0; i < 5; i++ {
		winner := "mid"
		if i >= 3 {
			winner = "x"
		}
		matches = append(matches, singles("mid", "x", winner))
	}
	for i := 0; i < 5; i++ {
		winner := "low"
		if i >= 2 {
			winner = "x"
		}
		matches = append(matches, singles("low", "x", winner))
	}

	entries := stats.Leaderboard(players, matches)
	require.Len(t, entries, 3)

	// Rating first, then win rate breaks the 1200 tie.
	assert.Equal(t, "top", entries[0].Player.ID)
	assert.Equal(t, "mid", entries[1].Player.ID)
	assert.Equal(t, "low", entries[2].Player.ID)
	assert.Equal(t, 60, entries[1].Stats.WinRate)
	assert.Equal(t, 40, entries[2].Stats.WinRate)
}

func TestLeaderboardWinCountTieBreak(t *testing.T) {
	players := []club.PlayerInfo{
		{ID: "a", EloRating: 1200},
		{ID: "b", EloRating: 1200},
	}

	// Both at 50% win rate, but b has more raw wins.
	matches := []*club.Match{
		singles("a", "x", "a"),
		singles("a", "x", "x"),
		singles("b", "x", "b"),
		singles("b", "x", "b"),
		singles("b", "x", "x"),
		singles("b", "x", "x"),
	}

	entries := stats.Leaderboard(players, matches)
	assert.Equal(t, "b", entries[0].Player.ID)
}

func TestLeaderboardStableOnFullTie(t *testing.T) {
	players := []club.PlayerInfo{
		{ID: "first", EloRating: 1200},
		{ID: "second", EloRating: 1200},
		{ID: "third", EloRating: 1200},
	}

	entries := stats.Leaderboard(players, nil)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Player.ID)
	assert.Equal(t, "second", entries[1].Player.ID)
	assert.Equal(t, "third", entries[2].Player.ID)
}
