// Package achievements evaluates the fixed set of unlockable badges against
// a player's stats, rating, and full match history. Badges are boolean only;
// there is no partial-progress state.
package achievements

import (
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/stats"
)

// Badge reports whether a single achievement is unlocked.
type Badge struct {
	ID       string `json:"id"`
	Unlocked bool   `json:"unlocked"`
}

// rivalThreshold is the number of shared matches against a single opponent
// that unlocks the rival badge.
const rivalThreshold = 10

// Evaluate checks all 13 badges for a player. The threshold badges read the
// precomputed stats and rating; comeback_king, clean_sweep and rival scan
// the player's full match history.
func Evaluate(playerID string, playerStats stats.PlayerStats, eloRating int, matches []*club.Match) []Badge {
	streak := playerStats.Streak

	return []Badge{
		{ID: "first_win", Unlocked: playerStats.Wins >= 1},
		{ID: "wins_5", Unlocked: playerStats.Wins >= 5},
		{ID: "wins_25", Unlocked: playerStats.Wins >= 25},
		{ID: "wins_50", Unlocked: playerStats.Wins >= 50},
		{ID: "streak_5", Unlocked: streak >= 5},
		{ID: "streak_10", Unlocked: streak >= 10},
		{ID: "rating_1300", Unlocked: eloRating >= 1300},
		{ID: "rating_1500", Unlocked: eloRating >= 1500},
		{ID: "matches_25", Unlocked: playerStats.TotalMatches >= 25},
		{ID: "matches_100", Unlocked: playerStats.TotalMatches >= 100},
		{ID: "comeback_king", Unlocked: hasComebackWin(playerID, matches)},
		{ID: "clean_sweep", Unlocked: hasCleanSweep(playerID, matches)},
		{ID: "rival", Unlocked: hasRival(playerID, matches)},
	}
}

// wonMatch reports whether the player appears in the match and stood on the
// winning side.
func wonMatch(playerID string, m *club.Match) bool {
	if !m.HasPlayer(playerID) || m.WinnerID == "" {
		return false
	}
	return (m.WinnerID == m.Player1ID) == m.OnSideOne(playerID)
}

// hasComebackWin looks for a won match with at least three sets where the
// player's side lost both of the first two.
func hasComebackWin(playerID string, matches []*club.Match) bool {
	for _, m := range matches {
		if !wonMatch(playerID, m) || len(m.Sets) < 3 {
			continue
		}

		onSideOne := m.OnSideOne(playerID)
		behind := true
		for _, set := range m.Sets[:2] {
			mine, theirs := set.P1, set.P2
			if !onSideOne {
				mine, theirs = theirs, mine
			}
			if mine >= theirs {
				behind = false
				break
			}
		}
		if behind {
			return true
		}
	}
	return false
}

// hasCleanSweep looks for a won match where every set is exactly 11-0 on the
// player's side. A single conceded point anywhere disqualifies the match.
func hasCleanSweep(playerID string, matches []*club.Match) bool {
	for _, m := range matches {
		if !wonMatch(playerID, m) || len(m.Sets) == 0 {
			continue
		}

		onSideOne := m.OnSideOne(playerID)
		swept := true
		for _, set := range m.Sets {
			mine, theirs := set.P1, set.P2
			if !onSideOne {
				mine, theirs = theirs, mine
			}
			if mine != 11 || theirs != 0 {
				swept = false
				break
			}
		}
		if swept {
			return true
		}
	}
	return false
}

// hasRival counts shared matches per opposing player, doubles included;
// partners on the player's own side do not count.
func hasRival(playerID string, matches []*club.Match) bool {
	shared := make(map[string]int)

	for _, m := range matches {
		if !m.HasPlayer(playerID) {
			continue
		}
		onSideOne := m.OnSideOne(playerID)
		for _, opponent := range m.Participants() {
			if opponent == playerID || m.OnSideOne(opponent) == onSideOne {
				continue
			}
			shared[opponent]++
			if shared[opponent] >= rivalThreshold {
				return true
			}
		}
	}
	return false
}
