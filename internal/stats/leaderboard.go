package stats

import (
	"sort"

	"github.com/pongclub/rally/internal/club"
)

// Leaderboard maps every player to their stats and orders them descending by
// rating, then win rate, then raw wins. The sort is stable, so players equal
// on all three keep their input order.
func Leaderboard(players []club.PlayerInfo, matches []*club.Match) []Entry {
	entries := make([]Entry, 0, len(players))
	for _, p := range players {
		entries = append(entries, Entry{
			Player: p,
			Stats:  Compute(p.ID, matches),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Player.EloRating != b.Player.EloRating {
			return a.Player.EloRating > b.Player.EloRating
		}
		if a.Stats.WinRate != b.Stats.WinRate {
			return a.Stats.WinRate > b.Stats.WinRate
		}
		return a.Stats.Wins > b.Stats.Wins
	})

	return entries
}
