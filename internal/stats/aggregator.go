// Package stats derives player-facing analytics from a match collection:
// per-player summaries, the leaderboard ordering, and head-to-head records.
// Everything is pure and recomputed on demand, never cached.
package stats

import (
	"math"

	"github.com/pongclub/rally/internal/club"
)

const recentFormSize = 5

// Compute builds a player's summary from a match collection. Matches are
// expected most-recent-first (the store's display order); this function
// never re-sorts them, so RecentForm and Streak follow the given order.
func Compute(playerID string, matches []*club.Match) PlayerStats {
	s := PlayerStats{PlayerID: playerID, RecentForm: []string{}}

	for _, m := range matches {
		if !m.HasPlayer(playerID) {
			continue
		}
		s.TotalMatches++

		onSideOne := m.OnSideOne(playerID)

		switch {
		case m.WinnerID == "":
			s.Draws++
			s.recordForm("D")
		case (m.WinnerID == m.Player1ID) == onSideOne:
			s.Wins++
			s.recordForm("W")
		default:
			s.Losses++
			s.recordForm("L")
		}

		// Set and point tallies cover every set of every appearance,
		// draws included.
		for _, set := range m.Sets {
			mine, theirs := set.P1, set.P2
			if !onSideOne {
				mine, theirs = theirs, mine
			}
			s.PointsWon += mine
			s.PointsLost += theirs
			if mine > theirs {
				s.SetsWon++
			} else if mine < theirs {
				s.SetsLost++
			}
		}
	}

	if s.TotalMatches > 0 {
		s.WinRate = int(math.Round(100 * float64(s.Wins) / float64(s.TotalMatches)))
	}
	s.Streak = streakFromForm(s.RecentForm)

	return s
}

func (s *PlayerStats) recordForm(result string) {
	if len(s.RecentForm) < recentFormSize {
		s.RecentForm = append(s.RecentForm, result)
	}
}

// streakFromForm counts consecutive identical non-draw results from the most
// recent one. A loss streak is negative; a leading draw yields zero.
func streakFromForm(form []string) int {
	if len(form) == 0 || form[0] == "D" {
		return 0
	}

	count := 0
	for _, result := range form {
		if result != form[0] {
			break
		}
		count++
	}

	if form[0] == "L" {
		return -count
	}
	return count
}
