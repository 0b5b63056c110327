package elo

import "github.com/pongclub/rally/internal/club"

// RatingChange is one participant's rating movement for one match.
type RatingChange struct {
	PlayerID string
	Before   int
	After    int
}

// MatchChanges applies the rating math to a single decisive match, given the
// participants' current ratings (absent players default to InitialRating).
// It returns one entry per participant: two for singles, four for doubles.
//
// Doubles use the arithmetic mean of each pair's pre-match ratings as the
// team rating, and both teammates receive the identical delta computed once
// from the team-average comparison. Individual skill is deliberately not
// disentangled from partner skill.
//
// Draws must never reach this function; callers filter matches with no
// winner beforehand.
func MatchChanges(m *club.Match, ratings map[string]int) []RatingChange {
	ratingOf := func(playerID string) int {
		if r, ok := ratings[playerID]; ok {
			return r
		}
		return InitialRating
	}

	sideOneScore := 0.0
	if m.WinnerID == m.Player1ID {
		sideOneScore = 1.0
	}

	if !m.IsDoubles {
		r1 := ratingOf(m.Player1ID)
		r2 := ratingOf(m.Player2ID)
		return []RatingChange{
			{PlayerID: m.Player1ID, Before: r1, After: Change(r1, r2, sideOneScore)},
			{PlayerID: m.Player2ID, Before: r2, After: Change(r2, r1, 1.0-sideOneScore)},
		}
	}

	r1 := ratingOf(m.Player1ID)
	r2 := ratingOf(m.Player2ID)
	r3 := ratingOf(m.Player3ID)
	r4 := ratingOf(m.Player4ID)

	teamOne := float64(r1+r3) / 2.0
	teamTwo := float64(r2+r4) / 2.0

	deltaOne := Delta(teamOne, teamTwo, sideOneScore)
	deltaTwo := Delta(teamTwo, teamOne, 1.0-sideOneScore)

	return []RatingChange{
		{PlayerID: m.Player1ID, Before: r1, After: r1 + deltaOne},
		{PlayerID: m.Player2ID, Before: r2, After: r2 + deltaTwo},
		{PlayerID: m.Player3ID, Before: r3, After: r3 + deltaOne},
		{PlayerID: m.Player4ID, Before: r4, After: r4 + deltaTwo},
	}
}
