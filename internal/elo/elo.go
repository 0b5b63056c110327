// Package elo implements the rating math for decisive matches: the logistic
// expected-score model with a fixed K-factor, plus the per-match calculator
// that turns one match and the current ratings into before/after entries.
package elo

import "math"

const (
	// K is the maximum rating points exchanged per match.
	K = 32

	// InitialRating is the rating every player starts from and the default
	// for any player absent from a ratings lookup.
	InitialRating = 1200
)

// Expected returns the expected score of a player against an opponent,
// 0.5 when ratings are equal and strictly increasing in the first argument.
func Expected(rating, opponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(opponent-rating)/400.0))
}

// Change returns the player's new rating after a match with the given actual
// score (1 win, 0 loss), rounded half away from zero.
func Change(rating, opponent int, score float64) int {
	return int(math.Round(float64(rating) + K*(score-Expected(rating, opponent))))
}

// Delta returns the rating points exchanged for a team given the two team
// ratings (arithmetic means, hence float64) and the team's actual score.
// Both members of a team receive this same delta.
func Delta(teamRating, opponentRating, score float64) int {
	expected := 1.0 / (1.0 + math.Pow(10, (opponentRating-teamRating)/400.0))
	return int(math.Round(K * (score - expected)))
}
