package stats_test

import (
	"testing"

	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/stats"
	"github.com/stretchr/testify/assert"
)

func TestHeadToHeadSingles(t *testing.T) {
	matches := []*club.Match{
		singles("p1", "p2", "p1"),
		singles("p2", "p1", "p2"),
		singles("p1", "p2", ""),
		singles("p1", "p3", "p1"), // p2 absent, ignored
	}

	record := stats.HeadToHead("p1", "p2", matches)

	assert.Equal(t, 3, record.Total)
	assert.Equal(t, 1, record.Wins)
	assert.Equal(t, 1, record.OtherWins)
}

func TestHeadToHeadDoublesSeatAttribution(t *testing.T) {
	// p2 plays seat 4, so a win by p1's side counts for p1 even though
	// winner_id is the seat-1 lead, and a seat-2-side win counts for p2.
	matches := []*club.Match{
		{
			Player1ID: "p1", Player2ID: "a", Player3ID: "b", Player4ID: "p2",
			IsDoubles: true, WinnerID: "p1",
		},
		{
			Player1ID: "a", Player2ID: "b", Player3ID: "p1", Player4ID: "p2",
			IsDoubles: true, WinnerID: "b",
		},
	}

	record := stats.HeadToHead("p1", "p2", matches)

	assert.Equal(t, 2, record.Total)
	assert.Equal(t, 1, record.Wins)
	assert.Equal(t, 1, record.OtherWins)
}

func TestHeadToHeadPartnersShareTheWin(t *testing.T) {
	// Both target players on the same winning side: each side record gets
	// the win.
	matches := []*club.Match{
		{
			Player1ID: "p1", Player2ID: "a", Player3ID: "p2", Player4ID: "b",
			IsDoubles: true, WinnerID: "p1",
		},
	}

	record := stats.HeadToHead("p1", "p2", matches)

	assert.Equal(t, 1, record.Total)
	assert.Equal(t, 1, record.Wins)
	assert.Equal(t, 1, record.OtherWins)
}

func TestHeadToHeadEmpty(t *testing.T) {
	record := stats.HeadToHead("p1", "p2", nil)
	assert.Equal(t, stats.H2H{}, record)
}
