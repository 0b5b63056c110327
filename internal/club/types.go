package club

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// PlayerInfo represents a player in the store. EloRating is owned by the
// replay coordinator and overwritten wholesale on every replay.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EloRating int    `json:"elo_rating"`
	CreatedAt int64  `json:"created_at"`
}

// SetScore is one set's score pair, from the perspective of side one.
type SetScore struct {
	P1 int `json:"p1"`
	P2 int `json:"p2"`
}

// Match is one recorded table-tennis match. Player1 and Player2 are the team
// leads; Player3/Player4 are the doubles partners and empty for singles.
// WinnerID is Player1ID or Player2ID, or empty for a draw.
type Match struct {
	ID        string     `json:"id"`
	Date      int64      `json:"date"`
	Player1ID string     `json:"player1_id"`
	Player2ID string     `json:"player2_id"`
	Player3ID string     `json:"player3_id,omitempty"`
	Player4ID string     `json:"player4_id,omitempty"`
	IsDoubles bool       `json:"is_doubles"`
	Sets      []SetScore `json:"sets"`
	WinnerID  string     `json:"winner_id,omitempty"`
	Note      string     `json:"note,omitempty"`
	CreatedAt int64      `json:"created_at"`
}

// HasPlayer reports whether the player occupies any of the four seats.
func (m *Match) HasPlayer(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID ||
		m.Player3ID == playerID || m.Player4ID == playerID
}

// OnSideOne reports whether the player is on the side led by Player1
// (seats 1 and 3). Only meaningful when HasPlayer is true.
func (m *Match) OnSideOne(playerID string) bool {
	return m.Player1ID == playerID || m.Player3ID == playerID
}

// Participants returns the occupied seats in seat order.
func (m *Match) Participants() []string {
	ids := []string{m.Player1ID, m.Player2ID}
	if m.Player3ID != "" {
		ids = append(ids, m.Player3ID)
	}
	if m.Player4ID != "" {
		ids = append(ids, m.Player4ID)
	}
	return ids
}

// EloHistoryEntry is one rating movement for one player in one decisive
// match. The whole set is rebuilt from scratch on every replay.
type EloHistoryEntry struct {
	ID           string `json:"id"`
	PlayerID     string `json:"player_id"`
	MatchID      string `json:"match_id"`
	RatingBefore int    `json:"rating_before"`
	RatingAfter  int    `json:"rating_after"`
	CreatedAt    int64  `json:"created_at"`
}
