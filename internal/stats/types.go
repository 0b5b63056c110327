package stats

import "github.com/pongclub/rally/internal/club"

// PlayerStats is a player's summary over a match collection. All fields are
// derived on every read; nothing here is stored.
type PlayerStats struct {
	PlayerID     string   `json:"player_id"`
	TotalMatches int      `json:"total_matches"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	Draws        int      `json:"draws"`
	SetsWon      int      `json:"sets_won"`
	SetsLost     int      `json:"sets_lost"`
	PointsWon    int      `json:"points_won"`
	PointsLost   int      `json:"points_lost"`
	WinRate      int      `json:"win_rate"`
	Streak       int      `json:"streak"`
	RecentForm   []string `json:"recent_form"`
}

// Entry pairs a player with their computed stats for the leaderboard.
type Entry struct {
	Player club.PlayerInfo `json:"player"`
	Stats  PlayerStats     `json:"stats"`
}

// H2H is the pairwise record between two players. Draws count toward Total
// but toward neither win counter.
type H2H struct {
	Wins      int `json:"wins"`
	OtherWins int `json:"other_wins"`
	Total     int `json:"total"`
}
