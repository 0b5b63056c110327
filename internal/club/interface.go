package club

// ClubStore defines the interface for interacting with the club's data.
//
// The rating write surface (ResetAllRatings, DeleteAllRatingHistory,
// WriteRatingHistoryEntry, UpdatePlayerRating) is used exclusively by the
// replay coordinator; no other component writes ratings or history.
type ClubStore interface {
	CreatePlayer(name string) (*PlayerInfo, error)
	GetPlayer(playerID string) (*PlayerInfo, error)
	GetAllPlayers() ([]PlayerInfo, error)
	UpdatePlayerName(playerID, name string) error
	DeletePlayer(playerID string) error
	IsKnownPlayer(playerID string) bool

	CreateMatch(match *Match) error
	UpdateMatch(match *Match) error
	DeleteMatch(matchID string) error
	GetMatch(matchID string) (*Match, error)
	GetAllMatches() ([]*Match, error)
	GetMatchesForPlayer(playerID string) ([]*Match, error)

	ResetAllRatings(rating int) error
	DeleteAllRatingHistory() error
	WriteRatingHistoryEntry(entry *EloHistoryEntry) error
	UpdatePlayerRating(playerID string, rating int) error
	GetRatingHistory(playerID string) ([]EloHistoryEntry, error)

	Clear()
}
