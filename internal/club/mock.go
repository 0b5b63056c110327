package club

import (
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc            func(name string) (*PlayerInfo, error)
	GetPlayerFunc               func(playerID string) (*PlayerInfo, error)
	GetAllPlayersFunc           func() ([]PlayerInfo, error)
	UpdatePlayerNameFunc        func(playerID, name string) error
	DeletePlayerFunc            func(playerID string) error
	IsKnownPlayerFunc           func(playerID string) bool
	CreateMatchFunc             func(match *Match) error
	UpdateMatchFunc             func(match *Match) error
	DeleteMatchFunc             func(matchID string) error
	GetMatchFunc                func(matchID string) (*Match, error)
	GetAllMatchesFunc           func() ([]*Match, error)
	GetMatchesForPlayerFunc     func(playerID string) ([]*Match, error)
	ResetAllRatingsFunc         func(rating int) error
	DeleteAllRatingHistoryFunc  func() error
	WriteRatingHistoryEntryFunc func(entry *EloHistoryEntry) error
	UpdatePlayerRatingFunc      func(playerID string, rating int) error
	GetRatingHistoryFunc        func(playerID string) ([]EloHistoryEntry, error)
	ClearFunc                   func()

	// Call records
	CreateMatchCalls             []*Match
	UpdateMatchCalls             []*Match
	DeleteMatchCalls             []string
	DeletePlayerCalls            []string
	ResetAllRatingsCalls         []int
	DeleteAllRatingHistoryCalls  int
	WriteRatingHistoryEntryCalls []*EloHistoryEntry
	UpdatePlayerRatingCalls      []struct {
		PlayerID string
		Rating   int
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = nil
	m.UpdateMatchCalls = nil
	m.DeleteMatchCalls = nil
	m.DeletePlayerCalls = nil
	m.ResetAllRatingsCalls = nil
	m.DeleteAllRatingHistoryCalls = 0
	m.WriteRatingHistoryEntryCalls = nil
	m.UpdatePlayerRatingCalls = nil
}

func (m *MockStore) CreatePlayer(name string) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(name)
	}
	return &PlayerInfo{ID: "mock-player", Name: name, EloRating: 1200}, nil
}

func (m *MockStore) GetPlayer(playerID string) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdatePlayerName(playerID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdatePlayerNameFunc != nil {
		return m.UpdatePlayerNameFunc(playerID, name)
	}
	return nil
}

func (m *MockStore) DeletePlayer(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, playerID)
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(playerID)
	}
	return nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) CreateMatch(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(match)
	}
	return nil
}

func (m *MockStore) UpdateMatch(match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchCalls = append(m.UpdateMatchCalls, match)
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(match)
	}
	return nil
}

func (m *MockStore) DeleteMatch(matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, matchID)
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(matchID)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) GetAllMatches() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) GetMatchesForPlayer(playerID string) ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForPlayerFunc != nil {
		return m.GetMatchesForPlayerFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) ResetAllRatings(rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetAllRatingsCalls = append(m.ResetAllRatingsCalls, rating)
	if m.ResetAllRatingsFunc != nil {
		return m.ResetAllRatingsFunc(rating)
	}
	return nil
}

func (m *MockStore) DeleteAllRatingHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteAllRatingHistoryCalls++
	if m.DeleteAllRatingHistoryFunc != nil {
		return m.DeleteAllRatingHistoryFunc()
	}
	return nil
}

func (m *MockStore) WriteRatingHistoryEntry(entry *EloHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteRatingHistoryEntryCalls = append(m.WriteRatingHistoryEntryCalls, entry)
	if m.WriteRatingHistoryEntryFunc != nil {
		return m.WriteRatingHistoryEntryFunc(entry)
	}
	return nil
}

func (m *MockStore) UpdatePlayerRating(playerID string, rating int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerRatingCalls = append(m.UpdatePlayerRatingCalls, struct {
		PlayerID string
		Rating   int
	}{playerID, rating})
	if m.UpdatePlayerRatingFunc != nil {
		return m.UpdatePlayerRatingFunc(playerID, rating)
	}
	return nil
}

func (m *MockStore) GetRatingHistory(playerID string) ([]EloHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatingHistoryFunc != nil {
		return m.GetRatingHistoryFunc(playerID)
	}
	return nil, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
