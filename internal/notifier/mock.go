package notifier

import (
	"sync"

	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/stats"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(match *club.Match, names map[string]string, dryRun bool) error
	SendLeaderboardFunc        func(entries []stats.Entry, dryRun bool) error

	// Call records
	SendResultNotificationCalls []struct {
		Match  *club.Match
		DryRun bool
	}
	SendLeaderboardCalls [][]stats.Entry
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *Mock) SendResultNotification(match *club.Match, names map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct {
		Match  *club.Match
		DryRun bool
	}{match, dryRun})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(match, names, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(entries []stats.Entry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(entries, dryRun)
	}
	return nil
}
