package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a Metrics implementation for tests that records call counts.
type Mock struct {
	mu sync.Mutex

	ReplayRunsCount            int
	ReplayFailuresCount        int
	ReplayDurations            []float64
	MatchesReplayedTotal       int
	HistoryEntriesWrittenTotal int
	SlackNotifSentCount        int
	SlackNotifFailedCount      int
	StartupTimes               []float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncReplayRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplayRunsCount++
}

func (m *Mock) IncReplayFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplayFailuresCount++
}

func (m *Mock) ObserveReplayDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplayDurations = append(m.ReplayDurations, duration)
}

func (m *Mock) AddMatchesReplayed(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesReplayedTotal += count
}

func (m *Mock) AddHistoryEntriesWritten(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryEntriesWrittenTotal += count
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifSentCount++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlackNotifFailedCount++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}
