package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncReplayRuns()
	IncReplayFailures()
	ObserveReplayDuration(duration float64)
	AddMatchesReplayed(count int)
	AddHistoryEntriesWritten(count int)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
