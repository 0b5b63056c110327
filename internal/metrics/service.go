package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ReplayRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rally_replay_runs_total",
			Help: "The total number of rating replay passes started.",
		}),
		ReplayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rally_replay_failures_total",
			Help: "The total number of rating replay passes that failed.",
		}),
		ReplayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rally_replay_duration_seconds",
			Help:    "The duration of full-history rating replays.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MatchesReplayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rally_matches_replayed_total",
			Help: "The total number of matches scanned across all replay passes.",
		}),
		HistoryEntriesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rally_history_entries_written_total",
			Help: "The total number of rating history entries written by replays.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rally_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rally_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rally_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ReplayRuns,
		s.ReplayFailures,
		s.ReplayDuration,
		s.MatchesReplayed,
		s.HistoryEntriesWritten,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncReplayRuns() {
	s.ReplayRuns.Inc()
}

func (s *Service) IncReplayFailures() {
	s.ReplayFailures.Inc()
}

func (s *Service) ObserveReplayDuration(duration float64) {
	s.ReplayDuration.Observe(duration)
}

func (s *Service) AddMatchesReplayed(count int) {
	s.MatchesReplayed.Add(float64(count))
}

func (s *Service) AddHistoryEntriesWritten(count int) {
	s.HistoryEntriesWritten.Add(float64(count))
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
