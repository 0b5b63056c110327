package notifier

import (
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded match results. Names maps player ids to display names.
	SendResultNotification(match *club.Match, names map[string]string, dryRun bool) error
	// For the current standings.
	SendLeaderboard(entries []stats.Entry, dryRun bool) error
}
