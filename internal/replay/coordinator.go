// Package replay implements the full-history rating replay. After any
// structural mutation of the match log, ratings and the rating history are
// recomputed from scratch by rescanning the log in chronological order. An
// edit to an old match shifts the comparison point for every later match its
// players appear in, so there is no incremental path.
package replay

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/elo"
	"github.com/pongclub/rally/internal/metrics"
)

// Coordinator owns Player.elo_rating and the elo_history table. No other
// component writes them.
type Coordinator struct {
	store   club.ClubStore
	metrics metrics.Metrics
}

// New creates a new Coordinator.
func New(store club.ClubStore, metrics metrics.Metrics) *Coordinator {
	return &Coordinator{
		store:   store,
		metrics: metrics,
	}
}

// Run replays the entire match log and rewrites all derived rating state.
// A failed pass leaves transient partial state; it is not rolled back, since
// the next successful pass overwrites everything anyway.
func (c *Coordinator) Run() error {
	start := time.Now()
	c.metrics.IncReplayRuns()
	log.Info("Starting rating replay")

	if err := c.replay(); err != nil {
		c.metrics.IncReplayFailures()
		log.Error("Rating replay failed", "error", err)
		return fmt.Errorf("rating replay failed: %w", err)
	}

	duration := time.Since(start)
	c.metrics.ObserveReplayDuration(duration.Seconds())
	log.Info("Rating replay finished", "duration_ms", duration.Milliseconds())
	return nil
}

func (c *Coordinator) replay() error {
	if err := c.store.ResetAllRatings(elo.InitialRating); err != nil {
		return err
	}
	if err := c.store.DeleteAllRatingHistory(); err != nil {
		return err
	}

	matches, err := c.store.GetAllMatches()
	if err != nil {
		return err
	}

	// The store hands out display order (newest first); the replay needs
	// ascending date order with a deterministic tie-break: insertion stamp,
	// then id.
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.ID < b.ID
	})

	ratings := make(map[string]int)
	entriesWritten := 0

	for _, match := range matches {
		// Draws move no points and leave no history.
		if match.WinnerID == "" {
			continue
		}

		for _, change := range elo.MatchChanges(match, ratings) {
			entry := &club.EloHistoryEntry{
				PlayerID:     change.PlayerID,
				MatchID:      match.ID,
				RatingBefore: change.Before,
				RatingAfter:  change.After,
				CreatedAt:    match.Date,
			}
			if err := c.store.WriteRatingHistoryEntry(entry); err != nil {
				return err
			}
			ratings[change.PlayerID] = change.After
			entriesWritten++
		}
	}

	// Players absent from the map stay at the reset value.
	for playerID, rating := range ratings {
		if err := c.store.UpdatePlayerRating(playerID, rating); err != nil {
			return err
		}
	}

	c.metrics.AddMatchesReplayed(len(matches))
	c.metrics.AddHistoryEntriesWritten(entriesWritten)
	return nil
}
