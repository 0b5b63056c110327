package http

import (
	"net/http"

	"github.com/pongclub/rally/internal/achievements"
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/config"
	"github.com/pongclub/rally/internal/metrics"
	"github.com/pongclub/rally/internal/notifier"
	"github.com/pongclub/rally/internal/pubsub"
	"github.com/pongclub/rally/internal/replay"
	"github.com/pongclub/rally/internal/stats"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Replay         *replay.Coordinator
	PubSub         pubsub.PubSubClient
	Router         *http.ServeMux
}

// playerRequest is the payload for creating or renaming a player.
type playerRequest struct {
	Name string `json:"name"`
}

// matchRequest is the payload for creating or editing a match. The winner is
// never part of the payload; it is derived from the set scores on the server.
type matchRequest struct {
	Date      int64           `json:"date"`
	Player1ID string          `json:"player1_id"`
	Player2ID string          `json:"player2_id"`
	Player3ID string          `json:"player3_id,omitempty"`
	Player4ID string          `json:"player4_id,omitempty"`
	IsDoubles bool            `json:"is_doubles"`
	Sets      []club.SetScore `json:"sets"`
	Note      string          `json:"note,omitempty"`
}

// playerDetailResponse is the full derived view of a single player.
type playerDetailResponse struct {
	Player       club.PlayerInfo        `json:"player"`
	Stats        stats.PlayerStats      `json:"stats"`
	Achievements []achievements.Badge   `json:"achievements"`
	History      []club.EloHistoryEntry `json:"history"`
}

// headToHeadResponse is the record between two players.
type headToHeadResponse struct {
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
	Wins      int    `json:"wins"`
	OtherWins int    `json:"other_wins"`
	Total     int    `json:"total"`
}
