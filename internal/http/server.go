package http

import (
	"net/http"

	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/config"
	"github.com/pongclub/rally/internal/metrics"
	"github.com/pongclub/rally/internal/notifier"
	"github.com/pongclub/rally/internal/pubsub"
	"github.com/pongclub/rally/internal/replay"
)

func NewServer(store club.ClubStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, coordinator *replay.Coordinator, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Replay:         coordinator,
		PubSub:         pubsub,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))
	s.Router.Handle("PUT /players/{id}", Chain(s.RenamePlayerHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("PUT /matches/{id}", Chain(s.UpdateMatchHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /matches/{id}", Chain(s.DeleteMatchHandler(), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /h2h", Chain(s.HeadToHeadHandler(), paramsMiddleware))
	s.Router.Handle("POST /replay", Chain(s.ReplayHandler(), paramsMiddleware))
	s.Router.Handle("POST /announce/leaderboard", Chain(s.AnnounceLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/replay", Chain(s.PubSubReplayHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/notify-result", Chain(s.PubSubNotifyResultHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
