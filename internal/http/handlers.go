package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"io"

	"github.com/charmbracelet/log"
	"github.com/pongclub/rally/internal/achievements"
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/pubsub"
	"github.com/pongclub/rally/internal/stats"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// statusForStoreError maps a store error to an HTTP status code.
func statusForStoreError(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// deriveWinner determines the winning side from the set scores. More sets for
// side one means the seat-one player is recorded as the winner, and vice
// versa. An even split is a draw, recorded as an empty winner id.
func deriveWinner(m *club.Match) string {
	sideOne, sideTwo := 0, 0
	for _, set := range m.Sets {
		if set.P1 > set.P2 {
			sideOne++
		} else if set.P2 > set.P1 {
			sideTwo++
		}
	}
	switch {
	case sideOne > sideTwo:
		return m.Player1ID
	case sideTwo > sideOne:
		return m.Player2ID
	default:
		return ""
	}
}

// maxSetsPerMatch bounds a best-of-nine score line; longer submissions are
// assumed to be client errors.
const maxSetsPerMatch = 9

func (s *Server) validateMatch(m *club.Match) error {
	if m.Player1ID == "" || m.Player2ID == "" {
		return fmt.Errorf("player1_id and player2_id are required")
	}
	if m.IsDoubles {
		if m.Player3ID == "" || m.Player4ID == "" {
			return fmt.Errorf("doubles matches require player3_id and player4_id")
		}
	} else if m.Player3ID != "" || m.Player4ID != "" {
		return fmt.Errorf("singles matches must not set player3_id or player4_id")
	}
	seen := make(map[string]bool)
	for _, id := range m.Participants() {
		if seen[id] {
			return fmt.Errorf("duplicate participant: %s", id)
		}
		seen[id] = true
		if !s.Store.IsKnownPlayer(id) {
			return fmt.Errorf("unknown player: %s", id)
		}
	}
	if len(m.Sets) == 0 {
		return fmt.Errorf("at least one set is required")
	}
	if len(m.Sets) > maxSetsPerMatch {
		return fmt.Errorf("at most %d sets are allowed", maxSetsPerMatch)
	}
	for _, set := range m.Sets {
		if set.P1 < 0 || set.P2 < 0 {
			return fmt.Errorf("set scores must not be negative")
		}
		if set.P1 == set.P2 {
			return fmt.Errorf("a set cannot end level: %d-%d", set.P1, set.P2)
		}
	}
	return nil
}

// structuralChange reports whether an edit touches anything the rating replay
// depends on. Note-only edits return false and skip the replay trigger.
func structuralChange(before, after *club.Match) bool {
	if before.Date != after.Date || before.IsDoubles != after.IsDoubles ||
		before.Player1ID != after.Player1ID || before.Player2ID != after.Player2ID ||
		before.Player3ID != after.Player3ID || before.Player4ID != after.Player4ID ||
		before.WinnerID != after.WinnerID || len(before.Sets) != len(after.Sets) {
		return true
	}
	for i := range before.Sets {
		if before.Sets[i] != after.Sets[i] {
			return true
		}
	}
	return false
}

// triggerReplay kicks off a full-history rating replay without blocking the
// request. When Pub/Sub is configured the event is fanned out so a push
// worker picks it up; otherwise the replay runs in-process.
func (s *Server) triggerReplay(reason, matchID string, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would trigger rating replay", "reason", reason)
		return
	}
	if s.PubSub != nil {
		topic := pubsub.EventReplayRatings
		if s.Cfg.PubSub.ReplayTopic != "" {
			topic = pubsub.EventType(s.Cfg.PubSub.ReplayTopic)
		}
		go func() {
			err := s.PubSub.SendMessage(topic, pubsub.ReplayRequest{Reason: reason, MatchID: matchID})
			if err != nil {
				log.Error("Failed to publish replay event, running in-process", "error", err)
				s.Replay.Run()
			}
		}()
		return
	}
	go s.Replay.Run()
}

// notifyResult announces a decisive match result without blocking the
// request. With Pub/Sub configured the event is fanned out and the push
// worker does the sending; otherwise the notification goes out directly.
func (s *Server) notifyResult(match *club.Match, dryRun bool) {
	if match.WinnerID == "" {
		return
	}
	if s.PubSub != nil {
		go func() {
			err := s.PubSub.SendMessage(pubsub.EventNotifyResult, pubsub.ResultNotification{MatchID: match.ID})
			if err != nil {
				log.Error("Failed to publish result event, sending directly", "error", err)
				s.sendResultNotification(match, dryRun)
			}
		}()
		return
	}
	go s.sendResultNotification(match, dryRun)
}

func (s *Server) sendResultNotification(match *club.Match, dryRun bool) {
	if s.Notifier == nil {
		return
	}
	names := make(map[string]string)
	for _, id := range match.Participants() {
		player, err := s.Store.GetPlayer(id)
		if err != nil {
			log.Error("Failed to resolve player name for notification", "playerID", id, "error", err)
			continue
		}
		names[id] = player.Name
	}
	if err := s.Notifier.SendResultNotification(match, names, dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err)
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		player, err := s.Store.CreatePlayer(req.Name)
		if err != nil {
			log.Warn("Failed to create player", "name", req.Name, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Info("Created player", "playerID", player.ID, "name", player.Name)
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")

		player, err := s.Store.GetPlayer(playerID)
		if err != nil {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}

		matches, err := s.Store.GetMatchesForPlayer(playerID)
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches for player", "playerID", playerID, "error", err)
			return
		}

		history, err := s.Store.GetRatingHistory(playerID)
		if err != nil {
			http.Error(w, "Failed to get rating history", http.StatusInternalServerError)
			log.Error("Failed to get rating history", "playerID", playerID, "error", err)
			return
		}

		playerStats := stats.Compute(playerID, matches)
		badges := achievements.Evaluate(playerID, playerStats, player.EloRating, matches)

		respondJSON(w, http.StatusOK, playerDetailResponse{
			Player:       *player,
			Stats:        playerStats,
			Achievements: badges,
			History:      history,
		})
	}
}

func (s *Server) RenamePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")

		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if err := s.Store.UpdatePlayerName(playerID, req.Name); err != nil {
			status := statusForStoreError(err)
			if status == http.StatusInternalServerError {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}

		player, err := s.Store.GetPlayer(playerID)
		if err != nil {
			http.Error(w, "Failed to get player", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		isDryRun := isDryRunFromContext(r)

		if err := s.Store.DeletePlayer(playerID); err != nil {
			http.Error(w, err.Error(), statusForStoreError(err))
			return
		}

		// The player's matches are gone with them, so every remaining
		// rating has to be recomputed.
		log.Info("Deleted player", "playerID", playerID)
		s.triggerReplay("player deleted", "", isDryRun)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)

		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		match := &club.Match{
			Date:      req.Date,
			Player1ID: req.Player1ID,
			Player2ID: req.Player2ID,
			Player3ID: req.Player3ID,
			Player4ID: req.Player4ID,
			IsDoubles: req.IsDoubles,
			Sets:      req.Sets,
			Note:      req.Note,
		}
		if err := s.validateMatch(match); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		match.WinnerID = deriveWinner(match)

		if err := s.Store.CreateMatch(match); err != nil {
			http.Error(w, "Failed to save match", http.StatusInternalServerError)
			log.Error("Failed to create match", "error", err)
			return
		}

		log.Info("Created match", "matchID", match.ID, "winnerID", match.WinnerID)
		s.triggerReplay("match created", match.ID, isDryRun)
		s.notifyResult(match, isDryRun)
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		match, err := s.Store.GetMatch(r.PathValue("id"))
		if err != nil {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, match)
	}
}

func (s *Server) UpdateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		isDryRun := isDryRunFromContext(r)

		existing, err := s.Store.GetMatch(matchID)
		if err != nil {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}

		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		updated := &club.Match{
			ID:        matchID,
			Date:      req.Date,
			Player1ID: req.Player1ID,
			Player2ID: req.Player2ID,
			Player3ID: req.Player3ID,
			Player4ID: req.Player4ID,
			IsDoubles: req.IsDoubles,
			Sets:      req.Sets,
			Note:      req.Note,
			CreatedAt: existing.CreatedAt,
		}
		if err := s.validateMatch(updated); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updated.WinnerID = deriveWinner(updated)

		structural := structuralChange(existing, updated)

		if err := s.Store.UpdateMatch(updated); err != nil {
			http.Error(w, "Failed to save match", http.StatusInternalServerError)
			log.Error("Failed to update match", "matchID", matchID, "error", err)
			return
		}

		if structural {
			log.Info("Updated match", "matchID", matchID, "winnerID", updated.WinnerID)
			s.triggerReplay("match updated", matchID, isDryRun)
			s.notifyResult(updated, isDryRun)
		} else {
			log.Info("Updated match note, skipping replay", "matchID", matchID)
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.PathValue("id")
		isDryRun := isDryRunFromContext(r)

		if err := s.Store.DeleteMatch(matchID); err != nil {
			http.Error(w, err.Error(), statusForStoreError(err))
			return
		}

		log.Info("Deleted match", "matchID", matchID)
		s.triggerReplay("match deleted", matchID, isDryRun)
		w.WriteHeader(http.StatusNoContent)
	}
}

// LeaderboardHandler returns a handler that serves the standings.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}

		respondJSON(w, http.StatusOK, stats.Leaderboard(players, matches))
	}
}

func (s *Server) HeadToHeadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player1 := r.URL.Query().Get("player1")
		player2 := r.URL.Query().Get("player2")
		if player1 == "" || player2 == "" {
			http.Error(w, "player1 and player2 are required", http.StatusBadRequest)
			return
		}
		if player1 == player2 {
			http.Error(w, "player1 and player2 must differ", http.StatusBadRequest)
			return
		}
		if !s.Store.IsKnownPlayer(player1) || !s.Store.IsKnownPlayer(player2) {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}

		matches, err := s.Store.GetMatchesForPlayer(player1)
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches for player", "playerID", player1, "error", err)
			return
		}

		h2h := stats.HeadToHead(player1, player2, matches)
		respondJSON(w, http.StatusOK, headToHeadResponse{
			Player1ID: player1,
			Player2ID: player2,
			Wins:      h2h.Wins,
			OtherWins: h2h.OtherWins,
			Total:     h2h.Total,
		})
	}
}

// ReplayHandler triggers a full-history rating replay in the background.
func (s *Server) ReplayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would run rating replay")
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprintln(w, "Replay skipped (dry run).")
			return
		}

		go s.Replay.Run()
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprintln(w, "Replay triggered.")
	}
}

// AnnounceLeaderboardHandler posts the current standings to the notifier.
func (s *Server) AnnounceLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Notifier == nil {
			http.Error(w, "Notifications not configured", http.StatusServiceUnavailable)
			return
		}

		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		matches, err := s.Store.GetAllMatches()
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}

		if err := s.Notifier.SendLeaderboard(stats.Leaderboard(players, matches), isDryRunFromContext(r)); err != nil {
			http.Error(w, "Failed to send leaderboard", http.StatusInternalServerError)
			log.Error("Failed to send leaderboard", "error", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard announced.")
	}
}

// PubSubNotifyResultHandler is the Pub/Sub push endpoint for result events.
// A missing match is acknowledged rather than retried; it was deleted after
// the event was published.
func (s *Server) PubSubNotifyResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify result message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		notification := pubsub.ResultNotification{}
		if s.PubSub != nil {
			if err := s.PubSub.ProcessMessage(rawData, &notification); err != nil {
				http.Error(w, "Invalid payload", http.StatusBadRequest)
				return
			}
		}

		match, err := s.Store.GetMatch(notification.MatchID)
		if err != nil {
			log.Warn("Match for result event no longer exists", "matchID", notification.MatchID)
			w.Write([]byte("OK"))
			return
		}
		s.sendResultNotification(match, isDryRunFromContext(r))
		w.Write([]byte("OK"))
	}
}

// PubSubReplayHandler is the Pub/Sub push endpoint for replay events. A
// non-2xx response makes Pub/Sub redeliver the message.
func (s *Server) PubSubReplayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received replay message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		request := pubsub.ReplayRequest{}
		if s.PubSub != nil {
			if err := s.PubSub.ProcessMessage(rawData, &request); err != nil {
				http.Error(w, "Invalid payload", http.StatusBadRequest)
				return
			}
		}
		log.Info("Processing replay event", "reason", request.Reason, "matchID", request.MatchID)

		if err := s.Replay.Run(); err != nil {
			http.Error(w, "Replay failed", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
