package club

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// CreatePlayer inserts a new player with the default rating. Names are
// unique case-insensitively.
func (s *store) CreatePlayer(name string) (*PlayerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE name = ? COLLATE NOCASE)", name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check player name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("player %q already exists", name)
	}

	player := &PlayerInfo{
		ID:        uuid.NewString(),
		Name:      name,
		EloRating: 1200,
		CreatedAt: time.Now().Unix(),
	}

	_, err = s.db.Exec(
		"INSERT INTO players (id, name, elo_rating, created_at) VALUES (?, ?, ?, ?)",
		player.ID, player.Name, player.EloRating, player.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	log.Info("Created player", "playerID", player.ID, "name", player.Name)
	return player, nil
}

func (s *store) GetPlayer(playerID string) (*PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p PlayerInfo
	err := s.db.QueryRow(
		"SELECT id, name, elo_rating, created_at FROM players WHERE id = ?", playerID,
	).Scan(&p.ID, &p.Name, &p.EloRating, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player not found: %s", playerID)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

func (s *store) GetAllPlayers() ([]PlayerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, elo_rating, created_at FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []PlayerInfo
	for rows.Next() {
		var p PlayerInfo
		if err := rows.Scan(&p.ID, &p.Name, &p.EloRating, &p.CreatedAt); err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) UpdatePlayerName(playerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("player name must not be empty")
	}

	res, err := s.db.Exec("UPDATE players SET name = ? WHERE id = ?", name, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player name: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("player not found: %s", playerID)
	}
	return nil
}

// DeletePlayer removes a player. Foreign keys cascade-delete every match the
// player appears in, along with the match's rating history rows.
func (s *store) DeletePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("player not found: %s", playerID)
	}

	log.Info("Deleted player and cascaded matches", "playerID", playerID)
	return nil
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// CreateMatch inserts a new match. ID and CreatedAt are assigned when unset.
func (s *store) CreateMatch(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	if match.CreatedAt == 0 {
		match.CreatedAt = time.Now().Unix()
	}

	setsJSON, err := json.Marshal(match.Sets)
	if err != nil {
		return fmt.Errorf("failed to marshal sets: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO matches (id, date, player1_id, player2_id, player3_id, player4_id, is_doubles, sets_json, winner_id, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.Date, match.Player1ID, match.Player2ID,
		nullable(match.Player3ID), nullable(match.Player4ID),
		match.IsDoubles, string(setsJSON), nullable(match.WinnerID), nullable(match.Note),
		match.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	log.Info("Created match", "matchID", match.ID, "doubles", match.IsDoubles, "winnerID", match.WinnerID)
	return nil
}

// UpdateMatch overwrites every mutable field of an existing match.
// CreatedAt is deliberately left untouched so the replay tie-break keeps the
// original insertion order.
func (s *store) UpdateMatch(match *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setsJSON, err := json.Marshal(match.Sets)
	if err != nil {
		return fmt.Errorf("failed to marshal sets: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE matches SET date = ?, player1_id = ?, player2_id = ?, player3_id = ?, player4_id = ?,
			is_doubles = ?, sets_json = ?, winner_id = ?, note = ?
		WHERE id = ?`,
		match.Date, match.Player1ID, match.Player2ID,
		nullable(match.Player3ID), nullable(match.Player4ID),
		match.IsDoubles, string(setsJSON), nullable(match.WinnerID), nullable(match.Note),
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match not found: %s", match.ID)
	}
	return nil
}

func (s *store) DeleteMatch(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", matchID)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match not found: %s", matchID)
	}
	return nil
}

func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, date, player1_id, player2_id, player3_id, player4_id, is_doubles, sets_json, winner_id, note, created_at
		FROM matches WHERE id = ?`, matchID)

	match, err := s.scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match not found: %s", matchID)
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return match, nil
}

// GetAllMatches retrieves every match in display order, newest first.
// The replay coordinator re-sorts ascending itself before applying ratings.
func (s *store) GetAllMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, date, player1_id, player2_id, player3_id, player4_id, is_doubles, sets_json, winner_id, note, created_at
		FROM matches ORDER BY date DESC, created_at DESC, id DESC`)
	if err != nil {
		log.Error("Failed to query all matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	return s.collectMatches(rows)
}

// GetMatchesForPlayer retrieves the matches a player appears in, any seat,
// newest first.
func (s *store) GetMatchesForPlayer(playerID string) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, date, player1_id, player2_id, player3_id, player4_id, is_doubles, sets_json, winner_id, note, created_at
		FROM matches
		WHERE player1_id = ? OR player2_id = ? OR player3_id = ? OR player4_id = ?
		ORDER BY date DESC, created_at DESC, id DESC`,
		playerID, playerID, playerID, playerID)
	if err != nil {
		log.Error("Failed to query matches for player", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	return s.collectMatches(rows)
}

func (s *store) collectMatches(rows *sql.Rows) ([]*Match, error) {
	var matches []*Match
	for rows.Next() {
		match, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// scanMatch is a helper function to scan a single match row.
func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var player3, player4, setsJSON, winnerID, note sql.NullString

	err := scanner.Scan(
		&match.ID, &match.Date, &match.Player1ID, &match.Player2ID,
		&player3, &player4, &match.IsDoubles, &setsJSON, &winnerID, &note,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.Player3ID = player3.String
	match.Player4ID = player4.String
	match.WinnerID = winnerID.String
	match.Note = note.String

	// Historical rows may carry malformed sets; tolerate them as no sets
	// rather than failing the whole read.
	if setsJSON.Valid && setsJSON.String != "" {
		if err := json.Unmarshal([]byte(setsJSON.String), &match.Sets); err != nil {
			log.Error("Failed to unmarshal sets_json", "error", err, "matchID", match.ID)
			match.Sets = []SetScore{}
		}
	} else {
		match.Sets = []SetScore{}
	}

	return &match, nil
}

// ResetAllRatings sets every player's rating to the given value.
func (s *store) ResetAllRatings(rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE players SET elo_rating = ?", rating)
	if err != nil {
		return fmt.Errorf("failed to reset ratings: %w", err)
	}
	return nil
}

// DeleteAllRatingHistory discards every rating history row.
func (s *store) DeleteAllRatingHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM elo_history")
	if err != nil {
		return fmt.Errorf("failed to delete rating history: %w", err)
	}
	return nil
}

func (s *store) WriteRatingHistoryEntry(entry *EloHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	_, err := s.db.Exec(`
		INSERT INTO elo_history (id, player_id, match_id, rating_before, rating_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.PlayerID, entry.MatchID, entry.RatingBefore, entry.RatingAfter, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write rating history entry: %w", err)
	}
	return nil
}

func (s *store) UpdatePlayerRating(playerID string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE players SET elo_rating = ? WHERE id = ?", rating, playerID)
	if err != nil {
		return fmt.Errorf("failed to update player rating: %w", err)
	}
	return nil
}

// GetRatingHistory retrieves a player's rating movements in match order.
func (s *store) GetRatingHistory(playerID string) ([]EloHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, player_id, match_id, rating_before, rating_after, created_at
		FROM elo_history WHERE player_id = ?
		ORDER BY created_at ASC, id ASC`, playerID)
	if err != nil {
		log.Error("Failed to query rating history", "error", err, "playerID", playerID)
		return nil, err
	}
	defer rows.Close()

	var entries []EloHistoryEntry
	for rows.Next() {
		var e EloHistoryEntry
		if err := rows.Scan(&e.ID, &e.PlayerID, &e.MatchID, &e.RatingBefore, &e.RatingAfter, &e.CreatedAt); err != nil {
			log.Error("Failed to scan rating history row", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"elo_history", "matches", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

// nullable maps an empty string to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
