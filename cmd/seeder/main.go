package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pongclub/rally/internal/club"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

// randomSets produces a plausible best-of-three or best-of-five score line.
func randomSets() ([]club.SetScore, bool) {
	numSets := 3
	if rand.Intn(2) == 0 {
		numSets = 5
	}
	sets := make([]club.SetScore, 0, numSets)
	sideOne, sideTwo := 0, 0
	for i := 0; i < numSets; i++ {
		loserPoints := rand.Intn(10)
		if rand.Intn(2) == 0 {
			sets = append(sets, club.SetScore{P1: 11, P2: loserPoints})
			sideOne++
		} else {
			sets = append(sets, club.SetScore{P1: loserPoints, P2: 11})
			sideTwo++
		}
		if sideOne > numSets/2 || sideTwo > numSets/2 {
			break
		}
	}
	return sets, sideOne > sideTwo
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Create 4 dummy players to use in matches
	playerIDs := []string{"seed-player-1", "seed-player-2", "seed-player-3", "seed-player-4"}
	playerNames := []string{"Seeder Player A", "Seeder Player B", "Seeder Player C", "Seeder Player D"}

	now := time.Now().Unix()
	for i, id := range playerIDs {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, elo_rating, created_at) VALUES (?, ?, ?, ?)", id, playerNames[i], 1200, now)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", playerNames[i], err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*11) // 11 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

		// Random singles pairing from the dummy pool.
		p1 := rand.Intn(len(playerIDs))
		p2 := rand.Intn(len(playerIDs) - 1)
		if p2 >= p1 {
			p2++
		}

		sets, sideOneWon := randomSets()
		setsJSON, _ := json.Marshal(sets)
		winnerID := playerIDs[p2]
		if sideOneWon {
			winnerID = playerIDs[p1]
		}

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			matchTime.Unix(),
			playerIDs[p1],
			playerIDs[p2],
			nil, // player3_id
			nil, // player4_id
			false,
			string(setsJSON),
			winnerID,
			"seeded",
			matchTime.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, date, player1_id, player2_id, player3_id, player4_id,
					is_doubles, sets_json, winner_id, note, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*11)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
