package database

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

// getPostgresTestConfig returns a config for the test PostgreSQL server, or
// nil when OSC_TEST_POSTGRES is not set.
func getPostgresTestConfig() *Config {
	if os.Getenv("OSC_TEST_POSTGRES") == "" {
		return nil
	}

	host := os.Getenv("OSC_TEST_POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}

	port := 5435
	if portStr := os.Getenv("OSC_TEST_POSTGRES_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &port)
	}

	user := os.Getenv("OSC_TEST_POSTGRES_USER")
	if user == "" {
		user = "openscroller"
	}

	password := os.Getenv("OSC_TEST_POSTGRES_PASSWORD")
	if password == "" {
		password = "openscroller"
	}

	database := os.Getenv("OSC_TEST_POSTGRES_DATABASE")
	if database == "" {
		database = "openscroller_test"
	}

	return &Config{
		Driver: "postgres",
		Postgres: PostgresConfig{
			Host:            host,
			Port:            port,
			User:            user,
			Password:        password,
			Database:        database,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 1 * time.Minute,
		},
	}
}

var testTables = []string{"scores", "levels", "accounts"}

// setupPostgresTestDB opens the test server and clears its tables, or skips.
func setupPostgresTestDB(t *testing.T) *Database {
	cfg := getPostgresTestConfig()
	if cfg == nil {
		t.Skip("Skipping PostgreSQL test: OSC_TEST_POSTGRES not set")
	}

	db, err := OpenWithConfig(*cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL database: %v", err)
	}

	for _, table := range testTables {
		if _, err := db.db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}

	t.Cleanup(func() {
		for _, table := range testTables {
			db.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		}
		db.Close()
	})

	return db
}

func TestPostgres_CITEXTUsernames(t *testing.T) {
	db := setupPostgresTestDB(t)

	if _, err := db.CreateAccount("testuser", "Password123"); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	account, err := db.GetAccountByUsername("TESTUSER")
	if err != nil {
		t.Fatalf("Case-insensitive lookup failed: %v", err)
	}
	if account.Username != "testuser" {
		t.Errorf("Username = %q, want %q", account.Username, "testuser")
	}

	if _, err := db.CreateAccount("TestUser", "Password123"); err == nil {
		t.Error("Expected error for case-insensitive duplicate, but insert succeeded")
	}
}

func TestPostgres_ScoresAndLevels(t *testing.T) {
	db := setupPostgresTestDB(t)

	result, err := db.RecordScore(&Score{PlayerName: "alpha", Points: 4200, Outcome: OutcomeWon})
	if err != nil {
		t.Fatalf("RecordScore failed: %v", err)
	}
	if !result.HighScore {
		t.Error("first score should be the high score")
	}

	entries, err := db.Leaderboard(5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Best != 4200 {
		t.Errorf("Leaderboard = %+v, want one entry with 4200", entries)
	}

	level := generateLevel(t, 77)
	id, err := db.SaveLevel(level)
	if err != nil {
		t.Fatalf("SaveLevel failed: %v", err)
	}
	if _, err := db.GetLevel(id); err != nil {
		t.Errorf("GetLevel failed: %v", err)
	}
}

func TestPostgres_ConcurrentScores(t *testing.T) {
	db := setupPostgresTestDB(t)

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				name := fmt.Sprintf("player_%d", worker)
				if _, err := db.RecordScore(&Score{PlayerName: name, Points: j * 100}); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent write failed: %v", err)
	}

	scores, err := db.AllScores()
	if err != nil {
		t.Fatalf("AllScores failed: %v", err)
	}
	if len(scores) != workers*perWorker {
		t.Errorf("len(scores) = %d, want %d", len(scores), workers*perWorker)
	}
}
