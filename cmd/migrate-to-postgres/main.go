// migrate-to-postgres copies accounts, levels and scores from SQLite to
// PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/openscroller.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user openscroller \
//	    -pg-password openscroller \
//	    -pg-database openscroller
package main

import (
	"errors"
	"flag"
	"log"

	"github.com/lawnchairsociety/openscroller/internal/database"
)

func main() {
	// Parse command-line flags
	sqlitePath := flag.String("sqlite", "data/openscroller.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "openscroller", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "openscroller", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "openscroller", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = *pgHost
	pgCfg.Port = *pgPort
	pgCfg.User = *pgUser
	pgCfg.Password = *pgPassword
	pgCfg.Database = *pgDatabase
	pgCfg.SSLMode = *pgSSLMode

	// Opening runs the schema migrations on PostgreSQL.
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pgCfg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	tables := []struct {
		name string
		fn   func(src, dst *database.Database, dryRun bool) (int64, error)
	}{
		{"accounts", migrateAccounts},
		{"levels", migrateLevels},
		{"scores", migrateScores},
	}

	var totalRows int64
	for _, t := range tables {
		log.Printf("Migrating table: %s", t.name)
		count, err := t.fn(src, dst, *dryRun)
		if err != nil {
			log.Fatalf("Failed to migrate %s: %v", t.name, err)
		}
		log.Printf("  Migrated %d rows", count)
		totalRows += count
	}

	log.Printf("Migration complete! Total rows migrated: %d", totalRows)
}

func migrateAccounts(src, dst *database.Database, dryRun bool) (int64, error) {
	accounts, err := src.AllAccounts()
	if err != nil {
		return 0, err
	}
	if dryRun {
		return int64(len(accounts)), nil
	}

	var count int64
	for _, a := range accounts {
		if err := dst.ImportAccount(a); err != nil {
			if errors.Is(err, database.ErrAccountExists) {
				log.Printf("  Skipping existing account: %s", a.Username)
				continue
			}
			return count, err
		}
		count++
	}

	// Imported ids bypass the sequence.
	_, _ = dst.DB().Exec(`SELECT setval('accounts_id_seq', COALESCE((SELECT MAX(id) FROM accounts), 0) + 1, false)`)
	return count, nil
}

func migrateLevels(src, dst *database.Database, dryRun bool) (int64, error) {
	levels, err := src.AllLevels()
	if err != nil {
		return 0, err
	}
	if dryRun {
		return int64(len(levels)), nil
	}

	var count int64
	for i := range levels {
		l := &levels[i]
		if _, err := dst.GetLevelBySeed(l.Seed, l.Mode); err == nil {
			log.Printf("  Skipping existing level: seed %d %s", l.Seed, l.Mode)
			continue
		}
		if err := dst.ImportLevel(l); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func migrateScores(src, dst *database.Database, dryRun bool) (int64, error) {
	scores, err := src.AllScores()
	if err != nil {
		return 0, err
	}
	if dryRun {
		return int64(len(scores)), nil
	}

	existing, err := dst.AllScores()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("  Target already has %d scores, skipping", len(existing))
		return 0, nil
	}

	var count int64
	for i := range scores {
		s := scores[i]
		s.ID = 0
		if _, err := dst.RecordScore(&s); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
