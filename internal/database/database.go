// Package database provides SQLite and PostgreSQL persistence for accounts,
// scores and generated levels.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens or creates the SQLite database at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the database selected by cfg.Driver and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(cfg.DialectType())

	var dsn string
	switch cfg.DialectType() {
	case DialectPostgres:
		dsn = cfg.Postgres.DSN()
	default:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		dir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = cfg.SQLitePath
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.DialectType() == DialectPostgres {
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// q converts a ? query to the active dialect.
func (d *Database) q(query string) string {
	return d.qb.Build(query)
}

// execQuerier is satisfied by both *sql.DB and *sql.Tx.
type execQuerier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// insertID runs an INSERT and returns the new row's id.
func (d *Database) insertID(execer execQuerier, query string, args ...any) (int64, error) {
	if d.dialect.SupportsLastInsertID() {
		result, err := execer.Exec(d.q(query), args...)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}
	var id int64
	err := execer.QueryRow(d.qb.BuildWithReturning(query, "id"), args...).Scan(&id)
	return id, err
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	serial := d.dialect.SerialPrimaryKey()
	ciText := d.dialect.CaseInsensitiveText()

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id ` + serial + `,
			username ` + ciText + ` UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_login TIMESTAMP,
			last_ip TEXT,
			banned INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS levels (
			id TEXT PRIMARY KEY,
			seed BIGINT NOT NULL,
			mode TEXT NOT NULL,
			data TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(seed, mode)
		)`,

		`CREATE TABLE IF NOT EXISTS scores (
			id ` + serial + `,
			account_id INTEGER REFERENCES accounts(id) ON DELETE SET NULL,
			player_name TEXT NOT NULL,
			points INTEGER NOT NULL,
			outcome TEXT NOT NULL DEFAULT 'lost',
			level_id TEXT,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scores_player_name ON scores(player_name)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_points ON scores(points)`,
	}

	// Columns added after the first release; errors mean the column exists.
	safeMigrations := []string{
		`ALTER TABLE scores ADD COLUMN time_left INTEGER NOT NULL DEFAULT 0`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	for _, m := range safeMigrations {
		_, _ = d.db.Exec(m)
	}

	return nil
}
