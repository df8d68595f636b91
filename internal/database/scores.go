package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeWon    Outcome = "won"
	OutcomeLost   Outcome = "lost"
	OutcomeTimeUp Outcome = "timeup"
)

// ParseOutcome accepts won, lost or timeup; anything else is an error.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeWon, OutcomeLost, OutcomeTimeUp:
		return Outcome(s), nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Score is one finished run.
type Score struct {
	ID         int64
	AccountID  *int64
	PlayerName string
	Points     int
	Outcome    Outcome
	LevelID    string
	TimeLeft   int
	RecordedAt time.Time
}

// LeaderboardEntry is a player's best run.
type LeaderboardEntry struct {
	PlayerName string
	Best       int
	Games      int
}

// RecordResult reports what a recorded score beat.
type RecordResult struct {
	PersonalBest bool
	HighScore    bool
}

// RecordScore stores a finished run. The comparison against the player's
// previous best and the global high score happens in the same transaction
// as the insert.
func (d *Database) RecordScore(s *Score) (RecordResult, error) {
	var result RecordResult
	if s.PlayerName == "" {
		return result, errors.New("player name cannot be empty")
	}
	if s.Points < 0 {
		return result, errors.New("points cannot be negative")
	}
	if s.Outcome == "" {
		s.Outcome = OutcomeLost
	}

	tx, err := d.db.Begin()
	if err != nil {
		return result, err
	}
	defer tx.Rollback()

	var personal, global sql.NullInt64
	if err := tx.QueryRow(d.q("SELECT MAX(points) FROM scores WHERE player_name = ?"), s.PlayerName).Scan(&personal); err != nil {
		return result, fmt.Errorf("failed to read personal best: %w", err)
	}
	if err := tx.QueryRow("SELECT MAX(points) FROM scores").Scan(&global); err != nil {
		return result, fmt.Errorf("failed to read high score: %w", err)
	}
	result.PersonalBest = !personal.Valid || int64(s.Points) > personal.Int64
	result.HighScore = !global.Valid || int64(s.Points) > global.Int64

	if s.RecordedAt.IsZero() {
		s.RecordedAt = time.Now()
	}
	id, err := d.insertID(tx,
		"INSERT INTO scores (account_id, player_name, points, outcome, level_id, time_left, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		s.AccountID, s.PlayerName, s.Points, string(s.Outcome), nullString(s.LevelID), s.TimeLeft, s.RecordedAt,
	)
	if err != nil {
		return result, fmt.Errorf("failed to record score: %w", err)
	}
	s.ID = id

	if err := tx.Commit(); err != nil {
		return result, err
	}
	return result, nil
}

// HighScore returns the best score ever recorded, or 0.
func (d *Database) HighScore() (int, error) {
	var best sql.NullInt64
	if err := d.db.QueryRow("SELECT MAX(points) FROM scores").Scan(&best); err != nil {
		return 0, fmt.Errorf("failed to read high score: %w", err)
	}
	return int(best.Int64), nil
}

// PlayerBest returns a player's best score, or 0 when they have none.
func (d *Database) PlayerBest(playerName string) (int, error) {
	var best sql.NullInt64
	if err := d.db.QueryRow(d.q("SELECT MAX(points) FROM scores WHERE player_name = ?"), playerName).Scan(&best); err != nil {
		return 0, fmt.Errorf("failed to read player best: %w", err)
	}
	return int(best.Int64), nil
}

// SubmitScore records a run for a player name and reports whether it set a
// new global high score.
func (d *Database) SubmitScore(playerName string, points int, outcome string) (bool, error) {
	o, err := ParseOutcome(outcome)
	if err != nil {
		return false, err
	}
	result, err := d.RecordScore(&Score{PlayerName: playerName, Points: points, Outcome: o})
	if err != nil {
		return false, err
	}
	return result.HighScore, nil
}

// Leaderboard returns players ordered by their best score.
func (d *Database) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.Query(d.q(`
		SELECT player_name, MAX(points) AS best, COUNT(*) AS games
		FROM scores
		GROUP BY player_name
		ORDER BY best DESC, player_name ASC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerName, &e.Best, &e.Games); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PlayerScores returns a player's runs, newest first.
func (d *Database) PlayerScores(playerName string, limit int) ([]Score, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.db.Query(d.q(`
		SELECT id, account_id, player_name, points, outcome, level_id, time_left, recorded_at
		FROM scores
		WHERE player_name = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`), playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

// AllScores returns every run in insertion order.
func (d *Database) AllScores() ([]Score, error) {
	rows, err := d.db.Query(`
		SELECT id, account_id, player_name, points, outcome, level_id, time_left, recorded_at
		FROM scores ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]Score, error) {
	var scores []Score
	for rows.Next() {
		var s Score
		var accountID sql.NullInt64
		var levelID sql.NullString
		var outcome string
		if err := rows.Scan(&s.ID, &accountID, &s.PlayerName, &s.Points, &outcome, &levelID, &s.TimeLeft, &s.RecordedAt); err != nil {
			return nil, err
		}
		if accountID.Valid {
			id := accountID.Int64
			s.AccountID = &id
		}
		s.LevelID = levelID.String
		s.Outcome = Outcome(outcome)
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
