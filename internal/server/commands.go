package server

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// Limits for the top command.
const (
	defaultTopCount = 10
	maxTopCount     = 50
)

// mapColumns is the width of maps sent to line clients.
const mapColumns = 100

// maxMapColumns caps the width HTTP clients may ask for.
const maxMapColumns = 400

type command struct {
	usage string
	help  string
	run   func(srv *Server, sess *Session, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":  {"help", "Show this list", cmdHelp},
		"level": {"level [seed] [mode]", "Get the level for a seed (random when omitted); mode is overworld or underground", cmdLevel},
		"map":   {"map [id]", "Draw a level, by default the last one you got", cmdMap},
		"score": {"score <id> <points> [won|lost|timeup]", "Record a finished run on a level", cmdScore},
		"top":   {"top [n]", "Show the leaderboard", cmdTop},
		"best":  {"best", "Show your best score and the high score", cmdBest},
		"who":   {"who", "List connected players", cmdWho},
		"quit":  {"quit", "Disconnect", cmdQuit},
	}
}

func cmdHelp(srv *Server, sess *Session, args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Commands:")
	for _, name := range names {
		c := commands[name]
		fmt.Fprintf(&b, "\r\n  %-38s %s", c.usage, c.help)
	}
	return sess.client.WriteLine(b.String())
}

func cmdLevel(srv *Server, sess *Session, args []string) error {
	seed := rand.Int63n(1 << 31)
	if len(args) > 0 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return writef(sess.client, "Seed must be a number, got %q.", args[0])
		}
		seed = n
	}
	mode := ""
	if len(args) > 1 {
		m, err := worldgen.ParseMode(args[1])
		if err != nil {
			return writef(sess.client, "Mode must be overworld or underground, got %q.", args[1])
		}
		mode = m.String()
	}

	stored, level, err := srv.levels.ForSeed(seed, mode)
	if err != nil {
		logger.Error("Level request failed", "player", sess.Name, "seed", seed, "mode", mode, "error", err)
		return writef(sess.client, "Could not build a level for seed %d.", seed)
	}
	sess.lastLevel = stored.ID
	return sess.client.WriteLine(describeLevel(stored.ID, level))
}

// describeLevel is the one-paragraph summary shown for a level.
func describeLevel(id string, level *worldgen.Level) string {
	st := level.Stats()
	return fmt.Sprintf("Level %s\r\n  seed %d, %s, %d segments, %d holes, %d structures, %d mystery blocks, %d coins, %d goombas",
		id, level.Seed, level.Mode, st.Segments, st.Holes, st.Structures, st.Mystery, st.Coins, st.Goombas)
}

func cmdMap(srv *Server, sess *Session, args []string) error {
	id := sess.lastLevel
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return writef(sess.client, "No level yet. Use: level [seed] [mode]")
	}

	_, level, err := srv.levels.ByID(id)
	if errors.Is(err, database.ErrLevelNotFound) {
		return writef(sess.client, "Unknown level %q.", id)
	}
	if err != nil {
		logger.Error("Map request failed", "player", sess.Name, "level", id, "error", err)
		return writef(sess.client, "Could not load level %s.", id)
	}
	art := strings.ReplaceAll(strings.TrimRight(worldgen.RenderASCII(level, mapColumns), "\n"), "\n", "\r\n")
	return sess.client.WriteLine(art)
}

func cmdScore(srv *Server, sess *Session, args []string) error {
	if len(args) < 2 {
		return writef(sess.client, "Usage: %s", commands["score"].usage)
	}
	id := args[0]
	points, err := strconv.Atoi(args[1])
	if err != nil || points < 0 {
		return writef(sess.client, "Points must be a non-negative number, got %q.", args[1])
	}
	outcome := database.OutcomeLost
	if len(args) > 2 {
		o, err := database.ParseOutcome(strings.ToLower(args[2]))
		if err != nil {
			return writef(sess.client, "Outcome must be won, lost or timeup, got %q.", args[2])
		}
		outcome = o
	}

	if _, _, err := srv.levels.ByID(id); err != nil {
		if errors.Is(err, database.ErrLevelNotFound) {
			return writef(sess.client, "Unknown level %q.", id)
		}
		logger.Error("Score level lookup failed", "player", sess.Name, "level", id, "error", err)
		return writef(sess.client, "Could not record the score.")
	}

	result, err := srv.db.RecordScore(&database.Score{
		AccountID:  sess.AccountID,
		PlayerName: sess.Name,
		Points:     points,
		Outcome:    outcome,
		LevelID:    id,
	})
	if err != nil {
		logger.Error("Score record failed", "player", sess.Name, "level", id, "error", err)
		return writef(sess.client, "Could not record the score.")
	}

	logger.Always("Score recorded",
		"player", sess.Name,
		"points", points,
		"outcome", outcome,
		"level", id,
		"guest", sess.Guest(),
		"event", "score_recorded")
	msg := fmt.Sprintf("Score recorded: %d (%s).", points, outcome)
	switch {
	case result.HighScore:
		logger.Always("High score beaten", "player", sess.Name, "points", points, "event", "high_score")
		msg += " NEW HIGH SCORE!"
	case result.PersonalBest:
		msg += " New personal best!"
	}
	return sess.client.WriteLine(msg)
}

func cmdTop(srv *Server, sess *Session, args []string) error {
	n := defaultTopCount
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return writef(sess.client, "Count must be a positive number, got %q.", args[0])
		}
		n = min(v, maxTopCount)
	}

	entries, err := srv.db.Leaderboard(n)
	if err != nil {
		logger.Error("Leaderboard query failed", "error", err)
		return writef(sess.client, "Could not load the leaderboard.")
	}
	if len(entries) == 0 {
		return writef(sess.client, "No scores yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%4s  %-20s %8s %6s", "#", "Player", "Best", "Games")
	for i, e := range entries {
		marker := ""
		if e.PlayerName == sess.Name {
			marker = " <"
		}
		fmt.Fprintf(&b, "\r\n%3d.  %-20s %8d %6d%s", i+1, e.PlayerName, e.Best, e.Games, marker)
	}
	return sess.client.WriteLine(b.String())
}

func cmdBest(srv *Server, sess *Session, args []string) error {
	best, err := srv.db.PlayerBest(sess.Name)
	if err != nil {
		logger.Error("Player best query failed", "player", sess.Name, "error", err)
		return writef(sess.client, "Could not load your scores.")
	}
	high, err := srv.db.HighScore()
	if err != nil {
		logger.Error("High score query failed", "error", err)
		return writef(sess.client, "Could not load the high score.")
	}
	return writef(sess.client, "Your best: %d\r\nHigh score: %d", best, high)
}

func cmdWho(srv *Server, sess *Session, args []string) error {
	names := srv.OnlinePlayers()
	return writef(sess.client, "Online (%d): %s", len(names), strings.Join(names, ", "))
}

func cmdQuit(srv *Server, sess *Session, args []string) error {
	sess.client.WriteLine("Goodbye!")
	return errQuit
}
