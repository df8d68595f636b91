package server

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/openscroller/internal/antispam"
	"github.com/lawnchairsociety/openscroller/internal/logger"
)

// errQuit ends a session loop without being an error worth logging.
var errQuit = errors.New("quit")

// Session is an authenticated connection.
type Session struct {
	ID          string
	Name        string
	AccountID   *int64 // nil for guests
	ConnectedAt time.Time

	client   Client
	throttle *antispam.Tracker

	// lastLevel is the id of the level most recently handed out, the
	// default for map and score.
	lastLevel string
}

func newSession(client Client, name string, accountID *int64) *Session {
	return &Session{
		throttle:    antispam.NewTracker(antispam.Config{}),
		ID:          uuid.NewString(),
		Name:        name,
		AccountID:   accountID,
		ConnectedAt: time.Now(),
		client:      client,
	}
}

// Guest reports whether the session has no account behind it.
func (s *Session) Guest() bool { return s.AccountID == nil }

// runSession reads and dispatches commands until quit or a read error.
func (srv *Server) runSession(sess *Session) {
	writef(sess.client, "Type 'help' for a list of commands.")
	for {
		line, err := prompt(sess.client, "> ")
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if res := sess.throttle.Check(); !res.Allowed {
			if res.Blocked == 1 {
				logger.Warning("Command throttled", "player", sess.Name, "session", sess.ID, "event", "command_throttled")
			}
			writef(sess.client, "You're sending commands too quickly. Please wait %d seconds.", res.WaitSeconds)
			continue
		}

		name := strings.ToLower(fields[0])
		cmd, ok := commands[name]
		if !ok {
			writef(sess.client, "Unknown command %q. Type 'help' for a list of commands.", name)
			continue
		}
		// Commands report their own failures to the player; an error here
		// means the session is over.
		if err := cmd.run(srv, sess, fields[1:]); err != nil {
			if !errors.Is(err, errQuit) {
				logger.Debug("Session write failed", "session", sess.ID, "command", name, "error", err)
			}
			return
		}
	}
}
