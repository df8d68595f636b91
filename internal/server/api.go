package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// Router wires the HTTP API and the WebSocket endpoint.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocketUpgrade)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/levels", s.handleListLevels).Methods(http.MethodGet)
	api.HandleFunc("/levels/id/{id}", s.handleLevelByID).Methods(http.MethodGet)
	api.HandleFunc("/levels/{seed:-?[0-9]+}", s.handleLevelBySeed).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	return r
}

type levelStats struct {
	Segments   int `json:"segments"`
	Holes      int `json:"holes"`
	Structures int `json:"structures"`
	Blocks     int `json:"blocks"`
	Mystery    int `json:"mystery"`
	Coins      int `json:"coins"`
	Immovable  int `json:"immovable"`
	Goombas    int `json:"goombas"`
}

type levelResponse struct {
	ID        string      `json:"id"`
	Seed      int64       `json:"seed"`
	Mode      string      `json:"mode"`
	CreatedAt time.Time   `json:"created_at"`
	Stats     *levelStats `json:"stats,omitempty"`
	YAML      string      `json:"yaml,omitempty"`
}

type leaderboardEntry struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Best   int    `json:"best"`
	Games  int    `json:"games"`
}

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Players       int    `json:"players"`
	Connections   int    `json:"connections"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(s.Uptime().Seconds()),
		Players:       s.OnlineCount(),
		Connections:   s.connLimiter.Stats().Total,
	})
}

// handleLevelBySeed serves GET /api/levels/{seed}?mode=&format=.
func (s *Server) handleLevelBySeed(w http.ResponseWriter, r *http.Request) {
	seed, err := strconv.ParseInt(mux.Vars(r)["seed"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "seed out of range")
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode != "" {
		if _, err := worldgen.ParseMode(mode); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	stored, level, err := s.levels.ForSeed(seed, mode)
	if err != nil {
		logger.Error("Level request failed", "seed", seed, "mode", mode, "error", err)
		writeError(w, http.StatusInternalServerError, "could not build level")
		return
	}
	s.writeLevel(w, r, stored, level)
}

// handleLevelByID serves GET /api/levels/id/{id}?format=.
func (s *Server) handleLevelByID(w http.ResponseWriter, r *http.Request) {
	stored, level, err := s.levels.ByID(mux.Vars(r)["id"])
	if errors.Is(err, database.ErrLevelNotFound) {
		writeError(w, http.StatusNotFound, "level not found")
		return
	}
	if err != nil {
		logger.Error("Level lookup failed", "id", mux.Vars(r)["id"], "error", err)
		writeError(w, http.StatusInternalServerError, "could not load level")
		return
	}
	s.writeLevel(w, r, stored, level)
}

// writeLevel answers in the requested format: json (default), yaml for the
// raw level document, or ascii for a side-view map.
func (s *Server) writeLevel(w http.ResponseWriter, r *http.Request, stored *database.StoredLevel, level *worldgen.Level) {
	w.Header().Set("X-Level-ID", stored.ID)
	switch r.URL.Query().Get("format") {
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		w.Write(stored.Data)
	case "ascii":
		columns := mapColumns
		if v := r.URL.Query().Get("columns"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxMapColumns {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("columns must be between 1 and %d", maxMapColumns))
				return
			}
			columns = n
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(worldgen.RenderASCII(level, columns)))
	case "", "json":
		st := level.Stats()
		writeJSON(w, http.StatusOK, levelResponse{
			ID:        stored.ID,
			Seed:      stored.Seed,
			Mode:      stored.Mode,
			CreatedAt: stored.CreatedAt,
			Stats: &levelStats{
				Segments:   st.Segments,
				Holes:      st.Holes,
				Structures: st.Structures,
				Blocks:     st.Blocks,
				Mystery:    st.Mystery,
				Coins:      st.Coins,
				Immovable:  st.Immovable,
				Goombas:    st.Goombas,
			},
			YAML: string(stored.Data),
		})
	default:
		writeError(w, http.StatusBadRequest, "format must be json, yaml or ascii")
	}
}

// handleListLevels serves GET /api/levels?limit=, newest first.
func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r, 20, 100)
	if !ok {
		return
	}
	levels, err := s.db.ListLevels(limit)
	if err != nil {
		logger.Error("Level list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list levels")
		return
	}
	out := make([]levelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, levelResponse{ID: l.ID, Seed: l.Seed, Mode: l.Mode, CreatedAt: l.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLeaderboard serves GET /api/leaderboard?limit=.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r, defaultTopCount, maxTopCount)
	if !ok {
		return
	}
	entries, err := s.db.Leaderboard(limit)
	if err != nil {
		logger.Error("Leaderboard query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load leaderboard")
		return
	}
	out := make([]leaderboardEntry, 0, len(entries))
	for i, e := range entries {
		out = append(out, leaderboardEntry{Rank: i + 1, Player: e.PlayerName, Best: e.Best, Games: e.Games})
	}
	writeJSON(w, http.StatusOK, out)
}

// limitParam reads ?limit=, clamping to max. It writes a 400 and returns
// false on a malformed value.
func limitParam(w http.ResponseWriter, r *http.Request, def, max int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "limit must be a positive number")
		return 0, false
	}
	return min(n, max), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Response write failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
