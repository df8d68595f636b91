package gamestate

import (
	"fmt"

	"github.com/lawnchairsociety/openscroller/internal/logger"
)

// HighScoreStore keeps the best score across runs.
type HighScoreStore interface {
	HighScore() (int, error)
	SubmitScore(playerName string, points int, outcome string) (bool, error)
}

// Settle records the finished run and reports whether it beat the stored
// high score.
func (s *Session) Settle(store HighScoreStore, playerName string) (bool, error) {
	if !s.Finished() {
		return false, fmt.Errorf("run still in progress")
	}
	beaten, err := store.SubmitScore(playerName, s.Score(), s.Outcome())
	if err != nil {
		return false, fmt.Errorf("submit score: %w", err)
	}
	if beaten {
		logger.Always("New high score", "player", playerName, "score", s.Score())
	}
	return beaten, nil
}
