package gamestate

import "fmt"

// ScoreText is the player's score label.
func ScoreText(score int) string {
	return fmt.Sprintf("MARIO\n%06d", score)
}

// HighScoreText is the high score label; beaten switches the heading.
func HighScoreText(score int, beaten bool) string {
	if beaten {
		return fmt.Sprintf("NEW HIGH SCORE!\n%06d", score)
	}
	return fmt.Sprintf("HIGH SCORE\n%06d", score)
}

// EndTitle is the heading of the end screen.
func (s *Session) EndTitle() string {
	switch {
	case s.Won():
		return "YOU WON!"
	case s.OutOfTime():
		return "TIME UP"
	default:
		return "GAME OVER"
	}
}
