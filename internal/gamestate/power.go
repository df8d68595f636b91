// Package gamestate holds the rules of a single run: power-ups, damage,
// scoring, the flag and the end screens.
package gamestate

// Power is the player's power-up state.
type Power int

const (
	Small Power = iota
	Grown
	Fire
)

func (p Power) String() string {
	switch p {
	case Grown:
		return "grown"
	case Fire:
		return "fire"
	default:
		return "small"
	}
}

// Points awarded per event.
const (
	PointsCoin       = 200
	PointsPowerUp    = 1000
	PointsStomp      = 100
	PointsBrickBreak = 50
	PointsFlag       = 2000
)

// Reward is what a mystery block releases.
type Reward int

const (
	RewardNone Reward = iota
	RewardMushroom
	RewardFireFlower
)

func (r Reward) String() string {
	switch r {
	case RewardMushroom:
		return "mushroom"
	case RewardFireFlower:
		return "fire_flower"
	default:
		return "none"
	}
}

// RewardFor maps a 0..100 roll to a reward. Coins are never drawn.
func RewardFor(roll int) Reward {
	switch {
	case roll < 90:
		return RewardFireFlower
	case roll < 96:
		return RewardMushroom
	default:
		return RewardFireFlower
	}
}
