package worldgen

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a LevelConfig cannot produce a level.
var ErrInvalidConfig = errors.New("invalid level config")

// LevelConfig contains parameters for level generation.
type LevelConfig struct {
	Seed            int64   `yaml:"seed"`             // Seed for all random draws
	Mode            Mode    `yaml:"mode"`             // Theme; ignored when RollMode is set
	RollMode        bool    `yaml:"roll_mode"`        // Draw the mode from OverworldChance instead of using Mode
	ScreenWidth     float64 `yaml:"screen_width"`     // Viewport width in pixels
	ScreenHeight    float64 `yaml:"screen_height"`    // Viewport height in pixels
	WidthScreens    int     `yaml:"width_screens"`    // World width as a multiple of ScreenWidth
	PlatformPieces  int     `yaml:"platform_pieces"`  // Number of segments to walk (the walk visits 0..PlatformPieces)
	HoleChance      int     `yaml:"hole_chance"`      // Percent chance that an unconstrained segment becomes a hole
	OverworldChance int     `yaml:"overworld_chance"` // Percent chance of an overworld level when rolling the mode
	Scenery         bool    `yaml:"scenery"`          // Place clouds, mountains, bushes and fences
	Enemies         bool    `yaml:"enemies"`          // Place goomba spawns
}

// DefaultLevelConfig returns the stock configuration for a seed.
func DefaultLevelConfig(seed int64) *LevelConfig {
	return &LevelConfig{
		Seed:            seed,
		Mode:            Overworld,
		RollMode:        true,
		ScreenWidth:     1280,
		ScreenHeight:    792,
		WidthScreens:    11,
		PlatformPieces:  100,
		HoleChance:      10,
		OverworldChance: 84,
		Scenery:         true,
		Enemies:         true,
	}
}

// Validate checks the configuration and returns an error wrapping
// ErrInvalidConfig describing the first problem found.
func (c *LevelConfig) Validate() error {
	switch {
	case c.ScreenWidth <= 0 || c.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen size must be positive, got %.0fx%.0f", ErrInvalidConfig, c.ScreenWidth, c.ScreenHeight)
	case c.WidthScreens < 6:
		// The start zone covers two screens and the end zone three.
		return fmt.Errorf("%w: width_screens must be at least 6, got %d", ErrInvalidConfig, c.WidthScreens)
	case c.PlatformPieces < 1:
		return fmt.Errorf("%w: platform_pieces must be at least 1, got %d", ErrInvalidConfig, c.PlatformPieces)
	case c.HoleChance < 0 || c.HoleChance > 100:
		return fmt.Errorf("%w: hole_chance must be within 0-100, got %d", ErrInvalidConfig, c.HoleChance)
	case c.OverworldChance < 0 || c.OverworldChance > 100:
		return fmt.Errorf("%w: overworld_chance must be within 0-100, got %d", ErrInvalidConfig, c.OverworldChance)
	case c.Mode != Overworld && c.Mode != Underground:
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, c.Mode)
	}
	return nil
}

// Dimensions returns the geometry this configuration describes.
func (c *LevelConfig) Dimensions() Dimensions {
	return NewDimensions(c.ScreenWidth, c.ScreenHeight, c.WidthScreens, c.PlatformPieces)
}
