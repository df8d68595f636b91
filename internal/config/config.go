// Package config loads the game and server configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// ErrInvalid is wrapped by GameConfig.Validate failures.
var ErrInvalid = errors.New("invalid config")

// GameConfig is the top-level configuration file.
type GameConfig struct {
	Screen   ScreenConfig    `yaml:"screen"`
	World    WorldConfig     `yaml:"world"`
	Level    LevelConfig     `yaml:"level"`
	Controls ControlsConfig  `yaml:"controls"`
	Audio    AudioConfig     `yaml:"audio"`
	Server   ServerConfig    `yaml:"server"`
	Database database.Config `yaml:"database"`
}

// ScreenConfig is the logical resolution the level is laid out for.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WorldConfig holds the generator knobs.
type WorldConfig struct {
	WidthScreens    int `yaml:"width_screens"`
	PlatformPieces  int `yaml:"platform_pieces"`
	HoleChance      int `yaml:"hole_chance"`      // percent
	OverworldChance int `yaml:"overworld_chance"` // percent
}

// LevelConfig holds per-run rules.
type LevelConfig struct {
	// TimeLimit is the countdown in seconds.
	TimeLimit int `yaml:"time_limit"`

	// HurryAt is the remaining time at which the music speeds up.
	HurryAt int `yaml:"hurry_at"`

	// StartInvulnerabilityMs protects the player after spawning.
	StartInvulnerabilityMs int `yaml:"start_invulnerability_ms"`
}

// ControlsConfig maps actions to key names as ebiten spells them.
type ControlsConfig struct {
	Jump  string `yaml:"jump"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Fire  string `yaml:"fire"`
	Pause string `yaml:"pause"`
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	MusicEnabled   bool `yaml:"music_enabled"`
	EffectsEnabled bool `yaml:"effects_enabled"`
	Volume         int  `yaml:"volume"` // 0..100
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Screen: ScreenConfig{
			Width:  1280,
			Height: 792, // 720 window × 1.1
		},
		World: WorldConfig{
			WidthScreens:    11,
			PlatformPieces:  100,
			HoleChance:      10,
			OverworldChance: 84,
		},
		Level: LevelConfig{
			TimeLimit:              300,
			HurryAt:                100,
			StartInvulnerabilityMs: 4000,
		},
		Controls: ControlsConfig{
			Jump:  "Space",
			Down:  "S",
			Left:  "A",
			Right: "D",
			Fire:  "Q",
			Pause: "Escape",
		},
		Audio: AudioConfig{
			MusicEnabled:   true,
			EffectsEnabled: true,
			Volume:         50,
		},
		Server:   *DefaultServerConfig(),
		Database: database.DefaultConfig("data/openscroller.db"),
	}
}

// LoadConfig loads configuration from a YAML file over the defaults.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*GameConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks the values the game cannot run without.
func (c *GameConfig) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen must be positive, got %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	}
	if c.Level.TimeLimit <= 0 {
		return fmt.Errorf("%w: time_limit must be positive", ErrInvalid)
	}
	if c.Level.HurryAt < 0 || c.Level.HurryAt >= c.Level.TimeLimit {
		return fmt.Errorf("%w: hurry_at must be below time_limit", ErrInvalid)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("%w: volume must be within 0-100, got %d", ErrInvalid, c.Audio.Volume)
	}
	if err := c.NewLevelConfig(0).Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// NewLevelConfig builds the generator configuration for a seed. The mode is
// rolled unless the caller overrides it.
func (c *GameConfig) NewLevelConfig(seed int64) *worldgen.LevelConfig {
	lc := worldgen.DefaultLevelConfig(seed)
	lc.ScreenWidth = float64(c.Screen.Width)
	lc.ScreenHeight = float64(c.Screen.Height)
	lc.WidthScreens = c.World.WidthScreens
	lc.PlatformPieces = c.World.PlatformPieces
	lc.HoleChance = c.World.HoleChance
	lc.OverworldChance = c.World.OverworldChance
	return lc
}
