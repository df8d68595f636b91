package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Preferences are the settings a player changes from the pause menu. Unset
// fields leave the configuration untouched.
type Preferences struct {
	MusicEnabled   *bool             `yaml:"music_enabled,omitempty"`
	EffectsEnabled *bool             `yaml:"effects_enabled,omitempty"`
	Volume         *int              `yaml:"volume,omitempty"`
	Keys           map[string]string `yaml:"keys,omitempty"` // action -> key name
	PlayerName     string            `yaml:"player_name,omitempty"`
}

// PreferencesPath returns the preferences file next to the executable, or in
// the working directory when the executable cannot be located.
func PreferencesPath() string {
	const name = "openscroller-prefs.yaml"
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}

// LoadPreferences reads saved preferences. A missing file is not an error.
func LoadPreferences(path string) (*Preferences, error) {
	prefs := &Preferences{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, err
	}
	if err := yaml.Unmarshal(data, prefs); err != nil {
		return &Preferences{}, fmt.Errorf("parse preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences writes preferences atomically.
func SavePreferences(path string, prefs *Preferences) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create preferences dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return os.Rename(tmp, path)
}

// SetMusic records the music toggle.
func (p *Preferences) SetMusic(enabled bool) { p.MusicEnabled = &enabled }

// SetEffects records the sound effects toggle.
func (p *Preferences) SetEffects(enabled bool) { p.EffectsEnabled = &enabled }

// SetVolume records the volume, clamped to 0..100.
func (p *Preferences) SetVolume(volume int) {
	volume = max(0, min(100, volume))
	p.Volume = &volume
}

// SetKey rebinds an action.
func (p *Preferences) SetKey(action, key string) {
	if p.Keys == nil {
		p.Keys = make(map[string]string)
	}
	p.Keys[action] = key
}

// Apply overlays the preferences on a configuration. Unknown actions in Keys
// are ignored.
func (p *Preferences) Apply(c *GameConfig) {
	if p.MusicEnabled != nil {
		c.Audio.MusicEnabled = *p.MusicEnabled
	}
	if p.EffectsEnabled != nil {
		c.Audio.EffectsEnabled = *p.EffectsEnabled
	}
	if p.Volume != nil {
		c.Audio.Volume = max(0, min(100, *p.Volume))
	}
	for action, key := range p.Keys {
		if key == "" {
			continue
		}
		switch action {
		case "jump":
			c.Controls.Jump = key
		case "down":
			c.Controls.Down = key
		case "left":
			c.Controls.Left = key
		case "right":
			c.Controls.Right = key
		case "fire":
			c.Controls.Fire = key
		case "pause":
			c.Controls.Pause = key
		}
	}
}
