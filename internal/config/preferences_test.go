package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPreferencesMissing(t *testing.T) {
	prefs, err := LoadPreferences(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}

	cfg := DefaultConfig()
	prefs.Apply(cfg)
	if !cfg.Audio.MusicEnabled || cfg.Audio.Volume != 50 {
		t.Errorf("empty preferences changed audio: %+v", cfg.Audio)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "openscroller-prefs.yaml")

	prefs := &Preferences{PlayerName: "luigi"}
	prefs.SetMusic(false)
	prefs.SetVolume(150)
	prefs.SetKey("jump", "W")

	if err := SavePreferences(path, prefs); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadPreferences(path)
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}

	cfg := DefaultConfig()
	loaded.Apply(cfg)

	if cfg.Audio.MusicEnabled {
		t.Error("MusicEnabled = true, want false")
	}
	if !cfg.Audio.EffectsEnabled {
		t.Error("EffectsEnabled = false, want untouched true")
	}
	if cfg.Audio.Volume != 100 {
		t.Errorf("Volume = %d, want 100", cfg.Audio.Volume)
	}
	if cfg.Controls.Jump != "W" {
		t.Errorf("Controls.Jump = %q, want %q", cfg.Controls.Jump, "W")
	}
	if cfg.Controls.Left != "A" {
		t.Errorf("Controls.Left = %q, want untouched %q", cfg.Controls.Left, "A")
	}
	if loaded.PlayerName != "luigi" {
		t.Errorf("PlayerName = %q, want %q", loaded.PlayerName, "luigi")
	}
}

func TestPreferencesIgnoreUnknownAction(t *testing.T) {
	prefs := &Preferences{Keys: map[string]string{"dance": "X", "fire": ""}}
	cfg := DefaultConfig()
	prefs.Apply(cfg)

	if cfg.Controls.Fire != "Q" {
		t.Errorf("Controls.Fire = %q, want %q", cfg.Controls.Fire, "Q")
	}
}
