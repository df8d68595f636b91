package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 792 {
		t.Errorf("Screen = %dx%d, want 1280x792", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Level.TimeLimit != 300 {
		t.Errorf("TimeLimit = %d, want 300", cfg.Level.TimeLimit)
	}
	if cfg.Level.HurryAt != 100 {
		t.Errorf("HurryAt = %d, want 100", cfg.Level.HurryAt)
	}
	if cfg.Controls.Jump != "Space" {
		t.Errorf("Controls.Jump = %q, want %q", cfg.Controls.Jump, "Space")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, "sqlite")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/openscroller.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.World.PlatformPieces != 100 {
		t.Errorf("PlatformPieces = %d, want 100", cfg.World.PlatformPieces)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "openscroller.yaml")

	content := `
world:
  hole_chance: 25
level:
  time_limit: 200
server:
  telnet_addr: ":5000"
  websocket:
    allowed_origins:
      - "https://example.com"
database:
  driver: postgres
  postgres:
    host: db.internal
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.World.HoleChance != 25 {
		t.Errorf("HoleChance = %d, want 25", cfg.World.HoleChance)
	}
	if cfg.World.WidthScreens != 11 {
		t.Errorf("WidthScreens = %d, want default 11", cfg.World.WidthScreens)
	}
	if cfg.Level.TimeLimit != 200 {
		t.Errorf("TimeLimit = %d, want 200", cfg.Level.TimeLimit)
	}
	if cfg.Server.TelnetAddr != ":5000" {
		t.Errorf("TelnetAddr = %q, want %q", cfg.Server.TelnetAddr, ":5000")
	}
	if cfg.Server.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("MaxMessageSize = %d, want default 4096", cfg.Server.WebSocket.MaxMessageSize)
	}
	if len(cfg.Server.WebSocket.AllowedOrigins) != 1 {
		t.Errorf("AllowedOrigins = %v, want one entry", cfg.Server.WebSocket.AllowedOrigins)
	}
	if cfg.Database.Postgres.Host != "db.internal" {
		t.Errorf("Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "db.internal")
	}
	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want default 5432", cfg.Database.Postgres.Port)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "world: [unterminated"},
		{"hurry after limit", "level:\n  time_limit: 100\n  hurry_at: 150\n"},
		{"volume", "audio:\n  volume: 140\n"},
		{"hole chance", "world:\n  hole_chance: 101\n"},
		{"narrow world", "world:\n  width_screens: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "openscroller.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if cfg == nil || cfg.World.HoleChance != 10 {
				t.Error("expected defaults alongside the error")
			}
		})
	}
}

func TestValidateWrapsErrInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Screen.Width = 0

	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() = %v, want ErrInvalid", err)
	}
}

func TestNewLevelConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.World.HoleChance = 33
	cfg.Screen.Width = 1024

	lc := cfg.NewLevelConfig(77)

	if lc.Seed != 77 {
		t.Errorf("Seed = %d, want 77", lc.Seed)
	}
	if lc.HoleChance != 33 {
		t.Errorf("HoleChance = %d, want 33", lc.HoleChance)
	}
	if lc.ScreenWidth != 1024 {
		t.Errorf("ScreenWidth = %v, want 1024", lc.ScreenWidth)
	}
	if !lc.RollMode {
		t.Error("RollMode = false, want true")
	}
	if lc.Mode != worldgen.Overworld {
		t.Errorf("Mode = %v, want %v", lc.Mode, worldgen.Overworld)
	}
}
