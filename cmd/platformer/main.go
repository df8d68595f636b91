package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/database"
	"github.com/lawnchairsociety/openscroller/internal/game"
	"github.com/lawnchairsociety/openscroller/internal/logger"
)

func main() {
	configFile := flag.String("config", "data/config.yaml", "Path to game config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	dbFile := flag.String("db", "data/openscroller.db", "Path to the local scores database")
	prefsFile := flag.String("prefs", config.PreferencesPath(), "Path to the saved settings file")
	seed := flag.Int64("seed", 0, "First level seed (default: random based on current time)")
	name := flag.String("name", "", "Player name for the score table")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load config, using defaults", "path", *configFile, "error", err)
		cfg = config.DefaultConfig()
	}

	prefs, err := config.LoadPreferences(*prefsFile)
	if err != nil {
		logger.Warning("Failed to load preferences, using defaults", "path", *prefsFile, "error", err)
		prefs = &config.Preferences{}
	}

	db, err := database.Open(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	levelSeed := *seed
	if levelSeed == 0 {
		levelSeed = time.Now().UnixNano()
		logger.Info("Level seed selected", "seed", levelSeed, "random", true)
	} else {
		logger.Info("Level seed selected", "seed", levelSeed, "random", false)
	}

	g, err := game.NewGame(game.Options{
		Config:      cfg,
		Preferences: prefs,
		PrefsPath:   *prefsFile,
		Scores:      db,
		Levels:      db,
		Sounds:      game.NewSounds(cfg.Audio.MusicEnabled, cfg.Audio.EffectsEnabled, cfg.Audio.Volume),
		Seed:        levelSeed,
		PlayerName:  *name,
	})
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	// The logical screen is 1.1 times the window height.
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height*10/11)
	ebiten.SetWindowTitle("OpenScroller")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}
