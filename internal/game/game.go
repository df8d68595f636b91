// Package game is the Ebitengine client: scenes, input, rendering, sound and
// the glue between the generated level, the physics world and the rules.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/gamestate"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/registry"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// Scene events carried on the bus.
const (
	eventSound = "sound"
	eventMusic = "music"
)

type scene interface {
	Update(dt time.Duration) error
	Draw(screen *ebiten.Image)
}

// LevelStore archives generated levels.
type LevelStore interface {
	SaveLevel(level *worldgen.Level) (string, error)
}

// Options configure a Game. Only Config is required.
type Options struct {
	Config      *config.GameConfig
	Preferences *config.Preferences
	PrefsPath   string // where settings changes are saved; empty disables saving
	Scores      gamestate.HighScoreStore
	Levels      LevelStore
	Sounds      *Sounds
	Input       Input // defaults to the keyboard with the configured bindings
	Seed        int64
	PlayerName  string
}

// Game implements ebiten.Game.
type Game struct {
	cfg        *config.GameConfig
	prefs      *config.Preferences
	prefsPath  string
	scores     gamestate.HighScoreStore
	levels     LevelStore
	sounds     *Sounds
	input      Input
	reg        *registry.Registry
	bus        *registry.Bus
	settings   *settingsMenu
	log        *slog.Logger
	seed       int64
	playerName string
	highScore  int

	scene scene
}

// NewGame wires a game and opens on the start menu.
func NewGame(opts Options) (*Game, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("game: config is required")
	}
	prefs := opts.Preferences
	if prefs == nil {
		prefs = &config.Preferences{}
	}
	prefs.Apply(opts.Config)

	input := opts.Input
	if input == nil {
		bindings, err := ParseBindings(opts.Config.Controls)
		if err != nil {
			return nil, fmt.Errorf("controls: %w", err)
		}
		input = &keyboard{bindings: bindings}
	}

	name := opts.PlayerName
	if name == "" {
		name = prefs.PlayerName
	}
	if name == "" {
		name = "player"
	}

	reg := registry.New()
	g := &Game{
		cfg:        opts.Config,
		prefs:      prefs,
		prefsPath:  opts.PrefsPath,
		scores:     opts.Scores,
		levels:     opts.Levels,
		sounds:     opts.Sounds,
		input:      input,
		reg:        reg,
		bus:        registry.NewBus(reg),
		log:        logger.With("game"),
		seed:       opts.Seed,
		playerName: name,
	}
	g.settings = &settingsMenu{g: g}
	g.subscribe()

	a := g.cfg.Audio
	g.sounds.SetMusic(a.MusicEnabled)
	g.sounds.SetEffects(a.EffectsEnabled)
	g.sounds.SetVolume(a.Volume)
	reg.Boot(map[string]any{
		registry.KeyScreenWidth:    float64(g.cfg.Screen.Width),
		registry.KeyScreenHeight:   float64(g.cfg.Screen.Height),
		registry.KeyMusicEnabled:   a.MusicEnabled,
		registry.KeyEffectsEnabled: a.EffectsEnabled,
		registry.KeyVolume:         a.Volume,
	})
	reg.Boot(registry.InitialState(g.cfg.Level.TimeLimit))

	if g.scores != nil {
		high, err := g.scores.HighScore()
		if err != nil {
			g.log.Warn("Failed to load high score", "error", err)
		}
		g.highScore = high
	}

	g.scene = &menuScene{g: g}
	reg.ProcessEvents()
	return g, nil
}

func (g *Game) subscribe() {
	g.bus.Watch(registry.KeyPlayerFiring, registry.KeyFireInCooldown,
		registry.KeyReachedLevelEnd, registry.KeySettingsMenuOpen)

	g.bus.On(eventSound, func(v any) {
		if e, ok := v.(Effect); ok {
			g.sounds.Play(e)
		}
	})
	g.bus.On(eventMusic, func(v any) {
		t, _ := v.(Track)
		if t == TrackNone {
			g.sounds.StopMusic()
			return
		}
		g.sounds.PlayMusic(t)
	})

	g.reg.OnChange(registry.KeyPlayerState, func(c registry.Change) {
		old, _ := c.Old.(int)
		now, _ := c.New.(int)
		switch {
		case now > old:
			g.sounds.Play(EffectPowerUp)
		case now < old:
			g.sounds.Play(EffectPowerDown)
		}
	})
	g.reg.OnChange(registry.KeyGameWon, func(c registry.Change) {
		if won, _ := c.New.(bool); won {
			g.log.Info("Castle reached", "score", g.reg.GetInt(registry.KeyScore))
		}
	})
}

// Registry exposes the shared state, mostly for tests and tooling.
func (g *Game) Registry() *registry.Registry { return g.reg }

// Update advances the current scene by one tick.
func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())
	return g.scene.Update(dt)
}

// Draw renders the current scene.
func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout keeps the logical resolution the level was generated for.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Screen.Width, g.cfg.Screen.Height
}

// startRun generates the next level and switches to it.
func (g *Game) startRun() error {
	seed := g.seed
	g.seed++

	level, err := worldgen.NewGenerator(g.cfg.NewLevelConfig(seed)).Generate()
	if err != nil {
		return fmt.Errorf("generate level %d: %w", seed, err)
	}
	if g.levels != nil {
		id, err := g.levels.SaveLevel(level)
		if err != nil {
			g.log.Warn("Failed to archive level", "seed", seed, "error", err)
		} else {
			g.log.Debug("Level archived", "id", id, "seed", seed)
		}
	}

	g.reg.Boot(registry.InitialState(g.cfg.Level.TimeLimit))
	g.reg.Boot(map[string]any{
		registry.KeyWorldWidth:       level.Dimensions.WorldWidth,
		registry.KeyIsLevelOverworld: level.Mode == worldgen.Overworld,
		registry.KeyLevelSeed:        seed,
	})
	g.scene = newPlayScene(g, level)
	return nil
}

// endRun records the result and shows the end screen.
func (g *Game) endRun(s *gamestate.Session) {
	beaten := s.Score() > g.highScore
	if g.scores != nil {
		b, err := s.Settle(g.scores, g.playerName)
		if err != nil {
			g.log.Error("Failed to record score", "error", err)
		} else {
			beaten = b
		}
	}
	if beaten {
		g.highScore = s.Score()
	}
	g.sounds.StopMusic()
	g.scene = &endScene{g: g, title: s.EndTitle(), score: s.Score(), beaten: beaten}
}
