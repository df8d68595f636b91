package game

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/gamestate"
	"github.com/lawnchairsociety/openscroller/internal/registry"
)

const volumeStep = 10

// settingsMenu toggles audio from the start screen and the pause overlay.
// Every change is saved to the preferences file.
type settingsMenu struct {
	g *Game
}

// Update applies the fixed settings keys. It reports whether anything changed.
func (m *settingsMenu) Update(in Input) bool {
	a := &m.g.cfg.Audio
	switch {
	case in.KeyJustPressed(ebiten.KeyM):
		m.setMusic(!a.MusicEnabled)
	case in.KeyJustPressed(ebiten.KeyE):
		m.setEffects(!a.EffectsEnabled)
	case in.KeyJustPressed(ebiten.KeyMinus):
		m.setVolume(a.Volume - volumeStep)
	case in.KeyJustPressed(ebiten.KeyEqual):
		m.setVolume(a.Volume + volumeStep)
	default:
		return false
	}
	m.save()
	return true
}

func (m *settingsMenu) setMusic(on bool) {
	m.g.cfg.Audio.MusicEnabled = on
	m.g.prefs.SetMusic(on)
	m.g.sounds.SetMusic(on)
	m.g.reg.Set(registry.KeyMusicEnabled, on)
}

func (m *settingsMenu) setEffects(on bool) {
	m.g.cfg.Audio.EffectsEnabled = on
	m.g.prefs.SetEffects(on)
	m.g.sounds.SetEffects(on)
	m.g.reg.Set(registry.KeyEffectsEnabled, on)
}

func (m *settingsMenu) setVolume(v int) {
	m.g.prefs.SetVolume(v)
	v = *m.g.prefs.Volume
	m.g.cfg.Audio.Volume = v
	m.g.sounds.SetVolume(v)
	m.g.reg.Set(registry.KeyVolume, v)
}

func (m *settingsMenu) save() {
	if m.g.prefsPath == "" {
		return
	}
	if err := config.SavePreferences(m.g.prefsPath, m.g.prefs); err != nil {
		m.g.log.Warn("Failed to save preferences", "path", m.g.prefsPath, "error", err)
	}
}

// Lines is the menu text.
func (m *settingsMenu) Lines() []string {
	r := m.g.reg
	return []string{
		"SETTINGS",
		fmt.Sprintf("MUSIC:   %s   [M]", onOff(r.GetBool(registry.KeyMusicEnabled))),
		fmt.Sprintf("EFFECTS: %s   [E]", onOff(r.GetBool(registry.KeyEffectsEnabled))),
		fmt.Sprintf("VOLUME:  %3d  [-/+]", r.GetInt(registry.KeyVolume)),
	}
}

func onOff(b bool) string {
	if b {
		return "ON "
	}
	return "OFF"
}

// menuScene is the start screen.
type menuScene struct {
	g *Game
}

func (s *menuScene) Update(time.Duration) error {
	in := s.g.input
	s.g.settings.Update(in)
	s.g.reg.ProcessEvents()
	if in.JustPressed(ActionJump) {
		return s.g.startRun()
	}
	return nil
}

func (s *menuScene) title() []string {
	lines := []string{
		"OPENSCROLLER",
		"",
		fmt.Sprintf("PRESS %s TO START", s.g.cfg.Controls.Jump),
		"",
		gamestate.HighScoreText(s.g.highScore, false),
		"",
	}
	return append(lines, s.g.settings.Lines()...)
}

// endScene shows the result of a run and offers another one.
type endScene struct {
	g       *Game
	title   string
	score   int
	beaten  bool
	elapsed time.Duration
}

// endInputDelay ignores the jump key still held from the last run.
const endInputDelay = time.Second

func (s *endScene) Update(dt time.Duration) error {
	s.elapsed += dt
	s.g.reg.ProcessEvents()
	if s.elapsed >= endInputDelay && s.g.input.JustPressed(ActionJump) {
		return s.g.startRun()
	}
	return nil
}

func (s *endScene) lines() []string {
	return []string{
		s.title,
		"",
		gamestate.ScoreText(s.score),
		"",
		gamestate.HighScoreText(s.g.highScore, s.beaten),
		"",
		fmt.Sprintf("PRESS %s TO PLAY AGAIN", s.g.cfg.Controls.Jump),
	}
}
