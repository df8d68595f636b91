package game

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/openscroller/internal/config"
	"github.com/lawnchairsociety/openscroller/internal/gamestate"
	"github.com/lawnchairsociety/openscroller/internal/physics"
	"github.com/lawnchairsociety/openscroller/internal/registry"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// scriptedInput replays held actions and one-frame presses.
type scriptedInput struct {
	held map[Action]bool
	just map[Action]bool
	keys map[ebiten.Key]bool
}

func newScriptedInput() *scriptedInput {
	return &scriptedInput{held: map[Action]bool{}, just: map[Action]bool{}, keys: map[ebiten.Key]bool{}}
}

func (s *scriptedInput) Pressed(a Action) bool            { return s.held[a] || s.just[a] }
func (s *scriptedInput) JustPressed(a Action) bool        { return s.just[a] }
func (s *scriptedInput) KeyJustPressed(k ebiten.Key) bool { return s.keys[k] }

type submission struct {
	name    string
	points  int
	outcome string
}

type memoryScores struct {
	high        int
	submissions []submission
}

func (m *memoryScores) HighScore() (int, error) { return m.high, nil }

func (m *memoryScores) SubmitScore(name string, points int, outcome string) (bool, error) {
	m.submissions = append(m.submissions, submission{name, points, outcome})
	if points > m.high {
		m.high = points
		return true, nil
	}
	return false, nil
}

type memoryLevels struct {
	saved []*worldgen.Level
}

func (m *memoryLevels) SaveLevel(level *worldgen.Level) (string, error) {
	m.saved = append(m.saved, level)
	return "level-id", nil
}

type harness struct {
	t      *testing.T
	g      *Game
	in     *scriptedInput
	scores *memoryScores
	levels *memoryLevels
}

func newHarness(t *testing.T, seed int64) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Level.StartInvulnerabilityMs = 0
	h := &harness{t: t, in: newScriptedInput(), scores: &memoryScores{high: 500}, levels: &memoryLevels{}}
	g, err := NewGame(Options{
		Config:     cfg,
		Scores:     h.scores,
		Levels:     h.levels,
		Input:      h.in,
		Seed:       seed,
		PlayerName: "tester",
	})
	require.NoError(t, err)
	h.g = g
	return h
}

// tick runs n frames, clearing one-frame presses after the first.
func (h *harness) tick(n int) {
	h.t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(h.t, h.g.scene.Update(frame))
		h.in.just = map[Action]bool{}
		h.in.keys = map[ebiten.Key]bool{}
	}
}

func (h *harness) start() *playScene {
	h.t.Helper()
	h.in.just[ActionJump] = true
	h.tick(1)
	p, ok := h.g.scene.(*playScene)
	require.True(h.t, ok, "scene = %T, want *playScene", h.g.scene)
	return p
}

func (h *harness) bodyOfKind(p *playScene, kind worldgen.EntityKind) *physics.Body {
	for _, b := range p.st.world.Bodies() {
		if b.Kind == kind && b.Layer != physics.LayerPlayer && !b.Disabled {
			return b
		}
	}
	h.t.Fatalf("no %s body", kind)
	return nil
}

// place adds an entity just right of the spawn, on the always-solid start
// ground, and returns its body.
func (h *harness) place(p *playScene, kind worldgen.EntityKind, dx, height, size float64) *physics.Body {
	d := p.st.dims
	e := worldgen.Entity{
		ID:   100000 + len(p.st.world.Bodies()),
		Kind: kind,
		Dir:  -1,
		Rect: worldgen.Rect{X: spawnX(d) + dx, Y: d.GroundY() - height - size, W: size, H: size},
	}
	p.st.addEntity(e, paletteFor(p.st.level.Mode))
	bodies := p.st.world.Bodies()
	return bodies[len(bodies)-1]
}

func TestGameStartsOnMenu(t *testing.T) {
	h := newHarness(t, 3)

	_, ok := h.g.scene.(*menuScene)
	assert.True(t, ok)
	assert.Equal(t, 500, h.g.highScore)
	w, height := h.g.Layout(640, 480)
	assert.Equal(t, 1280, w)
	assert.Equal(t, 792, height)
}

func TestStartRunGeneratesLevel(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()

	assert.Equal(t, int64(3), p.st.level.Seed)
	assert.Equal(t, int64(4), h.g.seed)
	require.Len(t, h.levels.saved, 1)
	assert.Equal(t, p.st.level, h.levels.saved[0])
	assert.Equal(t, 3, h.g.reg.GetInt(registry.KeyLevelSeed))
	assert.True(t, h.g.reg.GetBool(registry.KeyLevelStarted))
}

func TestPlayerLandsAndWalks(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	pl := p.st.player

	h.tick(90)
	require.True(t, pl.Touching.Down, "player should stand on the ground")
	assert.InDelta(t, p.st.dims.GroundY(), pl.Bottom(), 0.001)

	startX := pl.X
	h.in.held[ActionRight] = true
	h.tick(60)
	assert.Greater(t, pl.X, startX)
	assert.Greater(t, pl.VX, 0.0)

	h.in.held[ActionRight] = false
	h.tick(1)
	assert.Zero(t, pl.VX)
}

func TestPlayerJumps(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	pl := p.st.player
	h.tick(90)

	ground := pl.Y
	h.in.held[ActionJump] = true
	h.tick(10)
	h.in.held[ActionJump] = false
	assert.Less(t, pl.Y, ground)
}

func TestPlayerCannotLeaveStartBound(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	h.tick(90)

	h.in.held[ActionLeft] = true
	h.tick(240)
	assert.GreaterOrEqual(t, p.st.player.X, p.st.dims.ScreenWidth)
}

func TestCoinPickup(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	coin := h.place(p, worldgen.KindCoin, 120, 100, 30)
	pl := p.st.player

	pl.SetPosition(coin.CenterX()-pl.W/2, coin.Y)
	pl.VY = 0
	h.tick(1)

	assert.Equal(t, gamestate.PointsCoin, p.session.Score())
	assert.True(t, coin.Disabled)
	assert.Nil(t, p.st.store.SpriteOf(coin))
	assert.Len(t, p.popups, 1)
}

func TestFallEndsRun(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	pl := p.st.player

	pl.SetPosition(pl.X, p.st.dims.ScreenHeight)
	h.tick(1)
	require.True(t, p.dying)
	assert.True(t, p.session.GameOver())
	assert.Zero(t, pl.Mask)

	h.tick(int(deathDelay/frame) + 2)
	end, ok := h.g.scene.(*endScene)
	require.True(t, ok, "scene = %T, want *endScene", h.g.scene)
	assert.Equal(t, "GAME OVER", end.title)
	require.Len(t, h.scores.submissions, 1)
	assert.Equal(t, submission{"tester", 0, "lost"}, h.scores.submissions[0])
}

func TestStompKillsGoomba(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	goomba := h.place(p, worldgen.KindGoomba, 100, 0, 36)
	pl := p.st.player

	goomba.VX, goomba.Gravity = 0, false
	pl.SetPosition(goomba.CenterX()-pl.W/2, goomba.Y-pl.H-1)
	pl.VY = p.st.dims.VelocityY()
	h.tick(1)

	assert.Equal(t, gamestate.PointsStomp, p.session.Score())
	assert.True(t, goomba.Disabled)
	assert.Less(t, pl.VY, 0.0)
	assert.False(t, p.session.GameOver())
}

func TestGoombaSideHitEndsSmallRun(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	goomba := h.place(p, worldgen.KindGoomba, 100, 0, 36)
	pl := p.st.player

	goomba.VX, goomba.Gravity = 0, false
	pl.SetPosition(goomba.X-pl.W/2, goomba.Bottom()-pl.H)
	pl.VY = 0
	h.tick(1)

	assert.True(t, p.session.GameOver())
	assert.True(t, p.dying)
}

func TestFlagWinsRun(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	mast := h.bodyOfKind(p, worldgen.KindFlagMast)
	pl := p.st.player

	pl.SetPosition(mast.X-pl.W/2, p.st.dims.GroundY()-pl.H)
	pl.VY = 0
	h.tick(1)
	require.True(t, p.session.FlagRaised())
	assert.True(t, p.session.Blocked())
	assert.Equal(t, gamestate.PointsFlag, p.session.Score())

	h.tick(int((winDelay+2*time.Second)/frame) + 5)
	end, ok := h.g.scene.(*endScene)
	require.True(t, ok, "scene = %T, want *endScene", h.g.scene)
	assert.Equal(t, "YOU WON!", end.title)
	assert.True(t, end.beaten)
	assert.Equal(t, gamestate.PointsFlag, h.g.highScore)
	assert.Equal(t, "won", h.scores.submissions[0].outcome)

	flag := p.st.store.Sprite(p.st.flag)
	require.NotNil(t, flag)
	assert.InDelta(t, worldgen.FlagRaisedY(p.st.dims), flag.Rect.Y, 0.001)
}

func TestEndSceneRestarts(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	p.st.player.SetPosition(p.st.player.X, p.st.dims.ScreenHeight)
	h.tick(int(deathDelay/frame) + 3)
	require.IsType(t, &endScene{}, h.g.scene)

	h.in.just[ActionJump] = true
	h.tick(1)
	require.IsType(t, &endScene{}, h.g.scene, "input ignored right after the run")

	h.tick(int(endInputDelay / frame))
	next := h.start()
	assert.Equal(t, int64(4), next.st.level.Seed)
	assert.Zero(t, h.g.reg.GetInt(registry.KeyScore))
}

func TestPauseFreezesPlay(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	h.tick(90)

	h.in.just[ActionPause] = true
	h.tick(1)
	require.True(t, p.settingsOpen)
	assert.True(t, h.g.reg.GetBool(registry.KeySettingsMenuOpen))

	x := p.st.player.X
	left := p.session.Timer().TimeLeft()
	h.in.held[ActionRight] = true
	h.tick(120)
	assert.Equal(t, x, p.st.player.X)
	assert.Equal(t, left, p.session.Timer().TimeLeft())

	h.in.held[ActionRight] = false
	h.in.just[ActionPause] = true
	h.tick(1)
	assert.False(t, p.settingsOpen)
}

func TestSettingsPersist(t *testing.T) {
	h := newHarness(t, 3)
	h.g.prefsPath = t.TempDir() + "/prefs.yaml"

	h.in.keys[ebiten.KeyM] = true
	h.tick(1)
	h.in.keys[ebiten.KeyMinus] = true
	h.tick(1)

	assert.False(t, h.g.cfg.Audio.MusicEnabled)
	assert.Equal(t, 40, h.g.cfg.Audio.Volume)
	assert.False(t, h.g.reg.GetBool(registry.KeyMusicEnabled))
	assert.Equal(t, 40, h.g.reg.GetInt(registry.KeyVolume))

	saved, err := config.LoadPreferences(h.g.prefsPath)
	require.NoError(t, err)
	require.NotNil(t, saved.MusicEnabled)
	assert.False(t, *saved.MusicEnabled)
	require.NotNil(t, saved.Volume)
	assert.Equal(t, 40, *saved.Volume)
}

func TestPowerUpFromMysteryBlock(t *testing.T) {
	h := newHarness(t, 3)
	p := h.start()
	block := h.place(p, worldgen.KindMysteryBlock, 120, 110, p.st.dims.BlockSize())
	pl := p.st.player

	pl.SetPosition(block.CenterX()-pl.W/2, block.Bottom()+1)
	pl.VY = -p.st.dims.VelocityY()
	h.tick(1)

	require.True(t, p.session.Revealed(block.ID))
	var up *physics.Body
	for _, b := range p.st.world.Bodies() {
		if b.Layer == physics.LayerPowerUp {
			up = b
		}
	}
	require.NotNil(t, up)
	assert.True(t, up.Disabled, "power-up rises before it can be taken")

	h.tick(30)
	assert.False(t, up.Disabled)
	assert.InDelta(t, block.Y-up.H, up.Y, up.H)
}
