package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/openscroller/internal/config"
)

func TestParseBindingsDefaults(t *testing.T) {
	b, err := ParseBindings(config.DefaultConfig().Controls)
	require.NoError(t, err)

	assert.Equal(t, ebiten.KeySpace, b[ActionJump])
	assert.Equal(t, ebiten.KeyS, b[ActionDown])
	assert.Equal(t, ebiten.KeyA, b[ActionLeft])
	assert.Equal(t, ebiten.KeyD, b[ActionRight])
	assert.Equal(t, ebiten.KeyQ, b[ActionFire])
	assert.Equal(t, ebiten.KeyEscape, b[ActionPause])
}

func TestParseBindingsFromPreferences(t *testing.T) {
	cfg := config.DefaultConfig()
	prefs := &config.Preferences{}
	prefs.SetKey("jump", "W")
	prefs.Apply(cfg)

	b, err := ParseBindings(cfg.Controls)
	require.NoError(t, err)
	assert.Equal(t, ebiten.KeyW, b[ActionJump])
}

func TestParseBindingsUnknownKey(t *testing.T) {
	c := config.DefaultConfig().Controls
	c.Fire = "NotAKey"

	_, err := ParseBindings(c)
	assert.ErrorContains(t, err, "fire")
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "jump", ActionJump.String())
	assert.Equal(t, "pause", ActionPause.String())
	assert.Equal(t, "unknown", Action(99).String())
}
