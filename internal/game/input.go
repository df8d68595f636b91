package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lawnchairsociety/openscroller/internal/config"
)

// Action is a rebindable control.
type Action int

const (
	ActionJump Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionFire
	ActionPause
)

var actionNames = []string{"jump", "down", "left", "right", "fire", "pause"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Input is what the scenes read each frame.
type Input interface {
	Pressed(a Action) bool
	JustPressed(a Action) bool
	// KeyJustPressed reports fixed menu keys that cannot be rebound.
	KeyJustPressed(k ebiten.Key) bool
}

// Bindings maps actions to keys.
type Bindings map[Action]ebiten.Key

// ParseBindings resolves the configured key names.
func ParseBindings(c config.ControlsConfig) (Bindings, error) {
	names := map[Action]string{
		ActionJump:  c.Jump,
		ActionDown:  c.Down,
		ActionLeft:  c.Left,
		ActionRight: c.Right,
		ActionFire:  c.Fire,
		ActionPause: c.Pause,
	}
	b := make(Bindings, len(names))
	for action, name := range names {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("key for %s: %w", action, err)
		}
		b[action] = key
	}
	return b, nil
}

// keyboard reads the real keyboard.
type keyboard struct {
	bindings Bindings
}

func (k *keyboard) Pressed(a Action) bool {
	key, ok := k.bindings[a]
	return ok && ebiten.IsKeyPressed(key)
}

func (k *keyboard) JustPressed(a Action) bool {
	key, ok := k.bindings[a]
	return ok && inpututil.IsKeyJustPressed(key)
}

func (k *keyboard) KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
