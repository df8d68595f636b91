// Package physics is a small arcade physics world on top of a resolv space:
// axis-aligned bodies, gravity, blocking against solids and overlap
// callbacks for pickups, triggers and enemies.
package physics

import (
	"github.com/solarlune/resolv"

	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// Layer is a bitmask naming what a body is.
type Layer uint32

const (
	LayerPlayer Layer = 1 << iota
	LayerEnemy
	LayerGround
	LayerBlock
	LayerGuard
	LayerPowerUp
	LayerPickup
	LayerTrigger
	LayerFlag
	LayerProjectile
)

// Sides records contact on each side of a body during the last step.
type Sides struct {
	Up, Down, Left, Right bool
}

// Any reports whether any side is set.
func (s Sides) Any() bool { return s.Up || s.Down || s.Left || s.Right }

// Body is a rectangle in the world. Static bodies (Immovable) never move
// on their own; dynamic bodies integrate velocity and gravity.
type Body struct {
	worldgen.Rect

	ID        int
	Kind      worldgen.EntityKind
	Layer     Layer
	Mask      Layer // layers this body is blocked by
	Detects   Layer // layers reported through overlap callbacks
	Immovable bool
	Sensor    bool // never blocks anything

	VX, VY       float64
	MaxVX, MaxVY float64 // zero means unlimited
	Gravity      bool
	BounceX      float64 // fraction of VX kept (reversed) on a side hit

	// CollideBounds keeps the body inside the world's horizontal bounds.
	CollideBounds bool

	Disabled bool

	Touching Sides
	Blocked  Sides

	// PrevY is the top edge before the last step.
	PrevY float64

	Data any

	shape resolv.IShape
	world *World
}

// NewStatic returns an immovable solid body for a placed entity.
func NewStatic(e worldgen.Entity, layer Layer) *Body {
	return &Body{Rect: e.Rect, ID: e.ID, Kind: e.Kind, Layer: layer, Immovable: true}
}

// NewSensor returns an immovable body that only reports overlaps.
func NewSensor(e worldgen.Entity, layer Layer) *Body {
	return &Body{Rect: e.Rect, ID: e.ID, Kind: e.Kind, Layer: layer, Immovable: true, Sensor: true}
}

// Solid reports whether the body blocks others.
func (b *Body) Solid() bool { return !b.Sensor && !b.Disabled }

// SetPosition moves the body's top-left corner and its collision shape.
// resolv positions shapes by their centre.
func (b *Body) SetPosition(x, y float64) {
	b.X, b.Y = x, y
	if b.shape != nil {
		b.shape.SetPosition(x+b.world.offX+b.W/2, y+b.world.offY+b.H/2)
	}
}

// LandedOn reports whether b came down onto other from above during the
// last step, within tolerance pixels.
func (b *Body) LandedOn(other *Body, tolerance float64) bool {
	return b.VY >= 0 && b.PrevY+b.H <= other.Y+tolerance
}
