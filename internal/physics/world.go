package physics

import (
	"math"
	"time"

	"github.com/solarlune/resolv"

	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

const (
	cellSize = 32

	// maxSubstep keeps fast bodies from tunnelling through thin solids.
	maxSubstep = time.Second / 120

	// contactSlop is how deep two rectangles must overlap before they block.
	contactSlop = 1e-6
)

var (
	tagSolid  = resolv.NewTag("solid")
	tagSensor = resolv.NewTag("sensor")
)

// CollideFunc is called when mover is blocked by other.
type CollideFunc func(mover, other *Body, side Sides)

// OverlapFunc is called once per step for every overlapping pair.
type OverlapFunc func(a, b *Body)

// World owns the resolv space and every body in it. The space extends one
// world height above and below the visible area, and shapes are stored
// shifted by (offX, offY) so bodies above the screen or falling through a
// hole stay inside it.
type World struct {
	space      *resolv.Space
	offX, offY float64
	gravity    float64
	minX       float64
	maxX       float64

	bodies  []*Body
	byShape map[resolv.IShape]*Body

	onCollide []CollideFunc
	onOverlap []OverlapFunc

	stepping bool
	removed  []*Body
}

// NewWorld creates a world width×height pixels with downward gravity.
func NewWorld(width, height, gravity float64) *World {
	offX := float64(cellSize * 4)
	return &World{
		space:   resolv.NewSpace(int(math.Ceil(width+offX*2)), int(math.Ceil(height*3)), cellSize, cellSize),
		offX:    offX,
		offY:    height,
		gravity: gravity,
		maxX:    width,
		byShape: make(map[resolv.IShape]*Body),
	}
}

// SetBounds limits bodies with CollideBounds to [minX, maxX].
func (w *World) SetBounds(minX, maxX float64) {
	w.minX, w.maxX = minX, maxX
}

// Bounds returns the horizontal limits.
func (w *World) Bounds() (float64, float64) { return w.minX, w.maxX }

// Add inserts bodies into the space.
func (w *World) Add(bodies ...*Body) {
	for _, b := range bodies {
		sh := resolv.NewRectangleFromTopLeft(b.X+w.offX, b.Y+w.offY, b.W, b.H)
		if b.Sensor {
			sh.Tags().Set(tagSensor)
		} else {
			sh.Tags().Set(tagSolid)
		}
		b.shape = sh
		b.world = w
		w.space.Add(sh)
		w.byShape[sh] = b
		w.bodies = append(w.bodies, b)
	}
}

// Remove takes a body out of the world. Removals requested from callbacks
// take effect when the step finishes.
func (w *World) Remove(b *Body) {
	if b.shape == nil {
		return
	}
	if w.stepping {
		b.Disabled = true
		w.removed = append(w.removed, b)
		return
	}
	w.space.Remove(b.shape)
	delete(w.byShape, b.shape)
	b.shape = nil
	b.world = nil
	for i, other := range w.bodies {
		if other == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*Body { return w.bodies }

// OnCollide registers a blocking callback.
func (w *World) OnCollide(fn CollideFunc) { w.onCollide = append(w.onCollide, fn) }

// OnOverlap registers an overlap callback.
func (w *World) OnOverlap(fn OverlapFunc) { w.onOverlap = append(w.onOverlap, fn) }

// Step advances the simulation by dt. Contact flags cover the whole step.
func (w *World) Step(dt time.Duration) {
	w.stepping = true
	for _, b := range w.bodies {
		b.Touching, b.Blocked = Sides{}, Sides{}
		b.PrevY = b.Y
	}
	for dt > 0 {
		step := min(dt, maxSubstep)
		w.step(step.Seconds())
		dt -= step
	}
	w.overlaps()
	w.stepping = false

	removed := w.removed
	w.removed = nil
	for _, b := range removed {
		w.Remove(b)
	}
}

func (w *World) step(dt float64) {
	for _, b := range w.bodies {
		if b.Immovable || b.Disabled {
			continue
		}
		if b.Gravity {
			b.VY += w.gravity * dt
		}
		if b.MaxVX > 0 {
			b.VX = clamp(b.VX, -b.MaxVX, b.MaxVX)
		}
		if b.MaxVY > 0 {
			b.VY = clamp(b.VY, -b.MaxVY, b.MaxVY)
		}

		if dx := b.VX * dt; dx != 0 {
			b.SetPosition(b.X+dx, b.Y)
			w.resolveX(b, dx)
		}
		if b.CollideBounds {
			w.clampBounds(b)
		}
		if dy := b.VY * dt; dy != 0 {
			b.SetPosition(b.X, b.Y+dy)
			w.resolveY(b, dy)
		}
	}
}

func (w *World) clampBounds(b *Body) {
	switch {
	case b.X < w.minX:
		b.SetPosition(w.minX, b.Y)
		b.Blocked.Left = true
		b.VX = 0
	case b.Right() > w.maxX:
		b.SetPosition(w.maxX-b.W, b.Y)
		b.Blocked.Right = true
		b.VX = 0
	}
}

// blockers returns the solids b currently intersects and is masked against.
func (w *World) blockers(b *Body) []*Body {
	var out []*Body
	b.shape.IntersectionTest(resolv.IntersectionTestSettings{
		TestAgainst: b.shape.SelectTouchingCells(1).FilterShapes().ByTags(tagSolid),
		OnIntersect: func(set resolv.IntersectionSet) bool {
			other := w.byShape[set.OtherShape]
			if other != nil && other != b && other.Solid() && b.Mask&other.Layer != 0 && penetrates(b.Rect, other.Rect) {
				out = append(out, other)
			}
			return true
		},
	})
	return out
}

func (w *World) resolveX(b *Body, dx float64) {
	for _, other := range w.blockers(b) {
		var side Sides
		if dx > 0 {
			b.SetPosition(other.X-b.W, b.Y)
			side.Right = true
		} else {
			b.SetPosition(other.Right(), b.Y)
			side.Left = true
		}
		b.Touching.Left = b.Touching.Left || side.Left
		b.Touching.Right = b.Touching.Right || side.Right
		if other.Immovable {
			b.Blocked.Left = b.Blocked.Left || side.Left
			b.Blocked.Right = b.Blocked.Right || side.Right
		}
		if b.BounceX > 0 {
			b.VX = -b.VX * b.BounceX
		} else {
			b.VX = 0
		}
		if !other.Immovable && other.BounceX > 0 {
			other.VX = -other.VX * other.BounceX
		}
		w.collided(b, other, side)
	}
}

func (w *World) resolveY(b *Body, dy float64) {
	for _, other := range w.blockers(b) {
		var side Sides
		if dy > 0 {
			b.SetPosition(b.X, other.Y-b.H)
			side.Down = true
			other.Touching.Up = true
		} else {
			b.SetPosition(b.X, other.Bottom())
			side.Up = true
			other.Touching.Down = true
		}
		b.Touching.Up = b.Touching.Up || side.Up
		b.Touching.Down = b.Touching.Down || side.Down
		if other.Immovable {
			b.Blocked.Up = b.Blocked.Up || side.Up
			b.Blocked.Down = b.Blocked.Down || side.Down
		}
		b.VY = 0
		w.collided(b, other, side)
	}
}

func (w *World) collided(mover, other *Body, side Sides) {
	for _, fn := range w.onCollide {
		fn(mover, other, side)
	}
}

func (w *World) overlaps() {
	for _, b := range w.bodies {
		if b.Detects == 0 || b.Disabled || b.shape == nil {
			continue
		}
		var hits []*Body
		b.shape.IntersectionTest(resolv.IntersectionTestSettings{
			TestAgainst: b.shape.SelectTouchingCells(1).FilterShapes(),
			OnIntersect: func(set resolv.IntersectionSet) bool {
				other := w.byShape[set.OtherShape]
				if other != nil && other != b && !other.Disabled && b.Detects&other.Layer != 0 && b.Rect.Overlaps(other.Rect) {
					hits = append(hits, other)
				}
				return true
			},
		})
		for _, other := range hits {
			for _, fn := range w.onOverlap {
				fn(b, other)
			}
		}
	}
}

// penetrates is Rect.Overlaps that ignores contact within contactSlop, so a
// body resting on a floor is not also blocked by it sideways.
func penetrates(a, b worldgen.Rect) bool {
	return a.X < b.Right()-contactSlop && b.X < a.Right()-contactSlop &&
		a.Y < b.Bottom()-contactSlop && b.Y < a.Bottom()-contactSlop
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
