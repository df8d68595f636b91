package game

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tween struct {
	tw    *gween.Tween
	apply func(float64)
	done  func()
}

// Tweens runs value animations: block bounces, power-ups rising, the flag,
// score popups and fades.
type Tweens struct {
	active []*tween
}

// Add animates from→to over d, calling apply every frame and done once.
func (t *Tweens) Add(from, to float64, d time.Duration, fn ease.TweenFunc, apply func(float64), done func()) {
	t.active = append(t.active, &tween{
		tw:    gween.New(float32(from), float32(to), float32(d.Seconds()), fn),
		apply: apply,
		done:  done,
	})
}

// Bounce moves a value by offset and back, each leg taking half.
func (t *Tweens) Bounce(offset float64, half time.Duration, apply func(float64)) {
	t.Add(0, offset, half, ease.Linear, apply, func() {
		t.Add(offset, 0, half, ease.Linear, apply, nil)
	})
}

// Update advances every tween by dt. Tweens added by done callbacks start
// on the next update.
func (t *Tweens) Update(dt time.Duration) {
	running := t.active
	t.active = nil
	var keep []*tween
	for _, tw := range running {
		v, finished := tw.tw.Update(float32(dt.Seconds()))
		if tw.apply != nil {
			tw.apply(float64(v))
		}
		if !finished {
			keep = append(keep, tw)
			continue
		}
		if tw.done != nil {
			tw.done()
		}
	}
	t.active = append(keep, t.active...)
}

// Len returns the number of running tweens.
func (t *Tweens) Len() int { return len(t.active) }

type delayed struct {
	left time.Duration
	fn   func()
}

// Timers runs callbacks after a delay of game time.
type Timers struct {
	pending []*delayed
}

// After schedules fn.
func (t *Timers) After(d time.Duration, fn func()) {
	t.pending = append(t.pending, &delayed{left: d, fn: fn})
}

// Update fires every callback whose delay elapsed.
func (t *Timers) Update(dt time.Duration) {
	running := t.pending
	t.pending = nil
	var keep []*delayed
	var due []func()
	for _, d := range running {
		d.left -= dt
		if d.left <= 0 {
			due = append(due, d.fn)
			continue
		}
		keep = append(keep, d)
	}
	t.pending = append(keep, t.pending...)
	for _, fn := range due {
		fn()
	}
}

// Len returns the number of pending callbacks.
func (t *Timers) Len() int { return len(t.pending) }
