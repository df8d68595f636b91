// Package gametime counts down the time left in a level.
package gametime

import (
	"fmt"
	"sync"
	"time"
)

const (
	DefaultTimeLimit = 300
	DefaultHurryAt   = 100

	tick = time.Second
)

// LevelTimer is a countdown advanced by the game loop. It ticks once per
// accumulated second of unblocked play.
type LevelTimer struct {
	timeLeft int
	hurryAt  int
	elapsed  time.Duration
	stopped  bool
	blocked  bool
	hurried  bool
	onHurry  func()
	mu       sync.RWMutex
}

// NewLevelTimer creates a running timer.
func NewLevelTimer(limit, hurryAt int) *LevelTimer {
	return &LevelTimer{timeLeft: limit, hurryAt: hurryAt}
}

// OnHurry sets the callback fired once when the hurry threshold is reached.
// It runs on the goroutine calling Advance, outside the timer's lock.
func (lt *LevelTimer) OnHurry(fn func()) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.onHurry = fn
}

// Advance adds dt of play time and returns the number of seconds that ticked.
func (lt *LevelTimer) Advance(dt time.Duration) int {
	lt.mu.Lock()
	if lt.stopped || lt.blocked || lt.timeLeft <= 0 {
		lt.mu.Unlock()
		return 0
	}

	lt.elapsed += dt
	ticks := 0
	fireHurry := false
	for lt.elapsed >= tick && lt.timeLeft > 0 {
		lt.elapsed -= tick
		if lt.timeLeft == lt.hurryAt && !lt.hurried {
			lt.hurried = true
			fireHurry = lt.onHurry != nil
		}
		lt.timeLeft--
		ticks++
	}
	hurry := lt.onHurry
	lt.mu.Unlock()

	if fireHurry {
		hurry()
	}
	return ticks
}

// TimeLeft returns the remaining seconds.
func (lt *LevelTimer) TimeLeft() int {
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return lt.timeLeft
}

// Expired reports whether the countdown reached zero.
func (lt *LevelTimer) Expired() bool {
	return lt.TimeLeft() <= 0
}

// Hurried reports whether the hurry threshold has been passed.
func (lt *LevelTimer) Hurried() bool {
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return lt.hurried
}

// Stop freezes the timer for good, e.g. once the flag is raised.
func (lt *LevelTimer) Stop() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.stopped = true
}

// Stopped reports whether Stop was called.
func (lt *LevelTimer) Stopped() bool {
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return lt.stopped
}

// SetBlocked pauses or resumes counting while the player cannot move.
func (lt *LevelTimer) SetBlocked(blocked bool) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.blocked = blocked
}

// Drain removes up to n seconds and returns how many were removed. The end
// of level tally converts them into points.
func (lt *LevelTimer) Drain(n int) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	n = min(n, lt.timeLeft)
	lt.timeLeft -= n
	return n
}

// Text returns the HUD label, e.g. "TIME\n087".
func (lt *LevelTimer) Text() string {
	return fmt.Sprintf("TIME\n%03d", lt.TimeLeft())
}
