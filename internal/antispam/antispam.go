// Package antispam throttles how fast a single session may issue commands.
package antispam

import (
	"math"
	"sync"
	"time"
)

// Config holds command throttling settings. MaxCommands <= 0 disables the
// throttle.
type Config struct {
	MaxCommands   int `yaml:"max_commands"`   // Max commands allowed in the window
	WindowSeconds int `yaml:"window_seconds"` // Sliding window length
}

// DefaultConfig returns sensible defaults for command throttling
func DefaultConfig() Config {
	return Config{
		MaxCommands:   20,
		WindowSeconds: 10,
	}
}

// Window returns the window as a duration, defaulting to ten seconds.
func (c Config) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// Tracker tracks command activity for a single session
type Tracker struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	times   []time.Time // timestamps of accepted commands, oldest first
	blocked int         // commands refused since the last accepted one
	now     func() time.Time
}

// NewTracker creates a new tracker with the given config
func NewTracker(config Config) *Tracker {
	return &Tracker{
		max:    config.MaxCommands,
		window: config.Window(),
		now:    time.Now,
	}
}

// CheckResult contains the result of a throttle check
type CheckResult struct {
	Allowed     bool
	WaitSeconds int // How long to wait before trying again (if not allowed)
	Blocked     int // Refusals in a row, including this one
}

// Check records a command attempt and reports whether it may run.
func (t *Tracker) Check() CheckResult {
	if t.max <= 0 {
		return CheckResult{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.cleanup(now)

	if len(t.times) >= t.max {
		t.blocked++
		remaining := t.times[0].Add(t.window).Sub(now)
		return CheckResult{
			Allowed:     false,
			WaitSeconds: max(1, int(math.Ceil(remaining.Seconds()))),
			Blocked:     t.blocked,
		}
	}

	t.times = append(t.times, now)
	t.blocked = 0
	return CheckResult{Allowed: true}
}

// cleanup drops timestamps outside the window.
func (t *Tracker) cleanup(now time.Time) {
	cutoff := now.Add(-t.window)
	kept := t.times[:0]
	for _, ts := range t.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.times = kept
}

// Reset clears all tracking data
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.times = nil
	t.blocked = 0
}
