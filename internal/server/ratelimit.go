package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/openscroller/internal/config"
)

// Fallbacks for an unset RateLimitConfig.
const (
	defaultMaxAttempts       = 5
	defaultLockoutSeconds    = 30
	defaultMaxLockoutSeconds = 300
)

// LoginRateLimiter locks an address out after repeated failed logins. Each
// lockout of the same address doubles in length up to a cap.
type LoginRateLimiter struct {
	mu          sync.Mutex
	entries     map[string]*loginFailures
	maxAttempts int
	lockout     time.Duration
	maxLockout  time.Duration
	now         func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type loginFailures struct {
	failures    int
	lockouts    int
	lockedUntil time.Time
}

// NewLoginRateLimiter starts a limiter with a background sweep of stale
// entries. Call Stop to end the sweep.
func NewLoginRateLimiter(cfg config.RateLimitConfig) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		entries:     make(map[string]*loginFailures),
		maxAttempts: orDefault(cfg.MaxAttempts, defaultMaxAttempts),
		lockout:     time.Duration(orDefault(cfg.LockoutSeconds, defaultLockoutSeconds)) * time.Second,
		maxLockout:  time.Duration(orDefault(cfg.MaxLockoutSeconds, defaultMaxLockoutSeconds)) * time.Second,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
	go rl.sweepLoop(5 * time.Minute)
	return rl
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (rl *LoginRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (rl *LoginRateLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[ip]
	if !ok {
		return false, 0
	}
	if left := e.lockedUntil.Sub(rl.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// RecordFailure counts a failed login. When the failure reaches the limit
// the address is locked out; the returned duration is the lockout length.
// Failures while already locked only report the time left.
func (rl *LoginRateLimiter) RecordFailure(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[ip]
	if !ok {
		e = &loginFailures{}
		rl.entries[ip] = e
	}

	now := rl.now()
	if left := e.lockedUntil.Sub(now); left > 0 {
		return true, left
	}

	e.failures++
	if e.failures < rl.maxAttempts {
		return false, 0
	}

	e.lockouts++
	e.failures = 0
	d := rl.lockoutFor(e.lockouts)
	e.lockedUntil = now.Add(d)
	return true, d
}

// lockoutFor is the base lockout doubled once per earlier lockout, capped.
func (rl *LoginRateLimiter) lockoutFor(lockouts int) time.Duration {
	d := rl.lockout
	for i := 1; i < lockouts; i++ {
		if d >= rl.maxLockout/2 {
			return rl.maxLockout
		}
		d *= 2
	}
	return min(d, rl.maxLockout)
}

// RecordSuccess forgets every failure for ip.
func (rl *LoginRateLimiter) RecordSuccess(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.entries, ip)
}

// Attempts returns the failures counted towards the next lockout.
func (rl *LoginRateLimiter) Attempts(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if e, ok := rl.entries[ip]; ok {
		return e.failures
	}
	return 0
}

func (rl *LoginRateLimiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops addresses whose last lockout ended over ten minutes ago and
// that have no pending failures.
func (rl *LoginRateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, e := range rl.entries {
		if e.failures == 0 && e.lockedUntil.Before(cutoff) {
			delete(rl.entries, ip)
		}
	}
}
