package gametime

import (
	"sync"
	"testing"
	"time"
)

func TestNewLevelTimer(t *testing.T) {
	lt := NewLevelTimer(DefaultTimeLimit, DefaultHurryAt)
	if lt.TimeLeft() != 300 {
		t.Errorf("TimeLeft() = %d, want 300", lt.TimeLeft())
	}
	if lt.Expired() {
		t.Error("new timer reports expired")
	}
	if got := lt.Text(); got != "TIME\n300" {
		t.Errorf("Text() = %q, want %q", got, "TIME\n300")
	}
}

func TestAdvanceAccumulatesFrames(t *testing.T) {
	lt := NewLevelTimer(10, 0)
	frame := time.Second / 60

	ticks := 0
	for i := 0; i < 59; i++ {
		ticks += lt.Advance(frame)
	}
	if ticks != 0 || lt.TimeLeft() != 10 {
		t.Errorf("after 59 frames: ticks = %d, TimeLeft() = %d, want 0, 10", ticks, lt.TimeLeft())
	}

	ticks += lt.Advance(frame + time.Millisecond)
	if ticks != 1 || lt.TimeLeft() != 9 {
		t.Errorf("after 60 frames: ticks = %d, TimeLeft() = %d, want 1, 9", ticks, lt.TimeLeft())
	}
}

func TestAdvanceLargeStep(t *testing.T) {
	lt := NewLevelTimer(5, 0)

	if got := lt.Advance(3500 * time.Millisecond); got != 3 {
		t.Errorf("Advance(3.5s) = %d, want 3", got)
	}
	if got := lt.Advance(10 * time.Second); got != 2 {
		t.Errorf("Advance(10s) = %d, want 2", got)
	}
	if !lt.Expired() {
		t.Error("timer should be expired")
	}
	if got := lt.Advance(time.Second); got != 0 {
		t.Errorf("Advance after expiry = %d, want 0", got)
	}
}

func TestHurryFiresOnce(t *testing.T) {
	lt := NewLevelTimer(103, 100)
	calls := 0
	lt.OnHurry(func() { calls++ })

	for i := 0; i < 10; i++ {
		lt.Advance(time.Second)
	}

	if calls != 1 {
		t.Errorf("hurry callback calls = %d, want 1", calls)
	}
	if !lt.Hurried() {
		t.Error("Hurried() = false, want true")
	}
	if lt.TimeLeft() != 93 {
		t.Errorf("TimeLeft() = %d, want 93", lt.TimeLeft())
	}
}

func TestHurryNotReachedYet(t *testing.T) {
	lt := NewLevelTimer(300, 100)
	lt.OnHurry(func() { t.Error("hurry fired early") })

	lt.Advance(199 * time.Second)
	if lt.TimeLeft() != 101 {
		t.Errorf("TimeLeft() = %d, want 101", lt.TimeLeft())
	}
}

func TestStopAndBlock(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*LevelTimer)
		want  int
	}{
		{"running", func(*LevelTimer) {}, 48},
		{"stopped", func(lt *LevelTimer) { lt.Stop() }, 50},
		{"blocked", func(lt *LevelTimer) { lt.SetBlocked(true) }, 50},
		{"unblocked", func(lt *LevelTimer) { lt.SetBlocked(true); lt.SetBlocked(false) }, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt := NewLevelTimer(50, 0)
			tt.setup(lt)
			lt.Advance(2 * time.Second)
			if lt.TimeLeft() != tt.want {
				t.Errorf("TimeLeft() = %d, want %d", lt.TimeLeft(), tt.want)
			}
		})
	}
}

func TestBlockedTimeDoesNotCarry(t *testing.T) {
	lt := NewLevelTimer(50, 0)
	lt.Advance(900 * time.Millisecond)
	lt.SetBlocked(true)
	lt.Advance(5 * time.Second)
	lt.SetBlocked(false)

	if got := lt.Advance(50 * time.Millisecond); got != 0 {
		t.Errorf("Advance = %d, want 0", got)
	}
	if got := lt.Advance(50 * time.Millisecond); got != 1 {
		t.Errorf("Advance = %d, want 1", got)
	}
}

func TestDrain(t *testing.T) {
	lt := NewLevelTimer(7, 0)
	lt.Stop()

	if got := lt.Drain(5); got != 5 {
		t.Errorf("Drain(5) = %d, want 5", got)
	}
	if got := lt.Drain(5); got != 2 {
		t.Errorf("Drain(5) = %d, want 2", got)
	}
	if !lt.Expired() {
		t.Error("drained timer should be expired")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		left int
		want string
	}{
		{300, "TIME\n300"},
		{87, "TIME\n087"},
		{5, "TIME\n005"},
		{0, "TIME\n000"},
	}

	for _, tt := range tests {
		lt := &LevelTimer{timeLeft: tt.left}
		if got := lt.Text(); got != tt.want {
			t.Errorf("Text() with %d left = %q, want %q", tt.left, got, tt.want)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	lt := NewLevelTimer(1000, 500)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			lt.Advance(time.Second)
		}()
		go func() {
			defer wg.Done()
			_ = lt.Text()
		}()
	}
	wg.Wait()

	if lt.TimeLeft() != 990 {
		t.Errorf("TimeLeft() = %d, want 990", lt.TimeLeft())
	}
}
