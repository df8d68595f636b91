package gamestate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/lawnchairsociety/openscroller/internal/gametime"
	"github.com/lawnchairsociety/openscroller/internal/registry"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

func testDims() worldgen.Dimensions {
	return worldgen.NewDimensions(1280, 792, 11, 100)
}

func newTestSession() *Session {
	return NewSession(testDims(), gametime.NewLevelTimer(300, 100))
}

// =============================================================================
// Power-ups
// =============================================================================

func TestConsumeMushroom(t *testing.T) {
	s := newTestSession()

	if !s.ConsumeMushroom() {
		t.Error("ConsumeMushroom() on small player = false, want true")
	}
	if s.Power() != Grown {
		t.Errorf("Power() = %v, want %v", s.Power(), Grown)
	}
	if s.ConsumeMushroom() {
		t.Error("ConsumeMushroom() on grown player = true, want false")
	}
	if s.Power() != Grown {
		t.Errorf("Power() = %v, want %v", s.Power(), Grown)
	}
	if s.Score() != 2*PointsPowerUp {
		t.Errorf("Score() = %d, want %d", s.Score(), 2*PointsPowerUp)
	}
}

func TestConsumeFireFlower(t *testing.T) {
	tests := []struct {
		start   Power
		changed bool
	}{
		{Small, true},
		{Grown, true},
		{Fire, false},
	}

	for _, tt := range tests {
		t.Run(tt.start.String(), func(t *testing.T) {
			s := newTestSession()
			s.power = tt.start
			if got := s.ConsumeFireFlower(); got != tt.changed {
				t.Errorf("ConsumeFireFlower() = %v, want %v", got, tt.changed)
			}
			if s.Power() != Fire {
				t.Errorf("Power() = %v, want %v", s.Power(), Fire)
			}
		})
	}
}

func TestPowerUpIgnoredAfterGameOver(t *testing.T) {
	s := newTestSession()
	s.Damage()

	if s.ConsumeMushroom() || s.ConsumeFireFlower() {
		t.Error("power-up applied after game over")
	}
	if s.Score() != 0 {
		t.Errorf("Score() = %d, want 0", s.Score())
	}
}

// =============================================================================
// Blocks
// =============================================================================

func TestRewardFor(t *testing.T) {
	tests := []struct {
		roll int
		want Reward
	}{
		{0, RewardFireFlower},
		{89, RewardFireFlower},
		{90, RewardMushroom},
		{95, RewardMushroom},
		{96, RewardFireFlower},
		{100, RewardFireFlower},
	}

	for _, tt := range tests {
		if got := RewardFor(tt.roll); got != tt.want {
			t.Errorf("RewardFor(%d) = %v, want %v", tt.roll, got, tt.want)
		}
	}
}

func TestRevealMysteryOnce(t *testing.T) {
	s := newTestSession()

	if got := s.RevealMystery(7, false, 92); got != RewardNone {
		t.Errorf("RevealMystery without blocked up = %v, want none", got)
	}
	if s.Revealed(7) {
		t.Error("block revealed by a side hit")
	}
	if got := s.RevealMystery(7, true, 92); got != RewardMushroom {
		t.Errorf("RevealMystery() = %v, want %v", got, RewardMushroom)
	}
	if got := s.RevealMystery(7, true, 10); got != RewardNone {
		t.Errorf("second RevealMystery() = %v, want none", got)
	}
	if got := s.RevealMystery(8, true, 10); got != RewardFireFlower {
		t.Errorf("RevealMystery() on other block = %v, want %v", got, RewardFireFlower)
	}
}

func TestBumpBrick(t *testing.T) {
	tests := []struct {
		name      string
		power     Power
		blockedUp bool
		crouching bool
		immovable bool
		want      BrickResult
		points    int
	}{
		{"side hit", Small, false, false, false, BrickIgnored, 0},
		{"small bounces", Small, true, false, false, BrickBounced, 0},
		{"small immovable", Small, true, false, true, BrickSolid, 0},
		{"grown breaks", Grown, true, false, false, BrickBroken, PointsBrickBreak},
		{"fire breaks", Fire, true, false, false, BrickBroken, PointsBrickBreak},
		{"grown crouching", Grown, true, true, false, BrickSolid, 0},
		{"grown immovable", Grown, true, false, true, BrickSolid, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			s.power = tt.power
			if got := s.BumpBrick(tt.blockedUp, tt.crouching, tt.immovable); got != tt.want {
				t.Errorf("BumpBrick() = %v, want %v", got, tt.want)
			}
			if s.Score() != tt.points {
				t.Errorf("Score() = %d, want %d", s.Score(), tt.points)
			}
		})
	}
}

// =============================================================================
// Enemies and damage
// =============================================================================

func TestGoombaContact(t *testing.T) {
	tests := []struct {
		name         string
		power        Power
		invulnerable bool
		flag         bool
		stomp        bool
		attacking    bool
		want         ContactResult
		wantPower    Power
	}{
		{"stomp", Small, false, false, true, false, ContactKilled, Small},
		{"attack", Fire, false, false, false, true, ContactKilled, Fire},
		{"stomp while invulnerable", Small, true, false, true, false, ContactKilled, Small},
		{"touch while invulnerable", Grown, true, false, false, false, ContactIgnored, Grown},
		{"after flag", Small, false, true, false, false, ContactIgnored, Small},
		{"grown touched", Grown, false, false, false, false, ContactDamaged, Small},
		{"small touched", Small, false, false, false, false, ContactGameOver, Small},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			s.power = tt.power
			s.flagRaised = tt.flag
			if tt.invulnerable {
				s.invulnerable = time.Second
			}

			if got := s.GoombaContact(tt.stomp, tt.attacking); got != tt.want {
				t.Errorf("GoombaContact() = %v, want %v", got, tt.want)
			}
			if s.Power() != tt.wantPower {
				t.Errorf("Power() = %v, want %v", s.Power(), tt.wantPower)
			}
			if tt.want == ContactKilled && s.Score() != PointsStomp {
				t.Errorf("Score() = %d, want %d", s.Score(), PointsStomp)
			}
		})
	}
}

func TestFireballHit(t *testing.T) {
	s := newTestSession()
	s.Damage() // small player: game over
	if s.FireballHit() {
		t.Error("FireballHit() after game over = true, want false")
	}

	s = newTestSession()
	s.Start(time.Second)
	if !s.FireballHit() {
		t.Error("FireballHit() while invulnerable = false, want true")
	}
	if s.Score() != PointsStomp {
		t.Errorf("Score() = %d, want %d", s.Score(), PointsStomp)
	}

	s.RaiseFlag()
	if s.FireballHit() {
		t.Error("FireballHit() after flag = true, want false")
	}
}

func TestStompBounce(t *testing.T) {
	s := newTestSession()
	want := -(792 / 1.15) / 1.5
	if got := s.StompBounce(); math.Abs(got-want) > 1e-9 {
		t.Errorf("StompBounce() = %v, want %v", got, want)
	}
}

func TestDamageGrantsInvulnerability(t *testing.T) {
	s := newTestSession()
	s.power = Fire

	if got := s.Damage(); got != DamagePowerDown {
		t.Fatalf("Damage() = %v, want %v", got, DamagePowerDown)
	}
	if !s.Invulnerable() {
		t.Error("Invulnerable() = false after power down")
	}
	if got := s.Damage(); got != DamageIgnored {
		t.Errorf("Damage() while invulnerable = %v, want %v", got, DamageIgnored)
	}

	s.Update(DamageInvulnerability)
	if s.Invulnerable() {
		t.Error("Invulnerable() = true after it expired")
	}
	if got := s.Damage(); got != DamageGameOver {
		t.Errorf("Damage() on small player = %v, want %v", got, DamageGameOver)
	}
	if !s.GameOver() {
		t.Error("GameOver() = false")
	}
	if !s.Timer().Stopped() {
		t.Error("timer still running after game over")
	}
}

// =============================================================================
// Level end
// =============================================================================

func TestRaiseFlagOnce(t *testing.T) {
	s := newTestSession()

	if !s.RaiseFlag() {
		t.Fatal("RaiseFlag() = false")
	}
	if s.RaiseFlag() {
		t.Error("second RaiseFlag() = true")
	}
	if s.Score() != PointsFlag {
		t.Errorf("Score() = %d, want %d", s.Score(), PointsFlag)
	}
	if !s.Blocked() {
		t.Error("player not blocked after flag")
	}
	s.Update(5 * time.Second)
	if s.Timer().TimeLeft() != 300 {
		t.Errorf("TimeLeft() = %d after flag, want 300", s.Timer().TimeLeft())
	}
}

func TestCheckFall(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want bool
	}{
		{"on ground", 600, false},
		{"at edge", 782, false},
		{"below edge", 783, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			if got := s.CheckFall(tt.y); got != tt.want {
				t.Errorf("CheckFall(%v) = %v, want %v", tt.y, got, tt.want)
			}
		})
	}
}

func TestCheckFallOutOfTime(t *testing.T) {
	s := NewSession(testDims(), gametime.NewLevelTimer(2, 0))
	s.Update(2 * time.Second)

	if !s.CheckFall(100) {
		t.Fatal("CheckFall() = false after time ran out")
	}
	if !s.OutOfTime() {
		t.Error("OutOfTime() = false")
	}
	if s.Outcome() != "timeup" {
		t.Errorf("Outcome() = %q, want %q", s.Outcome(), "timeup")
	}
	if s.EndTitle() != "TIME UP" {
		t.Errorf("EndTitle() = %q, want %q", s.EndTitle(), "TIME UP")
	}
}

func TestWin(t *testing.T) {
	s := newTestSession()
	s.RaiseFlag()
	s.Win()

	if !s.Won() || !s.Finished() {
		t.Error("run not won")
	}
	if s.Outcome() != "won" {
		t.Errorf("Outcome() = %q, want %q", s.Outcome(), "won")
	}
	if s.EndTitle() != "YOU WON!" {
		t.Errorf("EndTitle() = %q, want %q", s.EndTitle(), "YOU WON!")
	}
	if s.CheckFall(10000) {
		t.Error("falling after the flag must not end the run")
	}
}

// =============================================================================
// Registry binding
// =============================================================================

func TestBindMirrorsState(t *testing.T) {
	reg := registry.New()
	s := newTestSession()
	s.Bind(reg)

	s.Start(4 * time.Second)
	s.CollectCoin()
	s.ConsumeMushroom()

	if got := reg.GetInt(registry.KeyScore); got != PointsCoin+PointsPowerUp {
		t.Errorf("registry score = %d, want %d", got, PointsCoin+PointsPowerUp)
	}
	if got := reg.GetInt(registry.KeyPlayerState); got != int(Grown) {
		t.Errorf("registry playerState = %d, want %d", got, Grown)
	}
	if !reg.GetBool(registry.KeyPlayerInvulnerable) {
		t.Error("registry playerInvulnerable = false after Start")
	}
	if !reg.GetBool(registry.KeyLevelStarted) {
		t.Error("registry levelStarted = false after Start")
	}
}

// =============================================================================
// Score settlement
// =============================================================================

type fakeStore struct {
	best      int
	submitted []int
	outcomes  []string
	err       error
}

func (f *fakeStore) HighScore() (int, error) { return f.best, f.err }

func (f *fakeStore) SubmitScore(name string, points int, outcome string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.submitted = append(f.submitted, points)
	f.outcomes = append(f.outcomes, outcome)
	beaten := points > f.best
	if beaten {
		f.best = points
	}
	return beaten, nil
}

func TestSettle(t *testing.T) {
	store := &fakeStore{best: 1000}
	s := newTestSession()

	if _, err := s.Settle(store, "mario"); err == nil {
		t.Error("Settle() on running session should fail")
	}

	s.AddPoints(4200)
	s.Damage()

	beaten, err := s.Settle(store, "mario")
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !beaten {
		t.Error("Settle() = false, want new high score")
	}
	if len(store.outcomes) != 1 || store.outcomes[0] != "lost" {
		t.Errorf("outcomes = %v, want [lost]", store.outcomes)
	}
}

func TestSettleStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	s := newTestSession()
	s.Damage()

	if _, err := s.Settle(store, "mario"); err == nil {
		t.Error("Settle() error = nil, want store error")
	}
}
