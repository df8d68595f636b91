package gamestate

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/openscroller/internal/gametime"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/registry"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// DamageInvulnerability is how long the player blinks after losing a power-up.
const DamageInvulnerability = 2 * time.Second

// BrickResult is the outcome of hitting a brick from below.
type BrickResult int

const (
	BrickIgnored BrickResult = iota
	BrickBounced
	BrickBroken
	BrickSolid
)

// ContactResult is the outcome of touching a goomba.
type ContactResult int

const (
	ContactIgnored ContactResult = iota
	ContactKilled
	ContactDamaged
	ContactGameOver
)

// DamageResult is the outcome of Damage.
type DamageResult int

const (
	DamageIgnored DamageResult = iota
	DamagePowerDown
	DamageGameOver
)

// Session is the state of one run. Methods are safe for concurrent use.
type Session struct {
	dims  worldgen.Dimensions
	timer *gametime.LevelTimer

	mu           sync.Mutex
	power        Power
	score        int
	invulnerable time.Duration
	blocked      bool
	flagRaised   bool
	gameOver     bool
	won          bool
	revealed     map[int]bool
	levelStarted bool
	furthestX    float64
	reg          *registry.Registry
}

// NewSession starts a run on a level with the given countdown.
func NewSession(dims worldgen.Dimensions, timer *gametime.LevelTimer) *Session {
	return &Session{
		dims:     dims,
		timer:    timer,
		revealed: make(map[int]bool),
	}
}

// Bind mirrors every state change into reg.
func (s *Session) Bind(reg *registry.Registry) {
	s.mu.Lock()
	s.reg = reg
	s.mu.Unlock()
	s.sync()
}

func (s *Session) sync() {
	s.mu.Lock()
	reg := s.reg
	values := map[string]any{
		registry.KeyPlayerState:        int(s.power),
		registry.KeyScore:              s.score,
		registry.KeyPlayerInvulnerable: s.invulnerable > 0,
		registry.KeyPlayerBlocked:      s.blocked,
		registry.KeyFlagRaised:         s.flagRaised,
		registry.KeyGameOver:           s.gameOver,
		registry.KeyGameWon:            s.won,
		registry.KeyLevelStarted:       s.levelStarted,
		registry.KeyFurthestPlayerPos:  s.furthestX,
		registry.KeyTimeLeft:           s.timer.TimeLeft(),
	}
	s.mu.Unlock()

	if reg == nil {
		return
	}
	for k, v := range values {
		reg.Set(k, v)
	}
}

// Timer returns the level countdown.
func (s *Session) Timer() *gametime.LevelTimer { return s.timer }

func (s *Session) Power() Power {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.power
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

func (s *Session) Invulnerable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invulnerable > 0
}

func (s *Session) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

func (s *Session) FlagRaised() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flagRaised
}

func (s *Session) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOver
}

func (s *Session) Won() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.won
}

// Finished reports whether the run ended either way.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOver || s.won
}

// Start marks the level as started and grants spawn invulnerability.
func (s *Session) Start(invulnerability time.Duration) {
	s.mu.Lock()
	s.levelStarted = true
	s.invulnerable = invulnerability
	s.mu.Unlock()
	s.sync()
}

// Started reports whether Start was called.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levelStarted
}

// Update advances timers by dt of frame time.
func (s *Session) Update(dt time.Duration) {
	s.mu.Lock()
	if s.invulnerable > 0 {
		s.invulnerable = max(0, s.invulnerable-dt)
	}
	blocked := s.blocked
	s.mu.Unlock()

	s.timer.SetBlocked(blocked)
	s.timer.Advance(dt)
	s.sync()
}

// SetBlocked freezes player input, e.g. during power-up animations.
func (s *Session) SetBlocked(blocked bool) {
	s.mu.Lock()
	s.blocked = blocked
	s.mu.Unlock()
	s.timer.SetBlocked(blocked)
	s.sync()
}

// TrackX records the furthest x the player reached.
func (s *Session) TrackX(x float64) {
	s.mu.Lock()
	s.furthestX = max(s.furthestX, x)
	s.mu.Unlock()
}

// FurthestX returns the furthest x the player reached.
func (s *Session) FurthestX() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.furthestX
}

func (s *Session) addPoints(n int) {
	s.score += n
}

// AddPoints adds n to the score.
func (s *Session) AddPoints(n int) {
	s.mu.Lock()
	s.addPoints(n)
	s.mu.Unlock()
	s.sync()
}

// CollectCoin scores a ground coin.
func (s *Session) CollectCoin() int {
	s.AddPoints(PointsCoin)
	return PointsCoin
}

// ConsumeMushroom scores a mushroom and grows a small player. It reports
// whether the power changed.
func (s *Session) ConsumeMushroom() bool {
	s.mu.Lock()
	if s.gameOver || s.won {
		s.mu.Unlock()
		return false
	}
	s.addPoints(PointsPowerUp)
	grew := s.power == Small
	if grew {
		s.power = Grown
	}
	s.mu.Unlock()
	s.sync()
	return grew
}

// ConsumeFireFlower scores a fire flower and upgrades the player to Fire.
// It reports whether the power changed.
func (s *Session) ConsumeFireFlower() bool {
	s.mu.Lock()
	if s.gameOver || s.won {
		s.mu.Unlock()
		return false
	}
	s.addPoints(PointsPowerUp)
	changed := s.power < Fire
	if changed {
		s.power = Fire
	}
	s.mu.Unlock()
	s.sync()
	return changed
}

// RevealMystery opens a mystery block hit from below. Each block releases
// one reward; later hits only bump.
func (s *Session) RevealMystery(blockID int, blockedUp bool, roll int) Reward {
	if !blockedUp {
		return RewardNone
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed[blockID] {
		return RewardNone
	}
	s.revealed[blockID] = true
	return RewardFor(roll)
}

// Revealed reports whether a mystery block has been emptied.
func (s *Session) Revealed(blockID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed[blockID]
}

// BumpBrick resolves hitting a brick from below. A small player bounces a
// movable brick; a powered player breaks it unless crouching.
func (s *Session) BumpBrick(blockedUp, crouching, immovable bool) BrickResult {
	if !blockedUp {
		return BrickIgnored
	}
	if immovable {
		return BrickSolid
	}

	s.mu.Lock()
	power := s.power
	if power > Small && !crouching {
		s.addPoints(PointsBrickBreak)
		s.mu.Unlock()
		s.sync()
		return BrickBroken
	}
	s.mu.Unlock()

	if power == Small {
		return BrickBounced
	}
	return BrickSolid
}

// GoombaContact resolves the player touching a goomba. stomp means the
// player landed on its head.
func (s *Session) GoombaContact(stomp, attacking bool) ContactResult {
	s.mu.Lock()
	if s.flagRaised || s.gameOver {
		s.mu.Unlock()
		return ContactIgnored
	}
	if s.invulnerable > 0 && !stomp {
		s.mu.Unlock()
		return ContactIgnored
	}
	if stomp || attacking {
		s.addPoints(PointsStomp)
		s.mu.Unlock()
		s.sync()
		return ContactKilled
	}
	s.mu.Unlock()

	if s.Damage() == DamageGameOver {
		return ContactGameOver
	}
	return ContactDamaged
}

// FireballHit scores a goomba killed by a fireball. Hits after the flag was
// raised or the run ended do not count.
func (s *Session) FireballHit() bool {
	s.mu.Lock()
	if s.flagRaised || s.gameOver || s.won {
		s.mu.Unlock()
		return false
	}
	s.addPoints(PointsStomp)
	s.mu.Unlock()
	s.sync()
	return true
}

// StompBounce is the vertical velocity given to the player after a stomp.
func (s *Session) StompBounce() float64 {
	return -s.dims.VelocityY() / 1.5
}

// Damage takes a hit: a powered player drops to Small and blinks, a small
// player loses the run.
func (s *Session) Damage() DamageResult {
	s.mu.Lock()
	if s.gameOver || s.won || s.invulnerable > 0 {
		s.mu.Unlock()
		return DamageIgnored
	}
	if s.power > Small {
		s.power = Small
		s.invulnerable = DamageInvulnerability
		s.mu.Unlock()
		s.sync()
		return DamagePowerDown
	}
	s.mu.Unlock()

	s.endGame()
	return DamageGameOver
}

func (s *Session) endGame() {
	s.mu.Lock()
	if s.gameOver {
		s.mu.Unlock()
		return
	}
	s.gameOver = true
	score := s.score
	s.mu.Unlock()

	s.timer.Stop()
	s.sync()
	logger.Info("Run lost", "score", score, "time_left", s.timer.TimeLeft())
}

// RaiseFlag ends the level on the flag mast. Only the first call counts.
func (s *Session) RaiseFlag() bool {
	s.mu.Lock()
	if s.flagRaised || s.gameOver {
		s.mu.Unlock()
		return false
	}
	s.flagRaised = true
	s.blocked = true
	s.addPoints(PointsFlag)
	s.mu.Unlock()

	s.timer.Stop()
	s.sync()
	return true
}

// Win marks the run as won once the player walked into the castle.
func (s *Session) Win() {
	s.mu.Lock()
	if s.gameOver || s.won {
		s.mu.Unlock()
		return
	}
	s.won = true
	score := s.score
	s.mu.Unlock()
	s.sync()
	logger.Info("Run won", "score", score, "time_left", s.timer.TimeLeft())
}

// CheckFall ends the run when the player dropped below the screen or the
// time ran out. It reports whether the run is over.
func (s *Session) CheckFall(y float64) bool {
	if s.FlagRaised() {
		return s.GameOver()
	}
	if y > s.dims.ScreenHeight-10 || s.timer.Expired() {
		s.endGame()
	}
	return s.GameOver()
}

// OutOfTime reports whether the run ended because the countdown hit zero.
func (s *Session) OutOfTime() bool {
	return s.GameOver() && s.timer.Expired()
}

// Outcome names how the run ended, for score storage.
func (s *Session) Outcome() string {
	switch {
	case s.Won():
		return "won"
	case s.OutOfTime():
		return "timeup"
	default:
		return "lost"
	}
}
