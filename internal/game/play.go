package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/lawnchairsociety/openscroller/internal/gamestate"
	"github.com/lawnchairsociety/openscroller/internal/gametime"
	"github.com/lawnchairsociety/openscroller/internal/logger"
	"github.com/lawnchairsociety/openscroller/internal/physics"
	"github.com/lawnchairsociety/openscroller/internal/registry"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

const (
	fireCooldown     = 350 * time.Millisecond
	fireballLifetime = 2 * time.Second
	deathDelay       = 3 * time.Second
	winDelay         = 5 * time.Second
	powerUpFreeze    = time.Second
	cameraLerp       = 0.15
	stompTolerance   = 8
)

// popup is a floating score label.
type popup struct {
	text  string
	x, y  float64
	alpha float64
}

type fireball struct {
	body *physics.Body
	left time.Duration
}

// playScene runs one level.
type playScene struct {
	g       *Game
	st      *stage
	session *gamestate.Session
	camera  gamestate.CameraRule
	control gamestate.SmoothedControl
	tweens  Tweens
	timers  Timers
	rolls   worldgen.Source
	log     *slog.Logger

	viewX     float64
	fade      float64
	facing    float64
	crouching bool
	cooldown  time.Duration
	fireballs []*fireball
	popups    []*popup

	settingsOpen bool
	walking      bool
	dying        bool
	ended        bool
}

func newPlayScene(g *Game, level *worldgen.Level) *playScene {
	st := loadStage(level)
	d := st.dims
	timer := gametime.NewLevelTimer(g.cfg.Level.TimeLimit, g.cfg.Level.HurryAt)
	p := &playScene{
		g:       g,
		st:      st,
		session: gamestate.NewSession(d, timer),
		camera:  gamestate.CameraRule{Overworld: level.Mode == worldgen.Overworld, Dims: d},
		rolls:   worldgen.NewSource(level.Seed ^ 0x5eed),
		log:     logger.With("play"),
		viewX:   d.ScreenWidth,
		facing:  1,
	}
	p.session.Bind(g.reg)
	timer.OnHurry(func() {
		g.bus.Emit(eventSound, EffectTimeWarning)
		g.bus.Emit(eventMusic, TrackHurry)
	})
	st.world.OnCollide(p.onCollide)
	st.world.OnOverlap(p.onOverlap)

	p.session.Start(time.Duration(g.cfg.Level.StartInvulnerabilityMs) * time.Millisecond)
	if level.Mode == worldgen.Underground {
		g.bus.Emit(eventMusic, TrackUnderground)
	} else {
		g.bus.Emit(eventMusic, TrackOverworld)
	}
	p.log.Info("Level started", "seed", level.Seed, "mode", level.Mode, "goombas", len(level.Spawns))
	return p
}

func (p *playScene) Update(dt time.Duration) error {
	in := p.g.input
	if in.JustPressed(ActionPause) && !p.session.Finished() && !p.dying {
		p.settingsOpen = !p.settingsOpen
		p.g.bus.Emit(registry.KeySettingsMenuOpen, p.settingsOpen)
		p.g.bus.Emit(eventSound, EffectPause)
	}
	if p.settingsOpen {
		p.g.settings.Update(in)
		p.g.reg.ProcessEvents()
		return nil
	}

	p.updatePlayer(dt)
	p.st.world.Step(dt)
	p.updateFireballs(dt)
	p.clearStuckEnemies()

	p.session.Update(dt)
	pl := p.st.player
	if !p.dying {
		p.session.TrackX(pl.X)
		if p.session.CheckFall(pl.Bottom()) {
			p.die()
		}
	}
	p.updateCamera()

	p.tweens.Update(dt)
	p.timers.Update(dt)
	p.g.reg.ProcessEvents()
	return nil
}

func (p *playScene) updatePlayer(dt time.Duration) {
	pl := p.st.player
	d := p.st.dims
	in := p.g.input

	if p.dying {
		return
	}
	if p.walking {
		pl.VX = d.ScreenWidth / 8.5
		if pl.X >= p.st.castle.CenterX() {
			p.enterCastle()
		}
		return
	}
	if pl.Blocked.Up {
		pl.VY = 0
	}
	if p.session.Blocked() {
		return
	}

	p.cooldown = max(0, p.cooldown-dt)
	onGround := pl.Touching.Down
	power := p.session.Power()

	if in.Pressed(ActionJump) && onGround {
		pl.VY = -d.VelocityY()
		if power > gamestate.Small && in.Pressed(ActionDown) {
			pl.VY = -d.VelocityY() / 1.25
		}
		p.g.bus.Emit(eventSound, EffectJump)
	}

	switch {
	case in.Pressed(ActionLeft):
		p.control.MoveLeft()
		pl.VX = p.control.TargetVelocity(pl.VX, d.VelocityX())
		p.facing = -1
	case in.Pressed(ActionRight):
		p.control.MoveRight()
		pl.VX = p.control.TargetVelocity(pl.VX, d.VelocityX())
		p.facing = 1
	default:
		if pl.VX != 0 {
			p.control.Reset()
		}
		if onGround {
			pl.VX = 0
		}
	}

	crouch := power > gamestate.Small && in.Pressed(ActionDown)
	if crouch && onGround {
		pl.VX = 0
	}
	p.resizePlayer(power > gamestate.Small, crouch)
	if crouch {
		return
	}

	if onGround && power == gamestate.Fire && in.Pressed(ActionFire) && p.cooldown == 0 {
		p.throwFireball()
	}
}

// resizePlayer matches the body to the power state, keeping the feet in
// place.
func (p *playScene) resizePlayer(grown, crouching bool) {
	pl := p.st.player
	w, h := playerSize(p.st.dims, grown, crouching)
	if pl.W == w && pl.H == h {
		return
	}
	bottom := pl.Bottom()
	p.st.world.Remove(pl)
	pl.W, pl.H = w, h
	pl.Y = bottom - h
	p.st.world.Add(pl)
	p.crouching = crouching
}

func (p *playScene) throwFireball() {
	p.cooldown = fireCooldown
	body := p.st.spawnFireball(p.facing)
	p.fireballs = append(p.fireballs, &fireball{body: body, left: fireballLifetime})
	p.g.bus.Emit(registry.KeyPlayerFiring, true)
	p.g.bus.Emit(registry.KeyFireInCooldown, true)
	p.g.bus.Emit(eventSound, EffectFireball)
	p.timers.After(fireCooldown, func() {
		p.g.bus.Emit(registry.KeyPlayerFiring, false)
		p.g.bus.Emit(registry.KeyFireInCooldown, false)
	})
}

func (p *playScene) updateFireballs(dt time.Duration) {
	live := p.fireballs[:0]
	for _, f := range p.fireballs {
		f.left -= dt
		if f.body.Disabled || f.left <= 0 || f.body.Y > p.st.dims.ScreenHeight {
			p.st.removeBody(f.body)
			continue
		}
		live = append(live, f)
	}
	p.fireballs = live
}

// clearStuckEnemies removes goombas that lost their walking speed, e.g.
// wedged between two solids.
func (p *playScene) clearStuckEnemies() {
	for _, e := range p.st.store.Enemies() {
		if e.Disabled {
			continue
		}
		if e.VX == 0 || e.Y > p.st.dims.ScreenHeight {
			p.st.removeBody(e)
		}
	}
}

func (p *playScene) updateCamera() {
	pl := p.st.player
	d := p.st.dims
	p.camera.Update(pl.X, pl.VX, p.viewX, p.session.Started())
	if p.camera.ReachedEnd() {
		p.g.bus.Emit(registry.KeyReachedLevelEnd, true)
	}
	minX, maxX := p.st.world.Bounds()
	p.viewX = p.camera.Follow(p.viewX, pl.X, cameraLerp, minX, maxX-d.ScreenWidth)
}

func (p *playScene) onCollide(mover, other *physics.Body, side physics.Sides) {
	switch mover.Layer {
	case physics.LayerPlayer:
		p.playerHit(other, side)
	case physics.LayerProjectile:
		if side.Down {
			mover.VY = -p.st.dims.VelocityY() / 2.5
		} else if side.Left || side.Right {
			p.st.world.Remove(mover)
		}
	}
}

func (p *playScene) playerHit(other *physics.Body, side physics.Sides) {
	switch other.Kind {
	case worldgen.KindMysteryBlock:
		if !side.Up {
			return
		}
		p.bump(other)
		reward := p.session.RevealMystery(other.ID, true, p.rolls.Between(0, 100))
		if reward == gamestate.RewardNone {
			return
		}
		if sp := p.st.store.SpriteOf(other); sp != nil {
			sp.Color = paletteFor(p.st.level.Mode).empty
		}
		kind := powerUpFireFlower
		if reward == gamestate.RewardMushroom {
			kind = powerUpMushroom
		}
		p.risePowerUp(p.st.spawnPowerUp(kind, other), other)

	case worldgen.KindBlock:
		switch p.session.BumpBrick(side.Up, p.crouching, false) {
		case gamestate.BrickBounced:
			p.bump(other)
		case gamestate.BrickBroken:
			p.g.bus.Emit(eventSound, EffectBreak)
			p.st.removeBody(other)
			p.addPopup(fmt.Sprint(gamestate.PointsBrickBreak), other.CenterX(), other.Y)
		}

	case worldgen.KindImmovableBlock:
		if side.Up {
			p.g.bus.Emit(eventSound, EffectBump)
		}

	case worldgen.KindFinalTrigger:
		if side.Right {
			p.teleport()
		}
	}
}

// bump plays the block bounce.
func (p *playScene) bump(block *physics.Body) {
	p.g.bus.Emit(eventSound, EffectBump)
	sp := p.st.store.SpriteOf(block)
	if sp == nil {
		return
	}
	p.tweens.Bounce(-block.H/3, 100*time.Millisecond, func(v float64) {
		if sp := p.st.store.SpriteOf(block); sp != nil {
			sp.OffsetY = v
		}
	})
}

// risePowerUp slides a power-up out of the top of its block, then lets
// mushrooms walk away.
func (p *playScene) risePowerUp(body, block *physics.Body) {
	p.g.bus.Emit(eventSound, EffectPowerUpAppears)
	body.Disabled = true
	from, to := block.Y, block.Y-body.H
	p.tweens.Add(from, to, 400*time.Millisecond, ease.OutQuad, func(y float64) {
		body.SetPosition(body.X, y)
	}, func() {
		body.Disabled = false
		if body.Data == powerUpMushroom {
			body.Gravity = true
			body.VX = p.st.dims.PowerUpSpeed()
			body.BounceX = 1
			return
		}
		body.Immovable = true
	})
}

func (p *playScene) onOverlap(a, b *physics.Body) {
	switch a.Layer {
	case physics.LayerPlayer:
		p.playerOverlap(b)
	case physics.LayerProjectile:
		if b.Layer == physics.LayerEnemy && p.session.FireballHit() {
			p.killEnemy(b)
			p.st.world.Remove(a)
		}
	}
}

func (p *playScene) playerOverlap(other *physics.Body) {
	if p.dying {
		return
	}
	pl := p.st.player
	switch other.Layer {
	case physics.LayerPickup:
		p.st.world.Remove(other)
		p.st.store.RemoveBody(other)
		points := p.session.CollectCoin()
		p.g.bus.Emit(eventSound, EffectCoin)
		p.addPopup(fmt.Sprint(points), other.CenterX(), other.Y)

	case physics.LayerPowerUp:
		var changed bool
		if other.Data == powerUpMushroom {
			changed = p.session.ConsumeMushroom()
		} else {
			changed = p.session.ConsumeFireFlower()
		}
		p.st.world.Remove(other)
		p.st.store.RemoveBody(other)
		p.addPopup(fmt.Sprint(gamestate.PointsPowerUp), other.CenterX(), other.Y)
		if changed {
			p.session.SetBlocked(true)
			p.timers.After(powerUpFreeze, func() {
				if !p.session.FlagRaised() {
					p.session.SetBlocked(false)
				}
			})
		}

	case physics.LayerEnemy:
		stomp := pl.LandedOn(other, stompTolerance)
		switch p.session.GoombaContact(stomp, false) {
		case gamestate.ContactKilled:
			p.killEnemy(other)
			pl.VY = p.session.StompBounce()
		case gamestate.ContactDamaged:
			p.blink(gamestate.DamageInvulnerability)
		case gamestate.ContactGameOver:
			p.die()
		}

	case physics.LayerFlag:
		if !p.session.RaiseFlag() {
			return
		}
		p.raiseFlag()
	}
}

func (p *playScene) killEnemy(enemy *physics.Body) {
	p.g.bus.Emit(eventSound, EffectStomp)
	p.addPopup(fmt.Sprint(gamestate.PointsStomp), enemy.CenterX(), enemy.Y)
	p.st.world.Remove(enemy)
	enemy.Y += enemy.H / 2
	enemy.H /= 2
	if p.st.store.SpriteOf(enemy) == nil {
		return
	}
	p.tweens.Add(1, 0, 500*time.Millisecond, ease.Linear, func(v float64) {
		if sp := p.st.store.SpriteOf(enemy); sp != nil {
			sp.Alpha = v
		}
	}, func() {
		p.st.store.RemoveBody(enemy)
	})
}

// blink flashes the player while invulnerable.
func (p *playScene) blink(d time.Duration) {
	sp := p.st.store.SpriteOf(p.st.player)
	if sp == nil {
		return
	}
	var flash func(left time.Duration)
	flash = func(left time.Duration) {
		if left <= 0 {
			sp.Alpha = 1
			return
		}
		p.tweens.Add(1, 0.2, 100*time.Millisecond, ease.Linear, func(v float64) { sp.Alpha = v }, func() {
			p.tweens.Add(0.2, 1, 100*time.Millisecond, ease.Linear, func(v float64) { sp.Alpha = v }, func() {
				flash(left - 200*time.Millisecond)
			})
		})
	}
	flash(d)
}

func (p *playScene) raiseFlag() {
	pl := p.st.player
	d := p.st.dims
	p.g.bus.Emit(eventMusic, TrackNone)
	p.g.bus.Emit(eventSound, EffectFlag)
	p.addPopup(fmt.Sprint(gamestate.PointsFlag), pl.CenterX(), pl.Y)
	pl.VX = 0

	if sp := p.st.store.Sprite(p.st.flag); sp != nil {
		p.tweens.Add(sp.Rect.Y, worldgen.FlagRaisedY(d), 1500*time.Millisecond, ease.OutQuad, func(y float64) {
			sp.Rect.Y = y
		}, nil)
	}
	p.timers.After(1500*time.Millisecond, func() {
		p.walking = true
		pl.Detects &^= physics.LayerFlag
	})
	p.timers.After(winDelay, p.win)
}

// enterCastle fades the player out at the castle door.
func (p *playScene) enterCastle() {
	sp := p.st.store.SpriteOf(p.st.player)
	if sp == nil || sp.Hidden {
		return
	}
	sp.Hidden = true
	p.st.player.VX = 0
	p.walking = false
}

func (p *playScene) win() {
	p.enterCastle()
	p.session.Win()
	p.g.bus.Emit(eventSound, EffectWin)
	p.timers.After(2*time.Second, p.finish)
}

func (p *playScene) die() {
	if p.dying {
		return
	}
	p.dying = true
	pl := p.st.player
	pl.Mask, pl.Detects = 0, 0
	pl.CollideBounds = false
	pl.VX = 0
	pl.VY = -p.st.dims.VelocityY() / 1.5
	p.g.bus.Emit(eventMusic, TrackNone)
	p.g.bus.Emit(eventSound, EffectGameOver)
	p.timers.After(deathDelay, p.finish)
}

// teleport moves the player from the underground exit pipe to the end of
// the level.
func (p *playScene) teleport() {
	if p.session.Blocked() {
		return
	}
	d := p.st.dims
	pl := p.st.player
	p.session.SetBlocked(true)
	p.g.bus.Emit(eventSound, EffectPowerDown)
	p.camera = gamestate.CameraRule{Overworld: true, Dims: d}
	pl.VX = 0
	if p.st.roof != nil {
		p.st.removeBody(p.st.roof)
		p.st.roof = nil
	}
	p.tweens.Add(0, 1, 450*time.Millisecond, ease.Linear, func(v float64) { p.fade = v }, nil)

	p.timers.After(500*time.Millisecond, func() {
		p.st.world.SetBounds(d.WorldWidth-d.ScreenWidth, d.WorldWidth)
		p.viewX = d.WorldWidth - d.ScreenWidth
		p.st.surfaced = true
		pl.SetPosition(p.st.level.TeleportX-pl.W, d.GroundY()-pl.H-d.ScreenHeight/7)
		pl.VY = 0
		p.g.bus.Emit(eventMusic, TrackOverworld)
		p.tweens.Add(1, 0, 450*time.Millisecond, ease.Linear, func(v float64) { p.fade = v }, func() {
			p.session.SetBlocked(false)
		})
	})
}

func (p *playScene) addPopup(text string, x, y float64) {
	pop := &popup{text: text, x: x, y: y, alpha: 1}
	p.popups = append(p.popups, pop)
	p.tweens.Add(y, y-p.st.dims.ScreenHeight/12, 700*time.Millisecond, ease.OutQuad, func(v float64) {
		pop.y = v
		pop.alpha = 1 - (y-v)/(p.st.dims.ScreenHeight/12)
	}, func() {
		for i, other := range p.popups {
			if other == pop {
				p.popups = append(p.popups[:i], p.popups[i+1:]...)
				break
			}
		}
	})
}

// finish settles the score and hands over to the end screen.
func (p *playScene) finish() {
	if p.ended {
		return
	}
	p.ended = true
	p.g.endRun(p.session)
}
