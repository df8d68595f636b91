package game

import (
	"image/color"

	"github.com/yohamta/donburi"

	"github.com/lawnchairsociety/openscroller/internal/physics"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// Player sprite sizes in source pixels.
const (
	playerWidth       = 14
	playerSmallHeight = 16
	playerGrownHeight = 32
	playerCrouchRatio = 0.7
)

const (
	playerMask   = physics.LayerGround | physics.LayerBlock | physics.LayerTrigger
	enemyMask    = physics.LayerGround | physics.LayerBlock | physics.LayerGuard | physics.LayerEnemy | physics.LayerFlag | physics.LayerTrigger
	powerUpMask  = physics.LayerGround | physics.LayerBlock | physics.LayerGuard | physics.LayerTrigger
	fireballMask = physics.LayerGround | physics.LayerBlock | physics.LayerTrigger
)

// stage is a level loaded into the physics world and the entity store.
type stage struct {
	level  *worldgen.Level
	dims   worldgen.Dimensions
	world  *physics.World
	store  *Store
	player *physics.Body
	flag   donburi.Entity
	roof   *physics.Body
	castle worldgen.Rect

	// surfaced is set once the underground exit pipe moved the player to
	// the open-air end of the level.
	surfaced bool
}

// spawnX is where the run starts: just past the start screen.
func spawnX(d worldgen.Dimensions) float64 {
	return d.ScreenWidth + 100
}

// playerSize returns the body size for a power state.
func playerSize(d worldgen.Dimensions, grown, crouching bool) (float64, float64) {
	scale := d.ScreenHeight / 376
	h := playerSmallHeight * scale
	if grown {
		h = playerGrownHeight * scale
		if crouching {
			h *= playerCrouchRatio
		}
	}
	return playerWidth * scale, h
}

// loadStage builds the physics bodies and entities for level.
func loadStage(level *worldgen.Level) *stage {
	d := level.Dimensions
	s := &stage{
		level: level,
		dims:  d,
		world: physics.NewWorld(d.WorldWidth, d.ScreenHeight, d.Gravity()),
		store: NewStore(),
	}
	s.world.SetBounds(d.ScreenWidth, d.WorldWidth)
	pal := paletteFor(level.Mode)

	for _, r := range level.Ground() {
		body := physics.NewStatic(worldgen.Entity{Kind: worldgen.KindGround, Rect: r}, physics.LayerGround)
		s.world.Add(body)
		s.store.Spawn(Sprite{Kind: worldgen.KindGround, Color: pal.ground, Depth: depthFurniture}, body)
	}

	for _, e := range level.Entities() {
		s.addEntity(e, pal)
	}

	w, h := playerSize(d, false, false)
	s.player = &physics.Body{
		Rect:          worldgen.Rect{X: spawnX(d) - w, Y: d.GroundY() - d.ScreenHeight/7 - h, W: w, H: h},
		Layer:         physics.LayerPlayer,
		Mask:          playerMask,
		Detects:       physics.LayerPickup | physics.LayerEnemy | physics.LayerPowerUp | physics.LayerFlag,
		Gravity:       true,
		CollideBounds: true,
		MaxVY:         d.VelocityY() * 1.5,
	}
	s.world.Add(s.player)
	s.store.Spawn(Sprite{Color: pal.player, Depth: depthPlayer}, s.player)
	return s
}

func (s *stage) addEntity(e worldgen.Entity, pal palette) {
	sprite := Sprite{Kind: e.Kind, Variant: e.Variant, Rect: e.Rect, Color: pal.colorOf(e.Kind, e.Variant)}

	switch e.Kind {
	case worldgen.KindCloud, worldgen.KindMountain, worldgen.KindBush, worldgen.KindFence:
		sprite.Depth = depthScenery
		s.store.Spawn(sprite)

	case worldgen.KindCastle:
		sprite.Depth = depthFurniture
		s.castle = e.Rect
		s.store.Spawn(sprite)

	case worldgen.KindFlag:
		sprite.Depth = depthFurniture
		s.flag = s.store.Spawn(sprite)

	case worldgen.KindFlagMast:
		sprite.Depth = depthFurniture
		s.addStatic(e, physics.LayerFlag, sprite)

	case worldgen.KindStartPlatform:
		sprite.Depth = depthFurniture
		s.addStatic(e, physics.LayerGround, sprite)

	case worldgen.KindFallGuard, worldgen.KindInvisibleWall:
		sprite.Hidden = true
		s.addStatic(e, physics.LayerGuard, sprite)

	case worldgen.KindFinalTrigger:
		sprite.Depth = depthBlocks
		s.addStatic(e, physics.LayerTrigger, sprite)

	case worldgen.KindRoof:
		sprite.Depth = depthBlocks
		s.roof = s.addStatic(e, physics.LayerBlock, sprite)

	case worldgen.KindBlock, worldgen.KindMysteryBlock, worldgen.KindImmovableBlock,
		worldgen.KindWall, worldgen.KindTube:
		sprite.Depth = depthBlocks
		s.addStatic(e, physics.LayerBlock, sprite)

	case worldgen.KindCoin:
		sprite.Depth = depthBlocks
		body := physics.NewSensor(e, physics.LayerPickup)
		s.world.Add(body)
		s.store.Spawn(sprite, body)

	case worldgen.KindGoomba:
		sprite.Depth = depthActors
		s.spawnGoomba(e, sprite)
	}
}

func (s *stage) addStatic(e worldgen.Entity, layer physics.Layer, sprite Sprite) *physics.Body {
	body := physics.NewStatic(e, layer)
	s.world.Add(body)
	s.store.Spawn(sprite, body)
	return body
}

func (s *stage) spawnGoomba(e worldgen.Entity, sprite Sprite) {
	speed := s.dims.EnemySpeed()
	dir := float64(e.Dir)
	if dir == 0 {
		dir = -1
	}
	body := &physics.Body{
		Rect:    e.Rect,
		ID:      e.ID,
		Kind:    e.Kind,
		Layer:   physics.LayerEnemy,
		Mask:    enemyMask,
		Gravity: true,
		VX:      speed * dir,
		MaxVX:   speed,
		BounceX: 1,
	}
	s.world.Add(body)
	s.store.Spawn(sprite, body, EnemyTag)
}

// spawnPowerUp places a reward on top of block, hidden inside it until the
// rise tween finishes.
func (s *stage) spawnPowerUp(kind powerUpKind, block *physics.Body) *physics.Body {
	size := s.dims.BlockSize() * 0.9
	body := &physics.Body{
		Rect:   worldgen.Rect{X: block.CenterX() - size/2, Y: block.Y, W: size, H: size},
		Layer:  physics.LayerPowerUp,
		Mask:   powerUpMask,
		Sensor: true,
		Data:   kind,
	}
	s.world.Add(body)
	pal := paletteFor(s.level.Mode)
	c := pal.mushroom
	if kind == powerUpFireFlower {
		c = pal.fireFlower
	}
	s.store.Spawn(Sprite{Color: c, Depth: depthPowerUp}, body, PowerUpTag)
	return body
}

// spawnFireball launches a fireball from the player in direction dir.
func (s *stage) spawnFireball(dir float64) *physics.Body {
	size := s.dims.BlockSize() / 2
	p := s.player
	x := p.Right()
	if dir < 0 {
		x = p.X - size
	}
	body := &physics.Body{
		Rect:    worldgen.Rect{X: x, Y: p.Y + p.H/3, W: size, H: size},
		Layer:   physics.LayerProjectile,
		Mask:    fireballMask,
		Detects: physics.LayerEnemy,
		Gravity: true,
		VX:      dir * s.dims.VelocityX() * 1.6,
		Sensor:  true,
	}
	s.world.Add(body)
	s.store.Spawn(Sprite{Color: paletteFor(s.level.Mode).fireball, Depth: depthActors}, body, FireballTag)
	return body
}

// removeBody takes a body out of both worlds.
func (s *stage) removeBody(b *physics.Body) {
	s.world.Remove(b)
	s.store.RemoveBody(b)
}

type powerUpKind int

const (
	powerUpMushroom powerUpKind = iota
	powerUpFireFlower
)

type palette struct {
	sky, ground, brick, mystery, empty, immovable, coin color.RGBA
	tube, flag, mast, castle, player, goomba            color.RGBA
	mushroom, fireFlower, fireball                      color.RGBA
	cloud, mountain, bush, fence                        color.RGBA
}

func rgb(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

var (
	overworldPalette = palette{
		ground: rgb(0xc84c0c), brick: rgb(0xb8581c), mystery: rgb(0xfca044), empty: rgb(0x885818),
		immovable: rgb(0x9c4a00), coin: rgb(0xfcd800), tube: rgb(0x00a800), flag: rgb(0xffffff),
		mast: rgb(0x80d010), castle: rgb(0x9c4a00), player: rgb(0xd82800), goomba: rgb(0x8c3a0c),
		mushroom: rgb(0xe45c10), fireFlower: rgb(0xf83800), fireball: rgb(0xfca044),
		cloud: rgb(0xfcfcfc), mountain: rgb(0x00a800), bush: rgb(0x80d010), fence: rgb(0xa86000),
	}
	undergroundPalette = palette{
		ground: rgb(0x0058f8), brick: rgb(0x0070ec), mystery: rgb(0xfca044), empty: rgb(0x885818),
		immovable: rgb(0x3cbcfc), coin: rgb(0xfcd800), tube: rgb(0x00a800), flag: rgb(0xffffff),
		mast: rgb(0x80d010), castle: rgb(0x9c4a00), player: rgb(0xd82800), goomba: rgb(0x005888),
		mushroom: rgb(0xe45c10), fireFlower: rgb(0xf83800), fireball: rgb(0xfca044),
	}
)

func paletteFor(m worldgen.Mode) palette {
	p := overworldPalette
	if m == worldgen.Underground {
		p = undergroundPalette
	}
	p.sky = rgb(m.SkyColor())
	return p
}

func (p palette) colorOf(kind worldgen.EntityKind, variant string) color.RGBA {
	switch kind {
	case worldgen.KindGround, worldgen.KindStartPlatform:
		return p.ground
	case worldgen.KindBlock, worldgen.KindWall, worldgen.KindRoof:
		return p.brick
	case worldgen.KindMysteryBlock:
		return p.mystery
	case worldgen.KindImmovableBlock:
		return p.immovable
	case worldgen.KindCoin:
		return p.coin
	case worldgen.KindTube, worldgen.KindFinalTrigger:
		return p.tube
	case worldgen.KindFlagMast:
		return p.mast
	case worldgen.KindFlag:
		return p.flag
	case worldgen.KindCastle:
		return p.castle
	case worldgen.KindGoomba:
		return p.goomba
	case worldgen.KindCloud:
		return p.cloud
	case worldgen.KindMountain:
		return p.mountain
	case worldgen.KindBush:
		return p.bush
	case worldgen.KindFence:
		return p.fence
	}
	return p.ground
}
