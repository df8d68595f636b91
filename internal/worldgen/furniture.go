package worldgen

import "math"

// Nominal sprite sizes in source pixels, before scaling.
const (
	tubeWidth     = 32
	triggerWidth  = 40
	triggerHeight = 31
	mastWidth     = 16
	mastHeight    = 167
	flagSize      = 16
	castleSize    = 80
)

// placeFurniture adds the fixed level pieces: start platform, boundary walls,
// the underground roof and exit tube, the flag and the castle.
func placeFurniture(level *Level) {
	d := level.Dimensions
	scale := d.Scale()
	groundY := d.GroundY()

	level.addFurniture(Entity{Kind: KindStartPlatform, Rect: Rect{X: 0, Y: groundY, W: d.ScreenWidth, H: d.PlatformHeight}})
	level.addFurniture(invisibleWall(d, d.ScreenWidth))

	if level.Mode == Underground {
		level.addFurniture(undergroundWall(d))

		roofX := d.ScreenWidth * 1.2
		tubeX := d.WorldWidth - d.ScreenWidth
		roofW := math.Min(d.WorldWidth/2.68*scale, tubeX-tubeWidth*scale-roofX)
		level.addFurniture(Entity{Kind: KindRoof, Rect: Rect{X: roofX, Y: d.ScreenHeight / 13, W: roofW, H: 16 * scale}})

		level.addFurniture(Entity{Kind: KindTube, Rect: Rect{X: tubeX - tubeWidth*scale, Y: 0, W: tubeWidth * scale, H: groundY}})

		triggerRight := d.WorldWidth - d.ScreenWidth*1.03
		level.addFurniture(Entity{Kind: KindFinalTrigger, Rect: Rect{
			X: triggerRight - triggerWidth*scale,
			Y: groundY - triggerHeight*scale,
			W: triggerWidth * scale,
			H: triggerHeight * scale,
		}})
		level.addFurniture(invisibleWall(d, tubeX))
		level.TeleportX = d.WorldWidth - d.ScreenWidth/1.08
	}

	flagScale := d.ScreenHeight / 400
	mastX := d.WorldWidth - d.WorldWidth/30
	mastH := mastHeight * flagScale
	level.addFurniture(Entity{Kind: KindFlagMast, Rect: Rect{X: mastX, Y: groundY - mastH, W: mastWidth * flagScale, H: mastH}})

	flagW := flagSize * flagScale
	level.addFurniture(Entity{Kind: KindFlag, Rect: Rect{X: mastX - flagW/2, Y: groundY*0.93 - flagW, W: flagW, H: flagW}})

	castleScale := d.ScreenHeight / 300
	castleW := castleSize * castleScale
	castleX := d.WorldWidth - d.WorldWidth/75
	level.addFurniture(Entity{Kind: KindCastle, Rect: Rect{X: castleX - castleW/2, Y: groundY - castleW, W: castleW, H: castleW}})
}

// undergroundWall is the brick column closing the start area. It stands
// with its foot sunk into the ground and reaches above the screen.
func undergroundWall(d Dimensions) Entity {
	scale := d.Scale()
	bottom := d.ScreenHeight - d.PlatformHeight/1.2
	h := (d.ScreenHeight - d.PlatformHeight) * scale
	return Entity{Kind: KindWall, Rect: Rect{X: d.ScreenWidth, Y: bottom - h, W: 16 * scale, H: h}}
}

// invisibleWall is a one pixel wide column standing on the ground line.
func invisibleWall(d Dimensions, x float64) Entity {
	return Entity{Kind: KindInvisibleWall, Rect: Rect{X: x - 0.5, Y: d.GroundY() - d.ScreenHeight, W: 1, H: d.ScreenHeight}}
}

// FlagRaisedY is where the flag tween ends when the flag is raised.
func FlagRaisedY(d Dimensions) float64 {
	return d.ScreenHeight / 2.2
}
