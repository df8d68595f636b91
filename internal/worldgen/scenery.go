package worldgen

import "fmt"

// propSize is a sprite's source size and its display scale divisor.
type propSize struct {
	w, h    float64
	divisor float64
}

var (
	cloudSize    = propSize{w: 256, h: 128, divisor: 1725}
	mountainSize = propSize{w: 320, h: 140, divisor: 517}
	bushSize     = propSize{w: 250, h: 70, divisor: 609}
	fenceSize    = propSize{w: 0, h: 35, divisor: 863}
	goombaSize   = propSize{w: 16, h: 16, divisor: 376}
)

func (p propSize) scale(d Dimensions) float64 {
	return d.ScreenHeight / p.divisor
}

// placeScenery scatters clouds, mountains, bushes and fences. Each count is
// drawn once. Clouds may hang over holes; ground props may not.
func placeScenery(level *Level, src Source) error {
	d := level.Dimensions
	ww := d.WorldWidth
	groundY := d.GroundY()

	clouds := src.Between(int(ww/760), int(ww/380))
	for i := 0; i < clouds; i++ {
		x, err := level.RandomCoordinate(src, false, false)
		if err != nil {
			return fmt.Errorf("cloud %d: %w", i, err)
		}
		y := float64(src.Between(int(d.ScreenHeight/80), int(d.ScreenHeight/2.2)))
		s := cloudSize.scale(d)
		level.addScenery(Entity{Kind: KindCloud, Variant: pickVariant(src, "cloud1", "cloud2"),
			Rect: Rect{X: x, Y: y, W: cloudSize.w * s, H: cloudSize.h * s}})
	}

	mountains := src.Between(int(ww/6400), int(ww/3800))
	for i := 0; i < mountains; i++ {
		x, err := level.RandomCoordinate(src, false, true)
		if err != nil {
			return fmt.Errorf("mountain %d: %w", i, err)
		}
		s := mountainSize.scale(d)
		level.addScenery(Entity{Kind: KindMountain, Variant: pickVariant(src, "mountain1", "mountain2"),
			Rect: Rect{X: x, Y: groundY - mountainSize.h*s, W: mountainSize.w * s, H: mountainSize.h * s}})
	}

	bushes := src.Between(int(ww/960), int(ww/760))
	for i := 0; i < bushes; i++ {
		x, err := level.RandomCoordinate(src, false, true)
		if err != nil {
			return fmt.Errorf("bush %d: %w", i, err)
		}
		s := bushSize.scale(d)
		level.addScenery(Entity{Kind: KindBush, Variant: pickVariant(src, "bush1", "bush2"),
			Rect: Rect{X: x, Y: groundY - bushSize.h*s, W: bushSize.w * s, H: bushSize.h * s}})
	}

	fences := src.Between(int(ww/4000), int(ww/2000))
	for i := 0; i < fences; i++ {
		x, err := level.RandomCoordinate(src, false, true)
		if err != nil {
			return fmt.Errorf("fence %d: %w", i, err)
		}
		width := float64(src.Between(100, 250))
		s := fenceSize.scale(d)
		level.addScenery(Entity{Kind: KindFence,
			Rect: Rect{X: x, Y: groundY - fenceSize.h*s, W: width * s, H: fenceSize.h * s}})
	}
	return nil
}

// pickVariant chooses between two sprites with even odds.
func pickVariant(src Source, a, b string) string {
	if src.Between(0, 10) < 5 {
		return a
	}
	return b
}

// placeSpawns places goombas on solid ground away from the level ends.
func placeSpawns(level *Level, src Source) error {
	d := level.Dimensions
	count := int(d.WorldWidth / 960)
	s := goombaSize.scale(d)
	w, h := goombaSize.w*s, goombaSize.h*s

	for i := 0; i < count; i++ {
		x, err := level.RandomCoordinate(src, true, true)
		if err != nil {
			return fmt.Errorf("goomba %d: %w", i, err)
		}
		dir := -1
		if src.Between(0, 10) <= 4 {
			dir = 1
		}
		level.addSpawn(Entity{Kind: KindGoomba, Dir: dir,
			Rect: Rect{X: x - w/2, Y: d.GroundY() - h, W: w, H: h}})
	}
	return nil
}
