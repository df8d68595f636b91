package worldgen

import (
	"fmt"
)

// Generator builds levels from a LevelConfig.
type Generator struct {
	config     *LevelConfig
	maxRetries int
}

// NewGenerator creates a level generator for the config.
func NewGenerator(config *LevelConfig) *Generator {
	return &Generator{
		config:     config,
		maxRetries: 10,
	}
}

// Generate builds and validates a level. A level that fails validation or
// placement is regenerated from a derived seed.
func (g *Generator) Generate() (*Level, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	// The mode is settled before the walk so a rolled level and one asked
	// for by mode draw the same sequence.
	config := *g.config
	config.Mode = config.ResolvedMode()
	config.RollMode = false

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		src := NewSource(config.Seed + int64(attempt*1000))

		level, err := GenerateWithSource(&config, src)
		if err != nil {
			lastErr = err
			continue
		}
		if err := level.Validate(); err != nil {
			lastErr = err
			continue
		}
		return level, nil
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", g.maxRetries, lastErr)
}

// GenerateWithSource builds a level drawing every random value from src.
// The level is not validated.
func GenerateWithSource(config *LevelConfig, src Source) (*Level, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	mode := config.Mode
	if config.RollMode {
		mode = RollMode(src, config.OverworldChance)
	}

	level := newLevel(config, mode)
	walk(level, src, config.HoleChance)
	placeFurniture(level)

	if config.Scenery && mode == Overworld {
		if err := placeScenery(level, src); err != nil {
			return nil, fmt.Errorf("placing scenery: %w", err)
		}
	}
	if config.Enemies {
		if err := placeSpawns(level, src); err != nil {
			return nil, fmt.Errorf("placing spawns: %w", err)
		}
	}
	return level, nil
}

// walk decides, segment by segment, between ground, ground with a structure
// and a hole. A hole blocks holes and structures on the next two segments;
// a structure blocks both for its cooldown.
func walk(level *Level, src Source, holeChance int) {
	d := level.Dimensions
	stride := d.Stride()
	structureLimit := d.WorldWidth - d.ScreenWidth
	if level.Mode == Underground {
		structureLimit = d.WorldWidth - d.ScreenWidth*1.5
	}

	lastWasHole := 0
	lastWasStructure := 0

	for i := 0; i <= d.Pieces; i++ {
		pieceStart := d.SegmentStart(i)
		seg := Segment{Index: i, Start: pieceStart, End: pieceStart + stride}

		// The draw happens for every segment so forced segments still
		// advance the source.
		roll := src.Between(0, 100)
		solid := lastWasHole > 0 || lastWasStructure > 0 ||
			pieceStart <= d.ScreenWidth*2 ||
			pieceStart >= d.WorldWidth-d.ScreenWidth*2 ||
			pieceStart >= d.WorldWidth-d.PieceWidth*4 ||
			roll >= holeChance

		if solid {
			lastWasHole--
			seg.Kind = SegmentSolid
			if pieceStart < structureLimit &&
				pieceStart > d.ScreenWidth+d.PieceWidth*2 &&
				lastWasHole < 1 && lastWasStructure < 1 {
				s := BuildStructure(src, level.Mode, pieceStart, d)
				for j := range s.Entities {
					level.assignID(&s.Entities[j])
				}
				seg.Structure = s
				lastWasStructure = s.Cooldown
			} else {
				lastWasStructure--
			}
		} else {
			seg.Kind = SegmentHole
			level.Holes = append(level.Holes, Hole{Start: seg.Start, End: seg.End})
			lastWasHole = 2
			level.addFurniture(Entity{Kind: KindFallGuard, Rect: Rect{X: seg.End, Y: d.GroundY() - 5, W: 5, H: 5}})
			level.addFurniture(Entity{Kind: KindFallGuard, Rect: Rect{X: seg.Start - 5, Y: d.GroundY() - 5, W: 5, H: 5}})
		}
		level.Segments = append(level.Segments, seg)
	}
}
