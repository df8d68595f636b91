package worldgen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimumConfig makes every unconstrained segment a hole when paired with a
// source that always returns the minimum.
func minimumConfig() *LevelConfig {
	cfg := DefaultLevelConfig(7)
	cfg.Scenery = false
	cfg.Enemies = false
	return cfg
}

// ============================================================================
// Walk
// ============================================================================

func TestWalk_HolesEveryFourthSegmentUnderConstantDraws(t *testing.T) {
	level, err := GenerateWithSource(minimumConfig(), newScripted())
	require.NoError(t, err)
	require.NoError(t, level.Validate())

	segs := level.Segments
	require.Len(t, segs, 101)

	// Start zone.
	for i := 0; i <= 5; i++ {
		assert.False(t, segs[i].IsHole(), "segment %d", i)
	}
	assert.Nil(t, segs[0].Structure)
	assert.Nil(t, segs[1].Structure)
	assert.NotNil(t, segs[2].Structure)
	assert.Nil(t, segs[3].Structure)
	assert.NotNil(t, segs[4].Structure)

	assert.True(t, segs[6].IsHole())
	assert.False(t, segs[7].IsHole())
	assert.Nil(t, segs[7].Structure, "no structure right after a hole")
	assert.NotNil(t, segs[8].Structure)
	assert.False(t, segs[9].IsHole())
	assert.True(t, segs[10].IsHole())

	// Fall guards flank each hole.
	assert.Len(t, level.EntitiesOfKind(KindFallGuard), 2*len(level.Holes))
}

func TestWalk_NoHolesWhenChanceIsZero(t *testing.T) {
	cfg := minimumConfig()
	cfg.HoleChance = 0
	level, err := GenerateWithSource(cfg, newScripted())
	require.NoError(t, err)

	assert.Empty(t, level.Holes)
	for _, s := range level.Segments {
		assert.False(t, s.IsHole())
	}
}

func TestWalk_SafeZonesStaySolid(t *testing.T) {
	cfg := minimumConfig()
	cfg.HoleChance = 100
	level, err := GenerateWithSource(cfg, newScripted())
	require.NoError(t, err)
	require.NoError(t, level.Validate())

	d := level.Dimensions
	for _, s := range level.Segments {
		if s.Start <= d.ScreenWidth*2 || s.Start >= d.WorldWidth-d.ScreenWidth*2 {
			assert.False(t, s.IsHole(), "segment %d at %.0f", s.Index, s.Start)
		}
	}
}

func TestWalk_UndergroundStopsStructuresEarlier(t *testing.T) {
	cfg := minimumConfig()
	cfg.RollMode = false
	cfg.Mode = Underground
	cfg.HoleChance = 0
	level, err := GenerateWithSource(cfg, newScripted())
	require.NoError(t, err)
	assert.Equal(t, Underground, level.Mode)

	d := level.Dimensions
	limit := d.WorldWidth - d.ScreenWidth*1.5
	for _, s := range level.Segments {
		if s.Structure != nil {
			assert.Less(t, s.Start, limit)
		}
	}
	assert.Equal(t, 1, len(level.EntitiesOfKind(KindRoof)))
	assert.Equal(t, 1, len(level.EntitiesOfKind(KindTube)))
	assert.Greater(t, level.TeleportX, 0.0)
}

// ============================================================================
// Generate
// ============================================================================

func TestGenerate_Deterministic(t *testing.T) {
	a, err := NewGenerator(DefaultLevelConfig(42)).Generate()
	require.NoError(t, err)
	b, err := NewGenerator(DefaultLevelConfig(42)).Generate()
	require.NoError(t, err)

	assert.Equal(t, a.Mode, b.Mode)
	assert.Equal(t, a.Segments, b.Segments)
	assert.Equal(t, a.Entities(), b.Entities())
}

func TestGenerate_ManySeedsValidate(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		level, err := NewGenerator(DefaultLevelConfig(seed)).Generate()
		require.NoError(t, err, "seed %d", seed)
		require.NoError(t, level.Validate(), "seed %d", seed)

		for _, g := range level.EntitiesOfKind(KindGoomba) {
			assert.False(t, level.HoleAt(g.CenterX()), "seed %d goomba over hole", seed)
			assert.Contains(t, []int{-1, 1}, g.Dir)
		}
	}
}

func TestGenerate_ForcedMode(t *testing.T) {
	cfg := DefaultLevelConfig(3)
	cfg.RollMode = false
	cfg.Mode = Underground
	level, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)

	assert.Equal(t, Underground, level.Mode)
	assert.Empty(t, level.Scenery, "underground levels have no scenery")
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := DefaultLevelConfig(1)
	cfg.WidthScreens = 2

	_, err := NewGenerator(cfg).Generate()
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestGenerate_EntityIDsAreUnique(t *testing.T) {
	level, err := NewGenerator(DefaultLevelConfig(11)).Generate()
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, e := range level.Entities() {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
		got, ok := level.Entity(e.ID)
		assert.True(t, ok)
		assert.Equal(t, e.Kind, got.Kind)
	}
}

func TestGenerate_Furniture(t *testing.T) {
	for _, mode := range []Mode{Overworld, Underground} {
		cfg := DefaultLevelConfig(5)
		cfg.RollMode = false
		cfg.Mode = mode
		level, err := NewGenerator(cfg).Generate()
		require.NoError(t, err)

		for _, kind := range []EntityKind{KindStartPlatform, KindFlagMast, KindFlag, KindCastle} {
			assert.Len(t, level.EntitiesOfKind(kind), 1, "%s %s", mode, kind)
		}

		mast := level.EntitiesOfKind(KindFlagMast)[0]
		castle := level.EntitiesOfKind(KindCastle)[0]
		assert.Less(t, mast.X, castle.X, "%s: castle stands past the flag", mode)

		if mode == Underground {
			assert.Len(t, level.EntitiesOfKind(KindRoof), 1)
			assert.Len(t, level.EntitiesOfKind(KindTube), 1)
			assert.Len(t, level.EntitiesOfKind(KindFinalTrigger), 1)
			assert.Greater(t, level.TeleportX, 0.0)
		} else {
			assert.Empty(t, level.EntitiesOfKind(KindRoof))
			assert.Zero(t, level.TeleportX)
			assert.NotEmpty(t, level.EntitiesOfKind(KindCloud), "overworld has clouds")
		}
	}
}

func TestGenerate_UndergroundWall(t *testing.T) {
	cfg := DefaultLevelConfig(5)
	cfg.RollMode = false
	cfg.Mode = Underground
	level, err := NewGenerator(cfg).Generate()
	require.NoError(t, err)

	walls := level.EntitiesOfKind(KindWall)
	require.Len(t, walls, 1)
	wall := walls[0]
	d := level.Dimensions

	assert.Equal(t, d.ScreenWidth, wall.X)
	assert.InDelta(t, 16*d.Scale(), wall.W, 1e-9)
	assert.InDelta(t, d.ScreenHeight-d.PlatformHeight/1.2, wall.Bottom(), 1e-9)
	assert.InDelta(t, (d.ScreenHeight-d.PlatformHeight)*d.Scale(), wall.H, 1e-9)
	assert.Greater(t, wall.Bottom(), d.GroundY(), "wall foot sits in the ground")
	assert.Less(t, wall.Y, 0.0, "wall reaches above the screen")
}

func TestGenerate_RolledModeWalksLikeNamedMode(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rolledCfg := DefaultLevelConfig(seed)
		rolled, err := NewGenerator(rolledCfg).Generate()
		require.NoError(t, err)
		assert.Equal(t, rolledCfg.ResolvedMode(), rolled.Mode, "seed %d", seed)

		namedCfg := DefaultLevelConfig(seed)
		namedCfg.RollMode = false
		namedCfg.Mode = rolled.Mode
		named, err := NewGenerator(namedCfg).Generate()
		require.NoError(t, err)

		assert.Equal(t, named.Segments, rolled.Segments, "seed %d", seed)
		assert.Equal(t, named.Entities(), rolled.Entities(), "seed %d", seed)
	}
}
