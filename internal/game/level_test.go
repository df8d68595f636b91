package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawnchairsociety/openscroller/internal/physics"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

func generate(t *testing.T, seed int64, mode worldgen.Mode) *worldgen.Level {
	t.Helper()
	lc := worldgen.DefaultLevelConfig(seed)
	lc.RollMode = false
	lc.Mode = mode
	level, err := worldgen.NewGenerator(lc).Generate()
	require.NoError(t, err)
	return level
}

func countKind(w *physics.World, kind worldgen.EntityKind) int {
	n := 0
	for _, b := range w.Bodies() {
		if b.Kind == kind && b.Layer != physics.LayerPlayer {
			n++
		}
	}
	return n
}

func TestLoadStageBodies(t *testing.T) {
	level := generate(t, 42, worldgen.Overworld)
	st := loadStage(level)

	for _, kind := range []worldgen.EntityKind{
		worldgen.KindBlock, worldgen.KindMysteryBlock, worldgen.KindCoin,
		worldgen.KindImmovableBlock, worldgen.KindFallGuard, worldgen.KindGoomba,
	} {
		assert.Equal(t, len(level.EntitiesOfKind(kind)), countKind(st.world, kind), kind.String())
	}
	assert.Equal(t, len(level.Ground()), countKind(st.world, worldgen.KindGround))
	assert.Equal(t, 0, countKind(st.world, worldgen.KindCloud), "scenery has no bodies")
	assert.Len(t, st.store.Enemies(), len(level.Spawns))

	minX, maxX := st.world.Bounds()
	assert.Equal(t, level.Dimensions.ScreenWidth, minX)
	assert.Equal(t, level.Dimensions.WorldWidth, maxX)
}

func TestLoadStagePlayerSpawn(t *testing.T) {
	level := generate(t, 42, worldgen.Overworld)
	st := loadStage(level)
	d := level.Dimensions

	require.NotNil(t, st.player)
	assert.InDelta(t, spawnX(d), st.player.Right(), 0.001)
	assert.Less(t, st.player.Bottom(), d.GroundY())
	assert.True(t, st.player.CollideBounds)
	assert.NotNil(t, st.store.SpriteOf(st.player))
}

func TestLoadStageUnderground(t *testing.T) {
	level := generate(t, 42, worldgen.Underground)
	st := loadStage(level)

	require.NotNil(t, st.roof)
	assert.Equal(t, 1, countKind(st.world, worldgen.KindFinalTrigger))
	assert.Equal(t, 1, countKind(st.world, worldgen.KindTube))
	assert.Equal(t, 0, countKind(st.world, worldgen.KindCloud))
}

func TestStageSpritesHidden(t *testing.T) {
	level := generate(t, 7, worldgen.Overworld)
	st := loadStage(level)

	for _, b := range st.world.Bodies() {
		if b.Kind == worldgen.KindInvisibleWall {
			sp := st.store.SpriteOf(b)
			require.NotNil(t, sp)
			assert.True(t, sp.Hidden)
		}
	}
	for _, item := range st.store.Visible(0, level.Dimensions.WorldWidth) {
		assert.NotEqual(t, worldgen.KindInvisibleWall, item.Kind)
	}
}

func TestVisibleSortedByDepth(t *testing.T) {
	level := generate(t, 7, worldgen.Overworld)
	st := loadStage(level)

	items := st.store.Visible(0, level.Dimensions.WorldWidth)
	require.NotEmpty(t, items)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Depth, items[i].Depth)
	}
}

func TestSpawnPowerUpTagged(t *testing.T) {
	level := generate(t, 42, worldgen.Overworld)
	st := loadStage(level)
	blocks := level.EntitiesOfKind(worldgen.KindMysteryBlock)
	require.NotEmpty(t, blocks)

	var block *physics.Body
	for _, b := range st.world.Bodies() {
		if b.ID == blocks[0].ID {
			block = b
		}
	}
	require.NotNil(t, block)

	up := st.spawnPowerUp(powerUpMushroom, block)
	assert.True(t, st.store.Has(up, PowerUpTag))
	assert.False(t, st.store.Has(up, EnemyTag))
	assert.Equal(t, block.Y, up.Y)

	st.removeBody(up)
	assert.Nil(t, st.store.SpriteOf(up))
}

func TestPlayerSize(t *testing.T) {
	d := worldgen.NewDimensions(1280, 792, 11, 100)

	sw, sh := playerSize(d, false, false)
	gw, gh := playerSize(d, true, false)
	_, ch := playerSize(d, true, true)

	assert.Equal(t, sw, gw)
	assert.InDelta(t, sh*2, gh, 0.001)
	assert.Less(t, ch, gh)
	assert.Greater(t, ch, sh)
}
