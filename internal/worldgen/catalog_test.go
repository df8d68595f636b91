package worldgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDims() Dimensions {
	return NewDimensions(1280, 792, 11, 100)
}

func countKind(entities []Entity, kind EntityKind) int {
	n := 0
	for _, e := range entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestCatalogHasSixVariantsPerMode(t *testing.T) {
	assert.Len(t, Catalog(Overworld), 6)
	assert.Len(t, Catalog(Underground), 6)
}

func TestBuildStructure_OverworldBrickRow(t *testing.T) {
	d := testDims()
	src := newScripted(0, 3)
	pieceStart := 4000.0

	s := BuildStructure(src, Overworld, pieceStart, d)

	assert.Equal(t, "brick-row", s.Variant)
	assert.Equal(t, 0, s.Index)
	assert.Equal(t, 3, s.Cooldown)
	require.Len(t, s.Entities, 11)
	assert.Equal(t, 8, countKind(s.Entities, KindBlock))
	assert.Equal(t, 3, countKind(s.Entities, KindMysteryBlock))

	bs := d.BlockSize()
	first := s.Entities[0]
	assert.InDelta(t, pieceStart-2.5*bs, first.X, 1e-9)
	assert.InDelta(t, d.ScreenHeight-d.PlatformHeight*1.9-bs/2, first.Y, 1e-9)
	assert.InDelta(t, bs, first.W, 1e-9)
	assert.InDelta(t, bs, first.H, 1e-9)

	// Negative origins sit to the right of the segment start.
	assert.Greater(t, s.Entities[2].X, pieceStart)
}

func TestBuildStructure_OverworldCooldownRanges(t *testing.T) {
	d := testDims()
	for index := 0; index < 6; index++ {
		draws := []int{index, 99}
		if index == 4 {
			draws = []int{index, 0, 99}
		}
		s := BuildStructure(newScripted(draws...), Overworld, 4000, d)
		if index < 4 {
			assert.Equal(t, 3, s.Cooldown, "variant %d", index)
		} else {
			assert.Equal(t, 2, s.Cooldown, "variant %d", index)
		}
	}
}

func TestBuildStructure_MysteryLineAlternatives(t *testing.T) {
	d := testDims()
	tests := []struct {
		alternative int
		want        int
	}{
		{0, 3},
		{1, 2},
		{2, 1},
		{3, 3},
		{4, 4},
	}
	for _, tt := range tests {
		s := BuildStructure(newScripted(4, tt.alternative, 1), Overworld, 4000, d)
		assert.Equal(t, "mystery-line", s.Variant)
		assert.Len(t, s.Entities, tt.want, "alternative %d", tt.alternative)
		assert.Equal(t, tt.want, countKind(s.Entities, KindMysteryBlock))
		assert.Equal(t, 1, s.Cooldown)
	}
}

func TestBuildStructure_UndergroundStaircase(t *testing.T) {
	d := testDims()
	src := newScripted(1)

	s := BuildStructure(src, Underground, 5000, d)

	assert.Equal(t, "staircase", s.Variant)
	assert.Equal(t, 1, s.Cooldown)
	assert.Equal(t, 1, src.calls, "underground cooldown must not draw")

	steps := 0
	for _, e := range s.Entities {
		if e.Kind != KindImmovableBlock {
			continue
		}
		steps++
		assert.InDelta(t, float64(16*steps)*d.Scale(), e.H, 1e-9)
		assert.InDelta(t, d.GroundY(), e.Bottom(), 1e-9)
	}
	assert.Equal(t, 7, steps)
	assert.Equal(t, 1, countKind(s.Entities, KindMysteryBlock))
}

func TestBuildStructure_UndergroundCoins(t *testing.T) {
	d := testDims()
	s := BuildStructure(newScripted(4), Underground, 5000, d)

	assert.Equal(t, "coin-bricks", s.Variant)
	assert.Equal(t, 4, countKind(s.Entities, KindCoin))
	assert.Equal(t, 4, countKind(s.Entities, KindBlock))

	scale := d.Scale()
	coin := s.Entities[0]
	require.Equal(t, KindCoin, coin.Kind)
	assert.InDelta(t, 10*scale, coin.W, 1e-9)
	assert.InDelta(t, 14*scale, coin.H, 1e-9)
	assert.InDelta(t, d.ScreenHeight-d.PlatformHeight*1.9-1.7*coin.H, coin.Y, 1e-9)
	assert.InDelta(t, 5000-2.9*coin.W, coin.X, 1e-9)
}

func TestBuildStructure_UndergroundFullOffsetLists(t *testing.T) {
	d := testDims()
	want := []int{5, 8, 12, 14, 8, 16}
	for index, n := range want {
		s := BuildStructure(newScripted(index), Underground, 5000, d)
		assert.Len(t, s.Entities, n, "variant %s", s.Variant)
	}
}
