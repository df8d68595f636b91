package worldgen

import (
	"math"
	"strings"
)

// ASCII map legend.
const (
	glyphSky       = ' '
	glyphGround    = '='
	glyphHole      = '.'
	glyphBlock     = '#'
	glyphMystery   = '?'
	glyphCoin      = 'o'
	glyphImmovable = 'X'
	glyphGoomba    = 'g'
	glyphFlag      = '|'
	glyphCastle    = 'C'
	glyphTube      = 'T'
	glyphRoof      = '-'
)

// asciiRows is the height of the rendered side view.
const asciiRows = 12

// RenderASCII draws a side view of the level squeezed into columns
// characters. Later layers overwrite earlier ones.
func RenderASCII(level *Level, columns int) string {
	if columns < 10 {
		columns = 10
	}
	d := level.Dimensions
	grid := make([][]rune, asciiRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(string(glyphSky), columns))
	}

	colOf := func(x float64) int {
		c := int(x / d.WorldWidth * float64(columns))
		return clampInt(c, 0, columns-1)
	}
	rowOf := func(y float64) int {
		r := int(y / d.ScreenHeight * asciiRows)
		return clampInt(r, 0, asciiRows-1)
	}
	fill := func(r Rect, glyph rune) {
		c0, c1 := colOf(r.X), colOf(math.Max(r.X, r.Right()-1))
		r0, r1 := rowOf(r.Y), rowOf(math.Max(r.Y, r.Bottom()-1))
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				grid[row][col] = glyph
			}
		}
	}

	groundRow := rowOf(d.GroundY())
	column := func(col int, glyph rune) {
		for row := groundRow; row < asciiRows; row++ {
			grid[row][col] = glyph
		}
	}
	for col := colOf(0); col <= colOf(d.ScreenWidth-1); col++ {
		column(col, glyphGround)
	}
	for _, s := range level.Segments {
		if s.IsHole() {
			continue
		}
		for col := colOf(s.Start); col <= colOf(s.End-1); col++ {
			column(col, glyphGround)
		}
	}
	// Holes are drawn last so a shared column always shows the gap.
	for _, h := range level.Holes {
		column(colOf((h.Start+h.End)/2), glyphHole)
	}

	for _, e := range level.Entities() {
		switch e.Kind {
		case KindBlock:
			fill(e.Rect, glyphBlock)
		case KindMysteryBlock:
			fill(e.Rect, glyphMystery)
		case KindCoin:
			fill(e.Rect, glyphCoin)
		case KindImmovableBlock:
			fill(e.Rect, glyphImmovable)
		case KindRoof:
			fill(e.Rect, glyphRoof)
		case KindTube:
			fill(e.Rect, glyphTube)
		case KindFlagMast:
			fill(e.Rect, glyphFlag)
		case KindCastle:
			fill(e.Rect, glyphCastle)
		}
	}
	// Goombas stand on the ground line; draw them just above it.
	for _, e := range level.EntitiesOfKind(KindGoomba) {
		grid[clampInt(groundRow-1, 0, asciiRows-1)][colOf(e.CenterX())] = glyphGoomba
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
