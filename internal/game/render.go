package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lawnchairsociety/openscroller/internal/gamestate"
	"github.com/lawnchairsociety/openscroller/internal/registry"
	"github.com/lawnchairsociety/openscroller/internal/worldgen"
)

// lineHeight is the height of one ebitenutil debug text line.
const lineHeight = 16

// withAlpha scales a colour for drawing at alpha, premultiplied.
func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	alpha = max(0, min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

func fillRect(dst *ebiten.Image, r worldgen.Rect, viewX float64, c color.RGBA) {
	vector.DrawFilledRect(dst, float32(r.X-viewX), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

// printCentered draws lines centred horizontally around x.
func printCentered(dst *ebiten.Image, lines []string, x, y int) {
	for i, line := range lines {
		w := len(line) * 6
		ebitenutil.DebugPrintAt(dst, line, x-w/2, y+i*lineHeight)
	}
}

func (p *playScene) Draw(screen *ebiten.Image) {
	d := p.st.dims
	pal := paletteFor(p.st.level.Mode)
	screen.Fill(pal.sky)
	if p.st.surfaced {
		surface := worldgen.Rect{X: d.WorldWidth - d.ScreenWidth, Y: 0, W: d.ScreenWidth, H: d.ScreenHeight}
		fillRect(screen, surface, p.viewX, rgb(worldgen.Overworld.SkyColor()))
	}

	for _, item := range p.st.store.Visible(p.viewX, p.viewX+d.ScreenWidth) {
		fillRect(screen, item.At, p.viewX, withAlpha(item.Color, item.Alpha))
	}

	for _, pop := range p.popups {
		if pop.alpha > 0.2 {
			ebitenutil.DebugPrintAt(screen, pop.text, int(pop.x-p.viewX), int(pop.y))
		}
	}

	p.drawHUD(screen)

	if p.fade > 0 {
		vector.DrawFilledRect(screen, 0, 0, float32(d.ScreenWidth), float32(d.ScreenHeight),
			withAlpha(color.RGBA{A: 0xff}, p.fade), false)
	}
	if p.settingsOpen {
		p.drawSettings(screen)
	}
}

func (p *playScene) drawHUD(screen *ebiten.Image) {
	w := p.g.cfg.Screen.Width
	state := p.g.reg.Map(registry.KeyScore, registry.KeyTimeLeft)
	score, _ := state[registry.KeyScore].(int)

	ebitenutil.DebugPrintAt(screen, gamestate.ScoreText(score), w/20, lineHeight)
	ebitenutil.DebugPrintAt(screen, gamestate.HighScoreText(max(score, p.g.highScore), score > p.g.highScore), w*3/10, lineHeight)
	ebitenutil.DebugPrintAt(screen, p.session.Timer().Text(), w*17/20, lineHeight)
}

func (p *playScene) drawSettings(screen *ebiten.Image) {
	w, h := p.g.cfg.Screen.Width, p.g.cfg.Screen.Height
	lines := p.g.settings.Lines()
	box := worldgen.Rect{X: float64(w) / 3, Y: float64(h) / 3, W: float64(w) / 3, H: float64(len(lines)+2) * lineHeight}
	fillRect(screen, box, 0, withAlpha(color.RGBA{A: 0xff}, 0.75))
	printCentered(screen, lines, w/2, int(box.Y)+lineHeight)
}

func (s *menuScene) Draw(screen *ebiten.Image) {
	cfg := s.g.cfg
	d := worldgen.NewDimensions(float64(cfg.Screen.Width), float64(cfg.Screen.Height), cfg.World.WidthScreens, cfg.World.PlatformPieces)
	pal := paletteFor(worldgen.Overworld)
	screen.Fill(pal.sky)
	fillRect(screen, worldgen.Rect{X: 0, Y: d.GroundY(), W: d.ScreenWidth, H: d.PlatformHeight}, 0, pal.ground)

	w, h := playerSize(d, false, false)
	fillRect(screen, worldgen.Rect{X: d.StartOffset() - w, Y: d.GroundY() - h, W: w, H: h}, 0, pal.player)

	printCentered(screen, s.title(), cfg.Screen.Width/2, cfg.Screen.Height/5)
}

func (s *endScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	cfg := s.g.cfg
	printCentered(screen, s.lines(), cfg.Screen.Width/2, cfg.Screen.Height/3)
}
