package gamestate

import "github.com/lawnchairsociety/openscroller/internal/worldgen"

// CameraRule decides when the camera starts and stops following the player.
type CameraRule struct {
	Overworld bool
	Dims      worldgen.Dimensions

	following  bool
	reachedEnd bool
}

// Following reports whether the camera tracks the player.
func (c *CameraRule) Following() bool { return c.following }

// ReachedEnd reports whether the underground end stop was hit.
func (c *CameraRule) ReachedEnd() bool { return c.reachedEnd }

// Update applies one frame. viewX is the left edge of the current view.
func (c *CameraRule) Update(playerX, velocityX, viewX float64, levelStarted bool) {
	if velocityX > 0 && levelStarted && !c.reachedEnd && !c.following &&
		playerX >= viewX+c.Dims.ScreenWidth/2 {
		c.following = true
	}

	if !c.reachedEnd && !c.Overworld && c.following &&
		playerX >= c.Dims.WorldWidth-c.Dims.ScreenWidth*1.5 {
		c.reachedEnd = true
		c.following = false
	}
}

// Follow returns the next view x when following, easing towards centring
// the player and clamped to [min, max].
func (c *CameraRule) Follow(viewX, playerX, lerp, minX, maxX float64) float64 {
	if !c.following {
		return viewX
	}
	target := playerX - c.Dims.ScreenWidth/2
	next := viewX + (target-viewX)*lerp
	return max(minX, min(maxX, next))
}
