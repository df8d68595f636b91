package worldgen

// Dimensions holds the level geometry derived from the screen size.
// All values are in world pixels.
type Dimensions struct {
	ScreenWidth    float64 `yaml:"screen_width"`
	ScreenHeight   float64 `yaml:"screen_height"`
	WorldWidth     float64 `yaml:"world_width"`
	PlatformHeight float64 `yaml:"platform_height"`
	PieceWidth     float64 `yaml:"piece_width"`
	Pieces         int     `yaml:"pieces"`
}

// NewDimensions derives the level geometry. The playable world spans
// widthScreens screens; the first screen is the start area and the rest is
// split into pieces equal slices.
func NewDimensions(screenWidth, screenHeight float64, widthScreens, pieces int) Dimensions {
	worldWidth := screenWidth * float64(widthScreens)
	d := Dimensions{
		ScreenWidth:    screenWidth,
		ScreenHeight:   screenHeight,
		WorldWidth:     worldWidth,
		PlatformHeight: screenHeight / 5,
		Pieces:         pieces,
	}
	if pieces > 0 {
		d.PieceWidth = (worldWidth - screenWidth) / float64(pieces)
	}
	return d
}

// Stride is the horizontal distance between consecutive segment starts.
// Ground tiles are drawn at double scale, so a segment covers two piece widths.
func (d Dimensions) Stride() float64 {
	return d.PieceWidth * 2
}

// SegmentStart returns the x coordinate where segment i begins.
func (d Dimensions) SegmentStart(i int) float64 {
	return d.ScreenWidth + float64(i)*d.Stride()
}

// GroundY is the y coordinate of the walkable ground surface.
func (d Dimensions) GroundY() float64 {
	return d.ScreenHeight - d.PlatformHeight
}

// Scale is the sprite scale used for blocks and structures.
func (d Dimensions) Scale() float64 {
	return d.ScreenHeight / 345
}

// BlockSize is the on-screen edge length of a 16px block.
func (d Dimensions) BlockSize() float64 {
	return 16 * d.Scale()
}

// StartOffset is where the player spawns on the start screen.
func (d Dimensions) StartOffset() float64 {
	return d.ScreenWidth / 2.5
}

// VelocityY is the jump velocity magnitude.
func (d Dimensions) VelocityY() float64 {
	return d.ScreenHeight / 1.15
}

// VelocityX is the maximum run speed.
func (d Dimensions) VelocityX() float64 {
	return d.ScreenWidth / 4.5
}

// Gravity is the downward acceleration applied to dynamic bodies.
func (d Dimensions) Gravity() float64 {
	return d.VelocityY() * 2
}

// EnemySpeed is the walking speed of goombas.
func (d Dimensions) EnemySpeed() float64 {
	return d.ScreenWidth / 19
}

// PowerUpSpeed is the walking speed of mushrooms.
func (d Dimensions) PowerUpSpeed() float64 {
	return d.ScreenWidth / 15
}
