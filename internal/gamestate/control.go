package gamestate

// controlStep is how far one held frame moves the smoothed value.
const controlStep = 0.001 * 3.5

// SmoothedControl turns a held direction key into gradual acceleration.
// Value ranges from -1 (full left) to 1 (full right).
type SmoothedControl struct {
	Value float64
}

// MoveLeft steps towards -1, restarting from 0 after a direction flip.
func (c *SmoothedControl) MoveLeft() {
	if c.Value > 0 {
		c.Reset()
	}
	c.Value = max(-1, c.Value-controlStep)
}

// MoveRight steps towards 1, restarting from 0 after a direction flip.
func (c *SmoothedControl) MoveRight() {
	if c.Value < 0 {
		c.Reset()
	}
	c.Value = min(1, c.Value+controlStep)
}

func (c *SmoothedControl) Reset() {
	c.Value = 0
}

// TargetVelocity lerps current towards ±maxSpeed by |Value|.
func (c *SmoothedControl) TargetVelocity(current, maxSpeed float64) float64 {
	target, t := maxSpeed, c.Value
	if c.Value < 0 {
		target, t = -maxSpeed, -c.Value
	}
	return current + (target-current)*t
}
