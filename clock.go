package courtside

import "time"

// Clock turns variable frame times into a whole number of fixed steps. The
// time left over is carried to the next frame as debt.
type Clock struct {
	Step     time.Duration
	MaxFrame time.Duration

	debt time.Duration
}

// Advance adds a frame of frame length, scaled by timeScale, and returns how
// many steps are now due. A paused clock accumulates nothing. A single frame
// never accounts for more than MaxFrame, so a long stall cannot trigger a
// burst of catch-up steps.
func (c *Clock) Advance(frame time.Duration, paused bool, timeScale float64) int {
	if paused || c.Step <= 0 || frame <= 0 || !(timeScale > 0) {
		return 0
	}

	scaled := time.Duration(float64(frame) * timeScale)
	if c.MaxFrame > 0 && scaled > c.MaxFrame {
		scaled = c.MaxFrame
	}

	c.debt += scaled
	steps := c.debt / c.Step
	c.debt -= steps * c.Step
	return int(steps)
}

// Alpha is the fraction of a step accumulated in the debt, for render
// interpolation between the previous and the current transform.
func (c *Clock) Alpha() float64 {
	if c.Step <= 0 {
		return 0
	}
	return float64(c.debt) / float64(c.Step)
}

// Debt returns the time not yet simulated.
func (c *Clock) Debt() time.Duration {
	return c.debt
}
