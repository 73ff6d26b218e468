package physics

import (
	"errors"
	"fmt"
)

// Court holds the constants of one playing field. Every length is in court
// units (pixels on the reference display) and every time in seconds.
type Court struct {
	Width  float32 `yaml:"width" json:"width"`
	Height float32 `yaml:"height" json:"height"`

	PaddleSpeed      float32 `yaml:"paddle_speed" json:"paddle_speed"`
	PaddleHalfHeight float32 `yaml:"paddle_half_height" json:"paddle_half_height"`
	// PaddleInset is the gap between a court edge and the back of its paddle.
	PaddleInset float32 `yaml:"paddle_inset" json:"paddle_inset"`
	// PaddleDepth is the thickness of the band in which the ball can touch a paddle.
	PaddleDepth float32 `yaml:"paddle_depth" json:"paddle_depth"`

	BallRadius       float32 `yaml:"ball_radius" json:"ball_radius"`
	InitialBallSpeed float32 `yaml:"initial_ball_speed" json:"initial_ball_speed"`
	// BallAcceleration scales the horizontal speed on every paddle hit. Must be > 1.
	BallAcceleration float32 `yaml:"ball_acceleration" json:"ball_acceleration"`
	MaxBallSpeed     float32 `yaml:"max_ball_speed" json:"max_ball_speed"`
	// DeflectionFactor turns a hit ratio into vertical speed as a fraction of PaddleSpeed.
	DeflectionFactor float32 `yaml:"deflection_factor" json:"deflection_factor"`

	ServeDelay  float32 `yaml:"serve_delay" json:"serve_delay"`
	ServeSpread float32 `yaml:"serve_spread" json:"serve_spread"`

	PulseAmplitude float32 `yaml:"pulse_amplitude" json:"pulse_amplitude"`
	PulseFrequency float32 `yaml:"pulse_frequency" json:"pulse_frequency"`
}

// DefaultCourt returns the Ultra Pong constants.
func DefaultCourt() Court {
	return Court{
		Width:            1280,
		Height:           720,
		PaddleSpeed:      800,
		PaddleHalfHeight: 60,
		PaddleInset:      20,
		PaddleDepth:      10,
		BallRadius:       10,
		InitialBallSpeed: 400,
		BallAcceleration: 1.05,
		MaxBallSpeed:     1200,
		DeflectionFactor: 0.8,
		ServeDelay:       1,
		ServeSpread:      0.5,
		PulseAmplitude:   5,
		PulseFrequency:   10,
	}
}

var ErrInvalidCourt = errors.New("invalid court")

// Validate reports the first constant that would break the simulation invariants.
func (c Court) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: dimensions must be positive, got %gx%g", ErrInvalidCourt, c.Width, c.Height)
	case c.PaddleHalfHeight <= 0 || 2*c.PaddleHalfHeight > c.Height:
		return fmt.Errorf("%w: paddle half height %g does not fit court height %g", ErrInvalidCourt, c.PaddleHalfHeight, c.Height)
	case c.PaddleInset < 0 || c.PaddleDepth <= 0 || 2*(c.PaddleInset+c.PaddleDepth) >= c.Width:
		return fmt.Errorf("%w: paddle band (inset %g, depth %g) does not fit court width %g", ErrInvalidCourt, c.PaddleInset, c.PaddleDepth, c.Width)
	case c.PaddleSpeed <= 0:
		return fmt.Errorf("%w: paddle speed must be positive", ErrInvalidCourt)
	case c.InitialBallSpeed <= 0:
		return fmt.Errorf("%w: initial ball speed must be positive", ErrInvalidCourt)
	case c.BallAcceleration <= 1:
		return fmt.Errorf("%w: ball acceleration must be greater than 1, got %g", ErrInvalidCourt, c.BallAcceleration)
	case c.MaxBallSpeed < c.InitialBallSpeed:
		return fmt.Errorf("%w: max ball speed %g is below initial speed %g", ErrInvalidCourt, c.MaxBallSpeed, c.InitialBallSpeed)
	case c.ServeDelay < 0:
		return fmt.Errorf("%w: serve delay must not be negative", ErrInvalidCourt)
	case c.ServeSpread < 0 || c.ServeSpread > 1:
		return fmt.Errorf("%w: serve spread must be within [0, 1]", ErrInvalidCourt)
	case c.BallRadius < 0 || c.PulseAmplitude < 0 || c.PulseAmplitude > c.BallRadius:
		return fmt.Errorf("%w: ball radius %g with pulse %g", ErrInvalidCourt, c.BallRadius, c.PulseAmplitude)
	}
	return nil
}

// band returns the x range in which the ball touches the paddle on side s.
func (c Court) band(s Side) (minX, maxX float32) {
	if s == Left {
		return c.PaddleInset, c.PaddleInset + c.PaddleDepth
	}
	return c.Width - c.PaddleInset - c.PaddleDepth, c.Width - c.PaddleInset
}

// face returns the x coordinate of the paddle surface facing the court centre.
func (c Court) face(s Side) float32 {
	minX, maxX := c.band(s)
	if s == Left {
		return maxX
	}
	return minX
}
