package physics

import "github.com/zeusync/ultrapong/internal/core/math3d"

// Side identifies a player. It doubles as the index into GameState.Paddles
// and GameState.Scores.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) Opponent() Side { return 1 - s }

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Phase is the resting state of the serve/rally cycle. A point being scored is
// not a resting state: the tick that scores emits EventScored and leaves the
// game Serving again.
type Phase uint8

const (
	PhaseServing Phase = iota
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseServing:
		return "serving"
	case PhasePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

type BallState struct {
	Position math3d.Vec2 `json:"position"`
	Velocity math3d.Vec2 `json:"velocity"`
	Radius   float32     `json:"radius"`
}

type PaddleState struct {
	CenterY    float32 `json:"center_y"`
	HalfHeight float32 `json:"half_height"`
}

// Top and Bottom return the paddle's vertical extent.
func (p PaddleState) Top() float32    { return p.CenterY - p.HalfHeight }
func (p PaddleState) Bottom() float32 { return p.CenterY + p.HalfHeight }

// GameState is the single authoritative state of a session. It is a plain
// value: Update takes a copy and returns the next one.
type GameState struct {
	Phase            Phase          `json:"phase"`
	Ball             BallState      `json:"ball"`
	Paddles          [2]PaddleState `json:"paddles"`
	Scores           [2]int         `json:"scores"`
	Paused           bool           `json:"paused"`
	TimeSinceLastHit float32        `json:"time_since_last_hit"`
	ServeTimer       float32        `json:"serve_timer"`
	// Serves counts serves so far; with Seed it picks each serve's angle.
	Serves uint64 `json:"serves"`
	Seed   uint64 `json:"seed"`
}

// NewGame returns a fresh session waiting to serve toward the right player.
func NewGame(court Court, seed uint64) GameState {
	center := court.Height / 2
	s := GameState{
		Seed: seed,
		Paddles: [2]PaddleState{
			{CenterY: center, HalfHeight: court.PaddleHalfHeight},
			{CenterY: center, HalfHeight: court.PaddleHalfHeight},
		},
	}
	return serve(court, s, Right)
}

// Input is what the host polled for one tick.
type Input struct {
	Paddles [2]PaddleInput `json:"paddles"`
}

// PaddleInput is a movement axis in [-1, 1]; negative moves up (towards y = 0).
type PaddleInput struct {
	Axis float32 `json:"axis"`
}
