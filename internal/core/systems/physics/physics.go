package physics

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/chewxy/math32"
	"github.com/zeusync/ultrapong/internal/core/math3d"
)

// Update advances state by dt seconds under input and reports what happened.
// It is a pure function of its arguments: the caller keeps the returned state
// and passes it back in on the next tick.
//
// Order within a tick: paddles move, the serve timer runs or the ball moves,
// walls are resolved, then paddles, then the court's left and right edges.
func Update(court Court, state GameState, dt float32, input Input) (GameState, Events) {
	var events Events

	for side := Left; side <= Right; side++ {
		state.Paddles[side] = movePaddle(court, state.Paddles[side], input.Paddles[side], dt)
	}

	switch state.Phase {
	case PhaseServing:
		state.ServeTimer += dt
		if state.ServeTimer >= court.ServeDelay-serveTolerance {
			state.Phase = PhasePlaying
			state.ServeTimer = 0
		}

	case PhasePlaying:
		state.TimeSinceLastHit += dt
		ball := &state.Ball
		from := ball.Position
		ball.Position = ball.Position.Add(ball.Velocity.Scale(dt))

		if ev, hit := bounceWalls(court, ball); hit {
			events = append(events, ev)
		}

		for side := Left; side <= Right; side++ {
			if ev, hit := bouncePaddle(court, ball, from, state.Paddles[side], side); hit {
				state.TimeSinceLastHit = 0
				events = append(events, ev)
			}
		}

		if scorer, out := outOfBounds(court, ball.Position.X); out {
			state.Scores[scorer]++
			events = append(events, Event{
				Kind:     EventScored,
				Side:     scorer,
				Position: ball.Position,
				Scores:   state.Scores,
			})
			state = serve(court, state, scorer.Opponent())
		}
	}

	state.Paused = state.Phase == PhaseServing
	state.Ball.Radius = court.BallRadius + court.PulseAmplitude*math32.Sin(state.TimeSinceLastHit*court.PulseFrequency)

	return state, events
}

func movePaddle(court Court, p PaddleState, in PaddleInput, dt float32) PaddleState {
	axis := clamp(in.Axis, -1, 1)
	p.HalfHeight = court.PaddleHalfHeight
	p.CenterY = clamp(p.CenterY+axis*court.PaddleSpeed*dt, p.HalfHeight, court.Height-p.HalfHeight)
	return p
}

func bounceWalls(court Court, ball *BallState) (Event, bool) {
	var wall Wall
	switch {
	case ball.Position.Y <= 0:
		wall = WallTop
		ball.Position.Y = 0
		ball.Velocity.Y = math32.Abs(ball.Velocity.Y)
	case ball.Position.Y >= court.Height:
		wall = WallBottom
		ball.Position.Y = court.Height
		ball.Velocity.Y = -math32.Abs(ball.Velocity.Y)
	default:
		return Event{}, false
	}

	return Event{
		Kind:     EventWallHit,
		Wall:     wall,
		Position: ball.Position,
		Speed:    ball.Velocity.Length(),
	}, true
}

// bouncePaddle tests the ball against the paddle on side. Only a ball moving
// toward the paddle can hit it. A ball that crossed the whole band during the
// tick is tested at the point where its path entered the band.
func bouncePaddle(court Court, ball *BallState, from math3d.Vec2, paddle PaddleState, side Side) (Event, bool) {
	if (side == Left && ball.Velocity.X >= 0) || (side == Right && ball.Velocity.X <= 0) {
		return Event{}, false
	}

	minX, maxX := court.band(side)
	x, y := ball.Position.X, ball.Position.Y
	if x < minX || x > maxX {
		lo, hi := math32.Min(from.X, x), math32.Max(from.X, x)
		if hi < minX || lo > maxX {
			return Event{}, false
		}
		entry := math32.Min(from.X, maxX)
		if side == Right {
			entry = math32.Max(from.X, minX)
		}
		y = clamp(from.Y+(entry-from.X)/(x-from.X)*(y-from.Y), 0, court.Height)
	}
	if y < paddle.Top() || y > paddle.Bottom() {
		return Event{}, false
	}

	vx := math32.Abs(ball.Velocity.X) * court.BallAcceleration
	if side == Right {
		vx = -vx
	}
	ball.Velocity = ClampSpeed(math3d.V2(vx, HitRatio(y, paddle)*court.PaddleSpeed*court.DeflectionFactor), court.MaxBallSpeed)
	ball.Position = math3d.V2(court.face(side), y)

	return Event{
		Kind:     EventPaddleHit,
		Side:     side,
		Position: ball.Position,
		Speed:    ball.Velocity.Length(),
	}, true
}

// outOfBounds reports who scores when the ball has left the court at x.
func outOfBounds(court Court, x float32) (Side, bool) {
	switch {
	case x < 0:
		return Right, true
	case x > court.Width:
		return Left, true
	}
	return 0, false
}

// serve centres the ball and aims it at receiver.
func serve(court Court, state GameState, receiver Side) GameState {
	vx := court.InitialBallSpeed
	if receiver == Left {
		vx = -vx
	}
	state.Phase = PhaseServing
	state.Paused = true
	state.ServeTimer = 0
	state.TimeSinceLastHit = 0
	state.Ball = BallState{
		Position: math3d.V2(court.Width/2, court.Height/2),
		Velocity: math3d.V2(vx, serveJitter(state.Seed, state.Serves)*court.ServeSpread*court.InitialBallSpeed),
		Radius:   court.BallRadius,
	}
	state.Serves++
	return state
}

// serveTolerance absorbs float32 rounding in the accumulated serve timer, so
// a hundred ticks of 0.01s reach a one second delay.
const serveTolerance = 1e-4

// serveJitter maps (seed, n) to a reproducible value in [-1, 1).
func serveJitter(seed, n uint64) float32 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], n)
	return float32(xxhash.Sum64(buf[:])>>40)/(1<<24)*2 - 1
}

// HitRatio is the normalised offset of y from the paddle centre, -1 at the
// top edge and +1 at the bottom edge.
func HitRatio(y float32, paddle PaddleState) float32 {
	if paddle.HalfHeight == 0 {
		return 0
	}
	return clamp((y-paddle.CenterY)/paddle.HalfHeight, -1, 1)
}

// ClampSpeed scales v down so its length does not exceed limit.
func ClampSpeed(v math3d.Vec2, limit float32) math3d.Vec2 {
	speed := v.Length()
	if speed <= limit || speed == 0 {
		return v
	}
	return v.Scale(limit / speed)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
