// Package ai drives a paddle for an absent player.
package ai

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/chewxy/math32"

	"github.com/zeusync/ultrapong/internal/core/systems/physics"
)

const (
	// DeadZone is the distance from the target, in court units, within which
	// the bot holds still.
	DeadZone = 4
	// awayDrift scales the return to centre while the ball travels away.
	awayDrift = 0.2
)

// Bot steers one paddle. Reaction in (0,1] caps its speed as a fraction of
// the paddle speed; below 1 it can be beaten.
type Bot struct {
	Side     physics.Side
	Reaction float32
}

func New(side physics.Side, reaction float32) Bot {
	return Bot{Side: side, Reaction: reaction}
}

// Axis returns the paddle input for this tick. The bot aims at the court
// centre while the ball is far away and at the ball, plus a per-serve aim
// error, as it closes in. It only drifts back to centre while the ball moves
// away. The result depends only on its arguments.
func (b Bot) Axis(court physics.Court, state physics.GameState) float32 {
	paddle := state.Paddles[b.Side]
	ball := state.Ball
	center := court.Height / 2

	var diff float32
	if b.approaching(court, ball.Velocity.X) {
		paddleX := court.PaddleInset
		if b.Side == physics.Right {
			paddleX = court.Width - court.PaddleInset
		}
		far := math32.Min(1, math32.Abs(ball.Position.X-paddleX)/(court.Width/2))
		target := far*center + (1-far)*(ball.Position.Y+b.aimError(court, state))
		diff = target - paddle.CenterY
	} else {
		diff = (center - paddle.CenterY) * awayDrift
	}

	if math32.Abs(diff) < DeadZone {
		return 0
	}
	reaction := math32.Max(0, math32.Min(1, b.Reaction))
	axis := diff / paddle.HalfHeight
	return math32.Max(-reaction, math32.Min(reaction, axis))
}

func (b Bot) approaching(court physics.Court, vx float32) bool {
	if b.Side == physics.Left {
		return vx < 0
	}
	return vx > 0
}

// aimError is a reproducible offset within half a paddle, fixed for a serve.
func (b Bot) aimError(court physics.Court, state physics.GameState) float32 {
	var buf [17]byte
	binary.LittleEndian.PutUint64(buf[:8], state.Seed)
	binary.LittleEndian.PutUint64(buf[8:16], state.Serves)
	buf[16] = byte(b.Side)
	unit := float32(xxhash.Sum64(buf[:])>>40)/(1<<24)*2 - 1
	return unit * court.PaddleHalfHeight * (1 - b.Reaction) * 0.5
}

// Input fills in the paddle axis for every enabled bot, leaving other sides
// as given.
func Input(court physics.Court, state physics.GameState, in physics.Input, bots ...Bot) physics.Input {
	for _, b := range bots {
		in.Paddles[b.Side].Axis = b.Axis(court, state)
	}
	return in
}
