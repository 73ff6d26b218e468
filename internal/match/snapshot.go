package match

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/ultrapong/internal/core/particles"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
	"github.com/zeusync/ultrapong/internal/core/theme"
)

// Snapshot is an immutable copy of a match after one tick, safe to hand to
// other goroutines.
type Snapshot struct {
	MatchID   string                 `json:"match_id"`
	Tick      uint64                 `json:"tick"`
	Phase     string                 `json:"phase"`
	Ball      physics.BallState      `json:"ball"`
	Paddles   [2]physics.PaddleState `json:"paddles"`
	Scores    [2]int                 `json:"scores"`
	Events    physics.Events         `json:"events,omitempty"`
	Theme     theme.Theme            `json:"theme"`
	Particles []particles.Particle   `json:"particles,omitempty"`
	Over      bool                   `json:"over"`
	Winner    string                 `json:"winner,omitempty"`
	Checksum  uint64                 `json:"checksum"`
}

// wireState is the fixed-size image of a GameState that Checksum hashes.
type wireState struct {
	Phase            uint8
	BallX, BallY     float32
	BallVX, BallVY   float32
	Paddles          [2]float32
	Scores           [2]int64
	TimeSinceLastHit float32
	ServeTimer       float32
	Serves           uint64
	Seed             uint64
}

// Checksum hashes the simulation-relevant part of a state. Two runs with the
// same seed, config and inputs produce the same checksum at every tick.
func Checksum(s physics.GameState) uint64 {
	w := wireState{
		Phase:            uint8(s.Phase),
		BallX:            s.Ball.Position.X,
		BallY:            s.Ball.Position.Y,
		BallVX:           s.Ball.Velocity.X,
		BallVY:           s.Ball.Velocity.Y,
		Paddles:          [2]float32{s.Paddles[0].CenterY, s.Paddles[1].CenterY},
		Scores:           [2]int64{int64(s.Scores[0]), int64(s.Scores[1])},
		TimeSinceLastHit: s.TimeSinceLastHit,
		ServeTimer:       s.ServeTimer,
		Serves:           s.Serves,
		Seed:             s.Seed,
	}
	d := xxhash.New()
	// Writes to a hash digest cannot fail and wireState is fixed size.
	_ = binary.Write(d, binary.LittleEndian, &w)
	return d.Sum64()
}
