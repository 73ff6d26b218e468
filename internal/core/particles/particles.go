// Package particles simulates the cosmetic sparks emitted on collisions and
// points. Particles never feed back into the physics.
package particles

import (
	"iter"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/zeusync/ultrapong/internal/core/math3d"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
	"github.com/zeusync/ultrapong/internal/core/theme"
)

const (
	DefaultMaxParticles = 2048

	WallBurst   = 20
	PaddleBurst = 30
	ScoreBurst  = 100

	maxSpeed = 10
	minLife  = 0.5
	lifeSpan = 1
)

type Particle struct {
	Position math3d.Vec2 `json:"position"`
	Velocity math3d.Vec2 `json:"velocity"`
	Life     float32     `json:"life"`
	Color    theme.RGB   `json:"color"`
}

// Alpha fades a particle out over its last half second.
func (p Particle) Alpha() float32 {
	return math32.Max(0, math32.Min(1, 2*p.Life))
}

// Emitter owns a pool of live particles. Not safe for concurrent use.
type Emitter struct {
	particles []Particle
	rng       *rand.Rand
	max       int
}

// NewEmitter returns an emitter whose bursts are reproducible for a seed.
// A non-positive limit uses DefaultMaxParticles.
func NewEmitter(seed uint64, limit int) *Emitter {
	if limit <= 0 {
		limit = DefaultMaxParticles
	}
	return &Emitter{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		max: limit,
	}
}

// Burst spawns up to count particles at pos with colours between a and b.
// It returns how many were spawned; the pool never grows past its cap.
func (e *Emitter) Burst(pos math3d.Vec2, count int, a, b theme.RGB) int {
	if room := e.max - len(e.particles); count > room {
		count = room
	}
	for i := 0; i < count; i++ {
		e.particles = append(e.particles, Particle{
			Position: pos,
			Velocity: math3d.V2(e.spread(maxSpeed), e.spread(maxSpeed)),
			Life:     minLife + e.rng.Float32()*lifeSpan,
			Color:    a.Lerp(b, e.rng.Float32()),
		})
	}
	return max(count, 0)
}

// spread returns a value in [-r, r).
func (e *Emitter) spread(r float32) float32 {
	return (e.rng.Float32()*2 - 1) * r
}

// Update integrates every particle and drops the expired ones in place.
func (e *Emitter) Update(dt float32) {
	live := e.particles[:0]
	for _, p := range e.particles {
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Life -= dt
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	clear(e.particles[len(live):])
	e.particles = live
}

func (e *Emitter) Len() int { return len(e.particles) }

func (e *Emitter) All() iter.Seq[Particle] {
	return func(yield func(Particle) bool) {
		for _, p := range e.particles {
			if !yield(p) {
				return
			}
		}
	}
}

// Snapshot copies the live particles.
func (e *Emitter) Snapshot() []Particle {
	return append([]Particle(nil), e.particles...)
}

func (e *Emitter) Reset() {
	e.particles = e.particles[:0]
}

// BurstFor spawns the burst matching a physics event. Points burst in the
// middle of the half that conceded.
func (e *Emitter) BurstFor(ev physics.Event, court physics.Court, palette theme.Theme) int {
	switch ev.Kind {
	case physics.EventWallHit:
		return e.Burst(ev.Position, WallBurst, palette.Particle1, palette.Particle2)
	case physics.EventPaddleHit:
		return e.Burst(ev.Position, PaddleBurst, palette.Particle1, palette.Particle2)
	case physics.EventScored:
		x := court.Width / 4
		if ev.Side == physics.Left {
			x = 3 * court.Width / 4
		}
		return e.Burst(math3d.V2(x, court.Height/2), ScoreBurst, palette.Particle1, palette.Particle2)
	}
	return 0
}
