package physics

import (
	"iter"

	"github.com/zeusync/ultrapong/internal/core/math3d"
	"github.com/zeusync/ultrapong/pkg/sequence"
)

type EventKind uint8

const (
	EventWallHit EventKind = iota + 1
	EventPaddleHit
	EventScored
)

func (k EventKind) String() string {
	switch k {
	case EventWallHit:
		return "wall_hit"
	case EventPaddleHit:
		return "paddle_hit"
	case EventScored:
		return "scored"
	default:
		return "unknown"
	}
}

// Wall names the horizontal court edge a WallHit bounced off.
type Wall uint8

const (
	WallNone Wall = iota
	WallTop
	WallBottom
)

// Event is a tagged record of something that happened during one tick.
//
//   - EventWallHit: Wall is set, Position is the clamped contact point.
//   - EventPaddleHit: Side is the paddle that was hit, Speed the ball speed after clamping.
//   - EventScored: Side is the player who scored, Scores the totals after the point.
type Event struct {
	Kind     EventKind   `json:"kind"`
	Side     Side        `json:"side"`
	Wall     Wall        `json:"wall,omitempty"`
	Position math3d.Vec2 `json:"position"`
	Speed    float32     `json:"speed"`
	Scores   [2]int      `json:"scores"`
}

// Events is the finite, ordered output of one tick.
type Events []Event

// All returns a lazy sequence over the events.
func (e Events) All() iter.Seq[Event] { return e.Iter().Seq() }

// Iter wraps the events in a chainable iterator.
func (e Events) Iter() *sequence.Iterator[Event] { return sequence.From(e) }

// Count returns how many events of the given kind were emitted.
func (e Events) Count(kind EventKind) int {
	return e.Iter().Filter(func(ev Event) bool { return ev.Kind == kind }).Count()
}
