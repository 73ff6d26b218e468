package bus

import (
	"time"

	"github.com/zeusync/ultrapong/internal/core/systems/physics"
)

// Event types published for physics events.
const (
	TypeWallHit   = "match.wall_hit"
	TypePaddleHit = "match.paddle_hit"
	TypeScored    = "match.scored"
)

// TypeOf maps a physics event kind to its bus event type.
func TypeOf(kind physics.EventKind) string {
	switch kind {
	case physics.EventWallHit:
		return TypeWallHit
	case physics.EventPaddleHit:
		return TypePaddleHit
	case physics.EventScored:
		return TypeScored
	default:
		return "match.unknown"
	}
}

// MatchEvent carries one physics event of a match through the bus.
type MatchEvent struct {
	MatchID string
	Tick    uint64
	At      time.Time
	Event   physics.Event
}

func (e MatchEvent) Type() string         { return TypeOf(e.Event.Kind) }
func (e MatchEvent) Source() string       { return e.MatchID }
func (e MatchEvent) Timestamp() time.Time { return e.At }
func (e MatchEvent) Data() any            { return e.Event }

// FromPhysics wraps every event of one tick for publishing.
func FromPhysics(matchID string, tick uint64, at time.Time, events physics.Events) []Event {
	out := make([]Event, 0, len(events))
	for ev := range events.All() {
		out = append(out, MatchEvent{MatchID: matchID, Tick: tick, At: at, Event: ev})
	}
	return out
}

// PhysicsHandler adapts a typed handler; events of other shapes are ignored.
func PhysicsHandler(fn func(MatchEvent) error) EventHandler {
	return func(event Event) error {
		me, ok := event.(MatchEvent)
		if !ok {
			return nil
		}
		return fn(me)
	}
}
