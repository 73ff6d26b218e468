package match

import (
	"sync"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/core/particles"
	"github.com/zeusync/ultrapong/internal/core/sfx"
	"github.com/zeusync/ultrapong/internal/core/systems"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
	"github.com/zeusync/ultrapong/internal/core/theme"
)

// particleSystem spawns a burst per event and ages the live sparks.
type particleSystem struct {
	emitter *particles.Emitter
	themes  *theme.Cycle
}

func (s *particleSystem) Name() string               { return "particles" }
func (s *particleSystem) Priority() systems.Priority { return systems.PriorityHigh }

func (s *particleSystem) Update(dt float32, frame *systems.Frame) error {
	palette := s.themes.Current()
	for ev := range frame.Events.All() {
		s.emitter.BurstFor(ev, frame.Court, palette)
	}
	s.emitter.Update(dt)
	return nil
}

// cueSystem resolves the sound cue of every event. A headless host has no
// audio device, so cues are counted and traced instead of played.
type cueSystem struct {
	bank   *sfx.Bank
	logger log.Log

	mu     sync.Mutex
	counts map[physics.EventKind]uint64
}

func newCueSystem(bank *sfx.Bank, logger log.Log) *cueSystem {
	return &cueSystem{
		bank:   bank,
		logger: logger,
		counts: make(map[physics.EventKind]uint64),
	}
}

func (s *cueSystem) Name() string               { return "sfx" }
func (s *cueSystem) Priority() systems.Priority { return systems.PriorityLow }

func (s *cueSystem) Update(_ float32, frame *systems.Frame) error {
	for ev := range frame.Events.All() {
		cue, ok := s.bank.Cue(ev)
		if !ok {
			continue
		}
		s.mu.Lock()
		s.counts[ev.Kind]++
		s.mu.Unlock()
		s.logger.Debug("Sound cue",
			log.Stringer("kind", ev.Kind),
			log.Int("samples", cue.Len()),
			log.Uint64("tick", frame.Tick))
	}
	return nil
}

func (s *cueSystem) Counts() map[physics.EventKind]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[physics.EventKind]uint64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// themeSystem rotates the palette every n points.
type themeSystem struct {
	themes *theme.Cycle
	every  int
	logger log.Log
}

func (s *themeSystem) Name() string               { return "theme" }
func (s *themeSystem) Priority() systems.Priority { return systems.PriorityLowest }

func (s *themeSystem) Update(_ float32, frame *systems.Frame) error {
	if s.every <= 0 {
		return nil
	}
	for ev := range frame.Events.All() {
		if ev.Kind != physics.EventScored {
			continue
		}
		if total := ev.Scores[0] + ev.Scores[1]; total%s.every == 0 {
			next := s.themes.Next()
			s.logger.Info("Theme changed",
				log.String("theme", next.Name),
				log.Int("points", total))
		}
	}
	return nil
}
