// Package match hosts one Pong match: it owns the game state, ticks the
// physics at a fixed rate and fans snapshots out to subscribers.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/ultrapong/internal/config"
	"github.com/zeusync/ultrapong/internal/core/ai"
	"github.com/zeusync/ultrapong/internal/core/events/bus"
	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/core/particles"
	"github.com/zeusync/ultrapong/internal/core/sfx"
	"github.com/zeusync/ultrapong/internal/core/systems"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
	"github.com/zeusync/ultrapong/internal/core/theme"
)

var (
	ErrMatchOver      = errors.New("match is over")
	ErrAlreadyRunning = errors.New("match is already running")
)

// Runner owns the single GameState of a match. Tick and Run must be called
// from one goroutine; Latest, Subscribe and SetInput are safe from any.
type Runner struct {
	id     string
	court  physics.Court
	cfg    config.Match
	logger log.Log

	state physics.GameState
	tick  uint64
	over  bool

	bots      []ai.Bot
	bus       bus.EventBus
	scheduler *systems.Scheduler
	emitter   *particles.Emitter
	themes    *theme.Cycle
	cues      *cueSystem

	inputMu sync.Mutex
	input   physics.Input

	running int32 // atomic bool

	subsMu sync.RWMutex
	subs   map[string]*Subscription
	latest Snapshot
}

// New builds a runner for cfg. A nil eventBus gets a private bus.
func New(cfg config.Config, logger log.Log, eventBus bus.EventBus) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	themes, err := theme.NewCycle(cfg.Themes)
	if err != nil {
		return nil, err
	}
	if eventBus == nil {
		eventBus = bus.New()
	}

	id := uuid.NewString()
	r := &Runner{
		id:        id,
		court:     cfg.Court,
		cfg:       cfg.Match,
		logger:    logger.With(log.String("component", "match"), log.String("match_id", id)),
		state:     physics.NewGame(cfg.Court, cfg.Match.Seed),
		bus:       eventBus,
		scheduler: systems.NewScheduler(),
		emitter:   particles.NewEmitter(cfg.Match.Seed, particles.DefaultMaxParticles),
		themes:    themes,
		subs:      make(map[string]*Subscription),
	}
	for side, b := range cfg.Match.Bots {
		if b.Enabled {
			r.bots = append(r.bots, ai.New(physics.Side(side), b.Reaction))
		}
	}

	r.cues = newCueSystem(sfx.DefaultBank(), r.logger)
	for _, sys := range []systems.System{
		systems.NewFunc("events", systems.PriorityHighest, r.publishEvents),
		&particleSystem{emitter: r.emitter, themes: themes},
		r.cues,
		&themeSystem{themes: themes, every: cfg.Match.ThemeEvery, logger: r.logger},
	} {
		if err := r.scheduler.Register(sys); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.Match.DisabledSystems {
		if err := r.scheduler.SetEnabled(name, false); err != nil {
			return nil, fmt.Errorf("%w: match.disabled_systems: %w", config.ErrInvalidConfig, err)
		}
	}
	r.logger.Debug("Systems scheduled",
		log.Int("count", r.scheduler.Len()),
		log.String("order", strings.Join(r.scheduler.ExecutionOrder(), ",")),
		log.String("disabled", strings.Join(cfg.Match.DisabledSystems, ",")))
	r.scheduler.OnError(func(name string, err error) {
		r.logger.Warn("System update failed", log.String("system", name), log.Error(err))
	})

	if _, err := eventBus.Subscribe(bus.TypeScored, bus.PhysicsHandler(r.onScored)); err != nil {
		return nil, err
	}

	r.latest = r.snapshot(nil)
	return r, nil
}

func (r *Runner) ID() string { return r.id }

// Scheduler exposes the per-tick systems so hosts can add their own.
func (r *Runner) Scheduler() *systems.Scheduler { return r.scheduler }

// SetInput sets the paddle axis of a side not driven by a bot.
func (r *Runner) SetInput(side physics.Side, axis float32) {
	r.inputMu.Lock()
	r.input.Paddles[side].Axis = axis
	r.inputMu.Unlock()
}

// Tick advances the match by dt seconds and publishes the result. After the
// match is over it returns ErrMatchOver and the last snapshot.
func (r *Runner) Tick(dt float32) (Snapshot, error) {
	if r.over {
		return r.Latest(), ErrMatchOver
	}

	r.inputMu.Lock()
	input := r.input
	r.inputMu.Unlock()
	input = ai.Input(r.court, r.state, input, r.bots...)

	var events physics.Events
	r.state, events = physics.Update(r.court, r.state, dt, input)
	r.tick++

	frame := &systems.Frame{Tick: r.tick, Court: r.court, State: r.state, Events: events}
	err := r.scheduler.Update(dt, frame)

	if winner, ok := r.winner(); ok {
		r.over = true
		r.logger.Info("Match over",
			log.Stringer("winner", winner),
			log.Int("left", r.state.Scores[physics.Left]),
			log.Int("right", r.state.Scores[physics.Right]),
			log.Uint64("ticks", r.tick))
		r.logSystemMetrics()
	}

	snap := r.snapshot(events)
	r.publish(snap)
	return snap, err
}

// publishEvents forwards the tick's physics events to the bus.
func (r *Runner) publishEvents(_ float32, frame *systems.Frame) error {
	if len(frame.Events) == 0 {
		return nil
	}
	return r.bus.PublishBatch(bus.FromPhysics(r.id, frame.Tick, time.Now(), frame.Events)...)
}

func (r *Runner) logSystemMetrics() {
	for _, name := range r.scheduler.ExecutionOrder() {
		m, ok := r.scheduler.Metrics(name)
		if !ok {
			continue
		}
		r.logger.Debug("System metrics",
			log.String("system", name),
			log.Uint64("runs", m.ExecutionCount),
			log.Uint64("errors", m.ErrorCount),
			log.Duration("avg", m.AverageExecutionTime),
			log.Duration("max", m.MaxExecutionTime))
	}
}

// Run ticks at the configured rate until ctx is cancelled or a side reaches
// MaxScore. Every tick advances the simulation by exactly 1/TickRate.
func (r *Runner) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&r.running, 0, 1) {
		return ErrAlreadyRunning
	}
	defer atomic.StoreInt32(&r.running, 0)

	interval := time.Second / time.Duration(r.cfg.TickRate)
	dt := float32(1) / float32(r.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("Match started",
		log.Int("tick_rate", r.cfg.TickRate),
		log.Int("max_score", r.cfg.MaxScore),
		log.Uint64("seed", r.cfg.Seed),
		log.Int("bots", len(r.bots)))
	for side, b := range r.cfg.Bots {
		if !b.Enabled {
			r.logger.Warn("Side has no bot and moves only through SetInput", log.Stringer("side", physics.Side(side)))
		}
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Match stopped", log.Uint64("ticks", r.tick))
			return nil
		case <-ticker.C:
			if _, err := r.Tick(dt); err != nil {
				if errors.Is(err, ErrMatchOver) {
					return nil
				}
				r.logger.Warn("Tick completed with errors", log.Error(err))
			}
			if r.over {
				return nil
			}
		}
	}
}

// Latest returns the most recent snapshot.
func (r *Runner) Latest() Snapshot {
	r.subsMu.RLock()
	defer r.subsMu.RUnlock()
	return r.latest
}

// State returns a copy of the current game state. Call from the ticking
// goroutine only.
func (r *Runner) State() physics.GameState { return r.state }

func (r *Runner) Over() bool { return r.over }

// Cues reports how many sound cues each event kind has triggered.
func (r *Runner) Cues() map[physics.EventKind]uint64 { return r.cues.Counts() }

func (r *Runner) winner() (physics.Side, bool) {
	if r.cfg.MaxScore <= 0 {
		return 0, false
	}
	for side := physics.Left; side <= physics.Right; side++ {
		if r.state.Scores[side] >= r.cfg.MaxScore {
			return side, true
		}
	}
	return 0, false
}

func (r *Runner) onScored(ev bus.MatchEvent) error {
	r.logger.Info("Point scored",
		log.Stringer("scorer", ev.Event.Side),
		log.Int("left", ev.Event.Scores[physics.Left]),
		log.Int("right", ev.Event.Scores[physics.Right]),
		log.Uint64("tick", ev.Tick))
	return nil
}

func (r *Runner) snapshot(events physics.Events) Snapshot {
	s := Snapshot{
		MatchID:   r.id,
		Tick:      r.tick,
		Phase:     r.state.Phase.String(),
		Ball:      r.state.Ball,
		Paddles:   r.state.Paddles,
		Scores:    r.state.Scores,
		Events:    append(physics.Events(nil), events...),
		Theme:     r.themes.Current(),
		Particles: r.emitter.Snapshot(),
		Over:      r.over,
		Checksum:  Checksum(r.state),
	}
	if winner, ok := r.winner(); ok {
		s.Winner = winner.String()
	}
	return s
}
