package systems

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeusync/ultrapong/internal/core/systems/physics"
	"github.com/zeusync/ultrapong/pkg/sequence"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
)

// System is a per-tick processor that reacts to the result of a physics step.
type System interface {
	Name() string
	Priority() Priority
	Update(dt float32, frame *Frame) error
}

// Frame is what a tick hands to every system. Systems must not modify State.
type Frame struct {
	Tick   uint64
	Court  physics.Court
	State  physics.GameState
	Events physics.Events
}

// Priority defines execution order priority. Higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

func (m *Metrics) record(took time.Duration, at time.Time, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += took
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	m.MaxExecutionTime = max(m.MaxExecutionTime, took)
	if m.ExecutionCount == 1 || took < m.MinExecutionTime {
		m.MinExecutionTime = took
	}
	m.LastExecutionTime = at
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}

type entry struct {
	system  System
	enabled bool
	metrics Metrics
}

// Scheduler runs registered systems once per tick in descending priority.
// Systems with equal priority run in registration order. A failing system
// does not stop the others; Update joins their errors.
type Scheduler struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []*entry
	dirty   bool
	onError func(name string, err error)
}

func NewScheduler() *Scheduler {
	return &Scheduler{entries: make(map[string]*entry)}
}

func (s *Scheduler) Register(sys System) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[sys.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, sys.Name())
	}
	e := &entry{system: sys, enabled: true}
	s.entries[sys.Name()] = e
	s.order = append(s.order, e)
	s.dirty = true
	return nil
}

// SetEnabled switches a registered system on or off. Disabled systems keep
// their place in the order and their metrics.
func (s *Scheduler) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	e.enabled = enabled
	return nil
}

// OnError registers a callback invoked for every failed system update.
func (s *Scheduler) OnError(fn func(name string, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = fn
}

// Update runs every enabled system against frame.
func (s *Scheduler) Update(dt float32, frame *Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sort()

	var errs []error
	for _, e := range s.order {
		if !e.enabled {
			continue
		}
		start := time.Now()
		err := e.system.Update(dt, frame)
		e.metrics.record(time.Since(start), start, err)
		if err != nil {
			err = fmt.Errorf("system %s: %w", e.system.Name(), err)
			errs = append(errs, err)
			if s.onError != nil {
				s.onError(e.system.Name(), err)
			}
		}
	}
	return errors.Join(errs...)
}

// ExecutionOrder returns system names in the order Update runs them.
func (s *Scheduler) ExecutionOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort()
	names := make([]string, len(s.order))
	for i, e := range s.order {
		names[i] = e.system.Name()
	}
	return names
}

func (s *Scheduler) Metrics(name string) (Metrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[name]
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}

func (s *Scheduler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// sort re-orders by priority after a registration. Callers hold the lock.
func (s *Scheduler) sort() {
	if !s.dirty {
		return
	}
	pq := sequence.NewPriorityQueue[*entry]()
	for _, e := range s.order {
		pq.Enqueue(e, int(e.system.Priority()))
	}
	s.order = pq.Drain()
	s.dirty = false
}

// Func adapts a function into a System.
type Func struct {
	name     string
	priority Priority
	fn       func(dt float32, frame *Frame) error
}

func NewFunc(name string, priority Priority, fn func(dt float32, frame *Frame) error) *Func {
	return &Func{name: name, priority: priority, fn: fn}
}

func (f *Func) Name() string                          { return f.name }
func (f *Func) Priority() Priority                    { return f.priority }
func (f *Func) Update(dt float32, frame *Frame) error { return f.fn(dt, frame) }
