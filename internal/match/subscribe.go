package match

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
)

// Subscription receives every snapshot published after it was created. A
// subscriber that falls behind by more than its buffer misses snapshots
// rather than stalling the match.
type Subscription struct {
	id      string
	c       chan Snapshot
	dropped uint64 // atomic
	once    sync.Once
	cancel  func()
}

func (s *Subscription) ID() string { return s.id }

// C delivers snapshots. It is closed after Cancel.
func (s *Subscription) C() <-chan Snapshot { return s.c }

// Dropped counts snapshots skipped because the buffer was full.
func (s *Subscription) Dropped() uint64 { return atomic.LoadUint64(&s.dropped) }

func (s *Subscription) Cancel() { s.once.Do(s.cancel) }

// Subscribe registers a new snapshot subscriber with the given buffer size.
func (r *Runner) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	sub := &Subscription{
		id: uuid.NewString(),
		c:  make(chan Snapshot, buffer),
	}
	sub.cancel = func() {
		r.subsMu.Lock()
		delete(r.subs, sub.id)
		close(sub.c)
		r.subsMu.Unlock()
	}

	r.subsMu.Lock()
	r.subs[sub.id] = sub
	r.subsMu.Unlock()

	r.logger.Debug("Snapshot subscriber added", log.String("subscriber", sub.id), log.Int("buffer", buffer))
	return sub
}

func (r *Runner) Subscribers() int {
	r.subsMu.RLock()
	defer r.subsMu.RUnlock()
	return len(r.subs)
}

func (r *Runner) publish(snap Snapshot) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	r.latest = snap
	for _, sub := range r.subs {
		select {
		case sub.c <- snap:
		default:
			atomic.AddUint64(&sub.dropped, 1)
		}
	}
}
