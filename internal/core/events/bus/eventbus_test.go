package bus

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
)

type testObserver struct {
	mu             sync.Mutex
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.mu.Lock()
	o.publishCount++
	o.mu.Unlock()
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ time.Duration) {
	o.mu.Lock()
	o.deliveredCount += handlers
	o.lastErr = err
	o.mu.Unlock()
}

func TestBasicPublishSubscribe(t *testing.T) {
	b := New()
	var got []any
	sub, err := b.Subscribe("test.event", func(e Event) error {
		got = append(got, e.Data())
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID())
	require.Equal(t, "test.event", sub.EventType())
	require.True(t, sub.IsActive())

	require.NoError(t, b.Publish(NewEvent("test.event", "tester", 123)))
	require.NoError(t, b.Publish(NewEvent("other.event", "tester", 456)))
	require.Equal(t, []any{123}, got)
}

func TestSubscribeNilHandler(t *testing.T) {
	_, err := New().Subscribe("x", nil)
	require.ErrorIs(t, err, ErrNilHandler)
}

func TestDeliveryOrderIncludesWildcards(t *testing.T) {
	b := New()
	var order []string
	_, _ = b.Subscribe("ev", func(Event) error { order = append(order, "first"); return nil })
	_, _ = b.SubscribeAll(func(Event) error { order = append(order, "all"); return nil })
	_, _ = b.Subscribe("ev", func(Event) error { order = append(order, "third"); return nil })

	require.NoError(t, b.Publish(NewEvent("ev", "src", nil)))
	require.Equal(t, []string{"first", "all", "third"}, order)

	order = nil
	require.NoError(t, b.Publish(NewEvent("other", "src", nil)))
	require.Equal(t, []string{"all"}, order)
}

func TestErrorsAreJoined(t *testing.T) {
	b := New()
	errA, errB := errors.New("a"), errors.New("b")
	calls := 0
	_, _ = b.Subscribe("x", func(Event) error { calls++; return errA })
	_, _ = b.Subscribe("x", func(Event) error { calls++; return errB })

	err := b.Publish(NewEvent("x", "src", nil))
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	require.Equal(t, 2, calls, "a failing handler must not stop delivery")

	err = b.PublishBatch(NewEvent("x", "src", nil), NewEvent("x", "src", nil))
	require.ErrorIs(t, err, errA)
	require.Equal(t, 6, calls)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	calls := 0
	sub, _ := b.Subscribe("x", func(Event) error { calls++; return nil })

	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel(), "cancel is idempotent")
	require.False(t, sub.IsActive())
	require.NoError(t, b.Publish(NewEvent("x", "src", nil)))
	require.NoError(t, b.Unsubscribe(nil))

	require.Equal(t, 1, calls)
}

func TestFiltersDropSilently(t *testing.T) {
	b := New()
	obs := &testObserver{}
	b.AddObserver(obs)
	calls := 0
	_, _ = b.Subscribe("x", func(Event) error { calls++; return nil })

	reject := func(Event) bool { return false }
	require.NoError(t, b.PublishWithFilters(NewEvent("x", "src", nil), reject))
	require.Zero(t, calls)
	require.Equal(t, uint64(1), b.GetMetrics().DroppedByFilters)
}

func TestObserverMetricsOptional(t *testing.T) {
	b := New()
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	_ = b.Publish(NewEvent("e", "s", nil))
	require.Zero(t, b.GetMetrics().Published, "metrics stay zero without observers")

	obs := &testObserver{}
	b.AddObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))

	m := b.GetMetrics()
	require.Equal(t, uint64(1), m.Published)
	require.Equal(t, uint64(1), m.DeliveredHandlers)
	require.Equal(t, uint64(1), m.SubscribersActive)
	require.Equal(t, 1, obs.publishCount)
	require.Equal(t, 1, obs.deliveredCount)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil))
	require.Equal(t, 1, obs.publishCount)
}

func TestConcurrentPublish(t *testing.T) {
	b := New()
	var mu sync.Mutex
	count := 0
	_, _ = b.Subscribe("c", func(Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = b.Publish(NewEvent("c", "src", j))
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 800, count)
}

func TestMatchEvents(t *testing.T) {
	b := New()
	var scored []MatchEvent
	_, _ = b.Subscribe(TypeScored, PhysicsHandler(func(e MatchEvent) error {
		scored = append(scored, e)
		return nil
	}))

	now := time.Now()
	events := physics.Events{
		{Kind: physics.EventWallHit, Wall: physics.WallTop},
		{Kind: physics.EventScored, Side: physics.Left, Scores: [2]int{1, 0}},
	}
	wrapped := FromPhysics("match-1", 9, now, events)
	require.Len(t, wrapped, 2)
	require.Equal(t, TypeWallHit, wrapped[0].Type())
	require.Equal(t, "match-1", wrapped[1].Source())

	require.NoError(t, b.PublishBatch(wrapped...))
	require.Len(t, scored, 1)
	require.Equal(t, uint64(9), scored[0].Tick)
	require.Equal(t, physics.Left, scored[0].Event.Side)

	// non-match events reaching a typed handler are ignored
	require.NoError(t, b.Publish(NewEvent(TypeScored, "other", "not a match event")))
	require.Len(t, scored, 1)
}
