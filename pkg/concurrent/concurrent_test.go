package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ultrapong/pkg/sequence"
)

func TestConcurrentRunsEveryElement(t *testing.T) {
	var sum atomic.Int64
	err := Concurrent(context.Background(), sequence.From([]int{1, 2, 3, 4}), 0, func(_ context.Context, v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestConcurrentLimit(t *testing.T) {
	var running, peak atomic.Int32
	err := Concurrent(context.Background(), sequence.From(make([]int, 16)), 2, func(context.Context, int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestConcurrentCancelsOnError(t *testing.T) {
	boom := errors.New("boom")
	err := Concurrent(context.Background(), sequence.From([]int{1, 2, 3}), 1, func(ctx context.Context, v int) error {
		if v == 1 {
			return boom
		}
		return ctx.Err()
	})
	require.ErrorIs(t, err, boom)
}
