package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/match"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub(4, 0, log.Nop())
	a, err := h.Join("websocket")
	require.NoError(t, err)
	b, err := h.Join("quic")
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, h.Broadcast(match.Snapshot{MatchID: "m", Tick: 7}))

	for _, s := range []*Spectator{a, b} {
		frame := <-s.Frames()
		var snap match.Snapshot
		require.NoError(t, json.Unmarshal(frame, &snap))
		assert.Equal(t, uint64(7), snap.Tick)
	}
	assert.Equal(t, uint64(1), h.Metrics().Broadcasts)
	assert.Equal(t, uint64(2), h.Metrics().Joined)
}

func TestHubLateJoinerGetsLatest(t *testing.T) {
	h := NewHub(4, 0, log.Nop())
	assert.Nil(t, h.Latest())

	require.NoError(t, h.Broadcast(match.Snapshot{Tick: 3}))
	s, err := h.Join("websocket")
	require.NoError(t, err)

	select {
	case frame := <-s.Frames():
		assert.Equal(t, h.Latest(), frame)
	default:
		t.Fatal("late joiner received nothing")
	}
}

func TestHubDropsSlowSpectators(t *testing.T) {
	h := NewHub(1, 0, log.Nop())
	slow, err := h.Join("websocket")
	require.NoError(t, err)

	require.NoError(t, h.Broadcast(match.Snapshot{Tick: 1}))
	require.NoError(t, h.Broadcast(match.Snapshot{Tick: 2}))

	assert.Zero(t, h.Len())
	assert.Equal(t, uint64(1), h.Metrics().Dropped)

	<-slow.Frames()
	_, open := <-slow.Frames()
	assert.False(t, open)
	require.ErrorIs(t, h.Leave(slow.ID), ErrSpectatorNotFound)
}

func TestHubLimit(t *testing.T) {
	h := NewHub(1, 1, log.Nop())
	s, err := h.Join("websocket")
	require.NoError(t, err)

	_, err = h.Join("quic")
	require.ErrorIs(t, err, ErrMaxSpectatorsReached)

	require.NoError(t, h.Leave(s.ID))
	_, err = h.Join("quic")
	require.NoError(t, err)
}

func TestHubRunClosesSpectators(t *testing.T) {
	h := NewHub(4, 0, log.Nop())
	s, err := h.Join("websocket")
	require.NoError(t, err)

	snapshots := make(chan match.Snapshot, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx, snapshots)
		close(done)
	}()

	snapshots <- match.Snapshot{Tick: 1}
	select {
	case <-s.Frames():
	case <-time.After(time.Second):
		t.Fatal("snapshot not broadcast")
	}

	cancel()
	<-done
	_, open := <-s.Frames()
	assert.False(t, open)
	assert.Zero(t, h.Len())
}
