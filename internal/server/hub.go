package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/match"
	"github.com/zeusync/ultrapong/pkg/generic"
)

var encodeBuffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// Spectator is one connected viewer. Frames are JSON-encoded snapshots.
type Spectator struct {
	ID          string
	Transport   string
	ConnectedAt time.Time

	frames chan []byte
	once   sync.Once
}

// Frames delivers encoded snapshots. It is closed when the hub drops the
// spectator or the spectator leaves.
func (s *Spectator) Frames() <-chan []byte { return s.frames }

func (s *Spectator) close() { s.once.Do(func() { close(s.frames) }) }

// HubMetrics counts spectator traffic since the hub was created.
type HubMetrics struct {
	Spectators int    `json:"spectators"`
	Joined     uint64 `json:"joined"`
	Dropped    uint64 `json:"dropped"`
	Broadcasts uint64 `json:"broadcasts"`
}

// Hub fans snapshots out to spectators. A spectator whose buffer is full when
// a snapshot arrives is disconnected so that one slow viewer never holds back
// the others.
type Hub struct {
	mu         sync.RWMutex
	spectators map[string]*Spectator
	latest     []byte

	buffer int
	max    int
	logger log.Log

	joined     uint64 // atomic
	dropped    uint64 // atomic
	broadcasts uint64 // atomic
}

// NewHub creates a hub. buffer is the per-spectator queue length; limit caps
// concurrent spectators, 0 meaning unlimited.
func NewHub(buffer, limit int, logger log.Log) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		spectators: make(map[string]*Spectator),
		buffer:     buffer,
		max:        limit,
		logger:     logger.With(log.String("component", "hub")),
	}
}

// Join registers a spectator. The latest snapshot, if any, is queued at once.
func (h *Hub) Join(transport string) (*Spectator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.max > 0 && len(h.spectators) >= h.max {
		return nil, ErrMaxSpectatorsReached
	}

	s := &Spectator{
		ID:          uuid.NewString(),
		Transport:   transport,
		ConnectedAt: time.Now(),
		frames:      make(chan []byte, h.buffer),
	}
	if h.latest != nil {
		s.frames <- h.latest
	}
	h.spectators[s.ID] = s
	atomic.AddUint64(&h.joined, 1)

	h.logger.Info("Spectator joined",
		log.String("spectator", s.ID),
		log.String("transport", transport),
		log.Int("spectators", len(h.spectators)))
	return s, nil
}

// Leave removes a spectator and closes its frame channel.
func (h *Hub) Leave(id string) error {
	h.mu.Lock()
	s, ok := h.spectators[id]
	if ok {
		delete(h.spectators, id)
	}
	remaining := len(h.spectators)
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSpectatorNotFound, id)
	}
	s.close()
	h.logger.Info("Spectator left",
		log.String("spectator", id),
		log.Duration("watched", time.Since(s.ConnectedAt)),
		log.Int("spectators", remaining))
	return nil
}

// Broadcast encodes snap once and queues it for every spectator.
func (h *Hub) Broadcast(snap match.Snapshot) error {
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	// Spectators keep the frame after the buffer is recycled.
	frame := bytes.Clone(bytes.TrimSuffix(buf.Bytes(), newline))

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = frame
	atomic.AddUint64(&h.broadcasts, 1)
	for id, s := range h.spectators {
		select {
		case s.frames <- frame:
		default:
			delete(h.spectators, id)
			s.close()
			atomic.AddUint64(&h.dropped, 1)
			h.logger.Warn("Dropping slow spectator",
				log.String("spectator", id),
				log.String("transport", s.Transport))
		}
	}
	return nil
}

// Run broadcasts every snapshot from snapshots until ctx is done or the
// channel closes, then disconnects all spectators.
func (h *Hub) Run(ctx context.Context, snapshots <-chan match.Snapshot) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := h.Broadcast(snap); err != nil {
				h.logger.Error("Broadcast failed", log.Error(err))
			}
		}
	}
}

// Latest returns the last encoded snapshot, or nil before the first one.
func (h *Hub) Latest() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.spectators)
}

func (h *Hub) Metrics() HubMetrics {
	return HubMetrics{
		Spectators: h.Len(),
		Joined:     atomic.LoadUint64(&h.joined),
		Dropped:    atomic.LoadUint64(&h.dropped),
		Broadcasts: atomic.LoadUint64(&h.broadcasts),
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.spectators {
		delete(h.spectators, id)
		s.close()
	}
}
