// Package spectate publishes live matches to read-only viewers over HTTP and
// websockets, and keeps host-wide metrics.
package spectate

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/loop"
)

// MatchInfo describes a live match in the listing.
type MatchInfo struct {
	ID      uuid.UUID `json:"id"`
	Mode    string    `json:"mode"`
	Started time.Time `json:"started"`
	Phase   string    `json:"phase"`
	Players []string  `json:"players"`
	Tick    uint64    `json:"tick"`
}

// match is the hub's view of one live match. The latest snapshot is swapped
// atomically so viewers never block the match loop.
type match struct {
	id      uuid.UUID
	mode    loop.Mode
	started time.Time
	latest  atomic.Pointer[loop.Snapshot]
	seq     atomic.Uint64 // Bumped on every publish
	ended   atomic.Bool
}

// Hub keeps the latest snapshot of every live match. It is safe for
// concurrent use by many match loops and viewers.
type Hub struct {
	mu      sync.RWMutex
	matches map[uuid.UUID]*match
	metrics Metrics
	done    chan struct{}
	closed  sync.Once
	log     *zap.SugaredLogger
}

// NewHub creates an empty hub.
func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		matches: make(map[uuid.UUID]*match),
		done:    make(chan struct{}),
		log:     log,
	}
}

// Register adds a match and returns its id.
func (h *Hub) Register(mode loop.Mode) uuid.UUID {
	m := &match{id: uuid.New(), mode: mode, started: time.Now()}

	h.mu.Lock()
	h.matches[m.id] = m
	h.mu.Unlock()

	h.metrics.IncStarted()
	h.log.Infow("match registered", "match", m.id.String(), "mode", mode.String())
	return m.id
}

// Publish replaces the latest snapshot of a match. Unknown ids are ignored.
func (h *Hub) Publish(id uuid.UUID, s loop.Snapshot) {
	m := h.lookup(id)
	if m == nil {
		return
	}
	m.latest.Store(&s)
	m.seq.Add(1)
}

// Record adds one tick to the metrics.
func (h *Hub) Record(events []loop.Event, tick time.Duration) {
	h.metrics.AddTick(tick, events)
}

// Unregister removes a match. Connected viewers receive the last published
// snapshot followed by an end frame.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	m, ok := h.matches[id]
	delete(h.matches, id)
	h.mu.Unlock()
	if !ok {
		return
	}

	m.ended.Store(true)
	h.metrics.IncEnded()
	h.log.Infow("match unregistered", "match", id.String(), "duration", time.Since(m.started).Round(time.Millisecond))
}

func (h *Hub) lookup(id uuid.UUID) *match {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.matches[id]
}

// Latest returns the most recent snapshot of a live match.
func (h *Hub) Latest(id uuid.UUID) (loop.Snapshot, bool) {
	m := h.lookup(id)
	if m == nil {
		return loop.Snapshot{}, false
	}
	if s := m.latest.Load(); s != nil {
		return *s, true
	}
	return loop.Snapshot{}, true
}

// List returns the live matches, oldest first.
func (h *Hub) List() []MatchInfo {
	h.mu.RLock()
	out := make([]MatchInfo, 0, len(h.matches))
	for _, m := range h.matches {
		info := MatchInfo{ID: m.id, Mode: m.mode.String(), Started: m.started, Players: []string{}}
		if s := m.latest.Load(); s != nil {
			info.Phase = s.Phase
			info.Tick = s.Tick
			for _, p := range s.Players {
				info.Players = append(info.Players, p.Name)
			}
		}
		out = append(out, info)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Started.Equal(out[j].Started) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Started.Before(out[j].Started)
	})
	return out
}

// Metrics returns the host-wide counters.
func (h *Hub) Metrics() *Metrics {
	return &h.metrics
}

// Close disconnects every viewer. Matches may keep publishing; nobody watches.
func (h *Hub) Close() {
	h.closed.Do(func() { close(h.done) })
}
