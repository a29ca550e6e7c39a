package spectate

import (
	"sync/atomic"
	"time"

	"github.com/tomz197/arena/internal/loop"
)

// Metrics counts what happened across all matches on this host.
type Metrics struct {
	MatchesStarted int64
	MatchesEnded   int64
	TickCount      int64
	TotalTickNs    int64
	ShotsFired     int64
	PlayersHit     int64
	ShieldsBroken  int64
	Viewers        int64 // Currently connected spectators
	FramesDropped  int64 // Frames skipped because a viewer's queue was full
}

func (m *Metrics) IncStarted()      { atomic.AddInt64(&m.MatchesStarted, 1) }
func (m *Metrics) IncEnded()        { atomic.AddInt64(&m.MatchesEnded, 1) }
func (m *Metrics) IncDropped()      { atomic.AddInt64(&m.FramesDropped, 1) }
func (m *Metrics) AddViewers(n int) { atomic.AddInt64(&m.Viewers, int64(n)) }

// AddTick records one simulated tick and the events it produced.
func (m *Metrics) AddTick(d time.Duration, events []loop.Event) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, d.Nanoseconds())
	for _, e := range events {
		switch e.Kind {
		case loop.EventShotFired:
			atomic.AddInt64(&m.ShotsFired, 1)
		case loop.EventPlayerHit:
			atomic.AddInt64(&m.PlayersHit, 1)
		case loop.EventShieldBroken:
			atomic.AddInt64(&m.ShieldsBroken, 1)
		}
	}
}

// Snapshot returns a read-only copy for HTTP output.
func (m *Metrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"matches_started": atomic.LoadInt64(&m.MatchesStarted),
		"matches_ended":   atomic.LoadInt64(&m.MatchesEnded),
		"tick_count":      ticks,
		"avg_tick_ms":     avgMs,
		"shots_fired":     atomic.LoadInt64(&m.ShotsFired),
		"players_hit":     atomic.LoadInt64(&m.PlayersHit),
		"shields_broken":  atomic.LoadInt64(&m.ShieldsBroken),
		"viewers":         atomic.LoadInt64(&m.Viewers),
		"frames_dropped":  atomic.LoadInt64(&m.FramesDropped),
	}
}
