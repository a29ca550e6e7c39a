package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/arena/internal/object"
)

// EventKind identifies something that happened during a tick.
type EventKind int

const (
	EventShotFired    EventKind = iota + 1 // Slot fired a projectile
	EventPlayerHit                         // Slot was hit by a projectile from By
	EventShieldBroken                      // Slot's shield ran out
	EventMatchEnded                        // Winner is set unless Draw
)

func (k EventKind) String() string {
	switch k {
	case EventShotFired:
		return "shot-fired"
	case EventPlayerHit:
		return "player-hit"
	case EventShieldBroken:
		return "shield-broken"
	case EventMatchEnded:
		return "match-ended"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a fire-and-forget notification for hosts (sound, logging, metrics).
type Event struct {
	Kind   EventKind
	At     time.Duration // Match clock when the event happened
	Slot   object.Slot
	By     object.Slot // Shooter, for EventPlayerHit
	Health int         // Remaining health, for EventPlayerHit
	Winner string
	Draw   bool
}

func (m *Match) emit(e Event) {
	e.At = m.clock
	m.events = append(m.events, e)
}

// Events returns the events emitted since the previous call and clears the queue.
func (m *Match) Events() []Event {
	if len(m.events) == 0 {
		return nil
	}
	out := m.events
	m.events = nil
	return out
}
