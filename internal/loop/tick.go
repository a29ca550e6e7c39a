package loop

import (
	"time"

	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/object"
)

// Tick advances the match by one frame of dt using the held keys.
// A paused match ignores the call and its clock stands still.
func (m *Match) Tick(dt time.Duration, keys input.Keys) error {
	switch {
	case m.phase == PhaseLobby:
		return ErrNotStarted
	case m.phase == PhaseOver:
		return ErrMatchOver
	case m.paused:
		return nil
	}

	m.clock += dt
	m.ticks++
	for _, p := range m.players {
		p.ExpireCooldowns(m.clock)
	}

	switch m.phase {
	case PhaseDropIn:
		m.dropIn()
		return nil
	case PhaseAnnounce:
		if m.clock-m.phaseAt >= config.AnnounceFor {
			m.enterPhase(PhaseFighting)
		}
		return nil
	}

	view := object.View{Bounds: m.bounds, Keys: keys, Players: m.players}
	m.sampleInputs(keys)
	m.updateProjectiles()
	m.updateShields()
	m.movePlayers(view)

	if o := Evaluate(m); o.Over {
		m.finish(o)
	}
	return nil
}

// sampleInputs applies shield keys and fires for humans whose trigger is pulled.
func (m *Match) sampleInputs(keys input.Keys) {
	for _, p := range m.players {
		if p.IsComputer() {
			continue
		}
		a := keys.For(int(p.Slot))
		p.RaiseShield(a.Shield)
		if p.PressTrigger(a.Shoot) {
			m.fire(p)
			p.CloseShotGate(m.clock, 0)
		}
	}
}

func (m *Match) updateShields() {
	for _, p := range m.players {
		if p.UpdateShield(m.clock) {
			m.emit(Event{Kind: EventShieldBroken, Slot: p.Slot})
			m.log.Debugw("shield broken", "slot", int(p.Slot), "clock", m.clock)
		}
	}
}

// dropIn lowers every player toward the center line and moves on to the
// announcement once all of them have landed.
func (m *Match) dropIn() {
	landed := true
	for _, p := range m.players {
		dest := m.bounds.Height/2 - p.Height/2
		if p.Y < dest {
			p.Y += config.DropSpeed
			if p.Y > dest {
				p.Y = dest
			}
		}
		if p.Y < dest {
			landed = false
		}
	}
	if landed {
		m.enterPhase(PhaseAnnounce)
	}
}
