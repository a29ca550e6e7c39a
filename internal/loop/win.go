package loop

import "github.com/tomz197/arena/internal/object"

// Outcome is the result of evaluating the win condition.
type Outcome struct {
	Over   bool
	Draw   bool        // Nobody survived
	Winner string      // Display name of the winner
	Slot   object.Slot // Winner slot, zero on a draw
}

// Evaluate inspects health and decides whether the match is over.
// It does not modify the match, so repeated calls give the same answer.
func Evaluate(m *Match) Outcome {
	if m.mode != ModeTrio {
		p1, p2 := m.players[0], m.players[1]
		switch {
		case !p1.Alive():
			return winner(p2)
		case !p2.Alive():
			return winner(p1)
		}
		return Outcome{}
	}

	var survivors []*object.Player
	for _, p := range m.players {
		if p.Alive() {
			survivors = append(survivors, p)
		}
	}
	switch len(survivors) {
	case 0:
		return Outcome{Over: true, Draw: true}
	case 1:
		return winner(survivors[0])
	default:
		return Outcome{}
	}
}

func winner(p *object.Player) Outcome {
	return Outcome{Over: true, Winner: p.Name, Slot: p.Slot}
}

// finish records a decisive outcome and ends the match.
func (m *Match) finish(o Outcome) {
	m.outcome = o
	m.paused = false
	m.enterPhase(PhaseOver)
	m.emit(Event{Kind: EventMatchEnded, Slot: o.Slot, Winner: o.Winner, Draw: o.Draw})
	if o.Draw {
		m.log.Infow("match ended in a draw", "mode", m.mode.String(), "clock", m.clock, "ticks", m.ticks)
		return
	}
	m.log.Infow("match ended", "mode", m.mode.String(), "winner", o.Winner, "clock", m.clock, "ticks", m.ticks)
}
