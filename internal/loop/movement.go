package loop

import (
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

type position struct{ x, y float64 }

// pairs lists the participant pairs that must not overlap.
func (m *Match) pairs() [][2]*object.Player {
	p := m.players
	if m.mode == ModeTrio {
		return [][2]*object.Player{{p[0], p[1]}, {p[0], p[2]}, {p[1], p[2]}}
	}
	return [][2]*object.Player{{p[0], p[1]}}
}

// movePlayers moves humans one axis at a time, then lets the computer players
// pursue. Any pair that ends up overlapping is pushed back to where it was.
func (m *Match) movePlayers(view object.View) {
	start := make([]position, len(m.players))
	for i, p := range m.players {
		start[i] = position{p.X, p.Y}
	}

	intents := make([]object.Intent, len(m.players))
	for i, p := range m.players {
		if !p.IsComputer() {
			intents[i] = p.Controller.Intent(p, view)
		}
	}

	// Horizontal.
	for i, p := range m.players {
		p.X += intents[i].DX
	}
	for _, pair := range m.pairs() {
		a, b := pair[0], pair[1]
		if physics.Overlaps(a.Rect(), b.Rect()) {
			a.X = start[a.Slot-1].x
			b.X = start[b.Slot-1].x
		}
	}

	// Vertical.
	for i, p := range m.players {
		p.Y += intents[i].DY
	}
	for _, pair := range m.pairs() {
		a, b := pair[0], pair[1]
		if physics.Overlaps(a.Rect(), b.Rect()) {
			a.Y = start[a.Slot-1].y
			b.Y = start[b.Slot-1].y
		}
	}

	for _, p := range m.players {
		if ai, ok := p.Controller.(*object.AI); ok {
			m.stepAI(p, ai, view)
		}
	}

	if m.mode == ModeTrio {
		m.settle(start)
	}

	for i, p := range m.players {
		if intents[i].HasDir {
			p.LastDir = intents[i].Dir
		}
	}
}

// stepAI moves a computer player toward its target and fires when in range.
func (m *Match) stepAI(p *object.Player, ai *object.AI, view object.View) {
	in := ai.Intent(p, view)
	before := position{p.X, p.Y}

	p.X += in.DX
	p.Y += in.DY
	if in.Target != nil && physics.Overlaps(p.Rect(), in.Target.Rect()) {
		restore(p, before)
	}
	p.ClampInto(m.bounds)

	if in.HasDir {
		p.LastDir = in.Dir
	}
	if in.Shoot && p.CanShoot {
		m.fire(p)
		p.CloseShotGate(m.clock, ai.Cooldown)
	}
}

// settle sends both players of every overlapping pair back to their
// tick-start positions until no pair overlaps. Putting one human back can
// land it next to the other, so the check repeats. Tick-start positions never
// overlap, so this ends after at most one round per player.
func (m *Match) settle(start []position) {
	for moved := true; moved; {
		moved = false
		for _, pair := range m.pairs() {
			if !physics.Overlaps(pair[0].Rect(), pair[1].Rect()) {
				continue
			}
			for _, p := range pair {
				s := start[p.Slot-1]
				if p.X != s.x || p.Y != s.y {
					restore(p, s)
					moved = true
				}
			}
		}
	}
}

func restore(p *object.Player, pos position) {
	p.X, p.Y = pos.x, pos.y
}
