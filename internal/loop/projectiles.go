package loop

import (
	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/object"
)

// fire spawns a projectile from p along its last direction.
func (m *Match) fire(p *object.Player) {
	m.projectiles = append(m.projectiles, object.NewProjectile(p))
	m.emit(Event{Kind: EventShotFired, Slot: p.Slot})
}

// updateProjectiles advances every projectile, applies hits and drops the
// projectiles that left the arena or struck someone.
func (m *Match) updateProjectiles() {
	live := m.projectiles[:0]
	for _, pr := range m.projectiles {
		pr.Advance()
		if pr.OutOfBounds(m.bounds) {
			pr.MarkDestroyed()
			continue
		}

		for _, target := range m.players {
			if !pr.Hits(target) {
				continue
			}
			target.TakeHit(config.ProjectileDamage)
			pr.MarkDestroyed()
			m.emit(Event{Kind: EventPlayerHit, Slot: target.Slot, By: pr.Owner, Health: target.Health})
			m.log.Debugw("player hit", "slot", int(target.Slot), "by", int(pr.Owner), "health", target.Health)
			break
		}

		if !pr.IsDestroyed() {
			live = append(live, pr)
		}
	}
	// Release references held past the new length.
	for i := len(live); i < len(m.projectiles); i++ {
		m.projectiles[i] = nil
	}
	m.projectiles = live
}
