package object

import (
	"time"

	"github.com/tomz197/arena/internal/loop/config"
)

// RaiseShield applies this tick's shield key. A broken shield cannot be raised.
func (p *Player) RaiseShield(held bool) {
	p.ShieldActive = held && !p.ShieldBroken
}

// UpdateShield drains an active shield or recharges an idle one.
// Draining to exactly zero breaks the shield until now+ShieldRepairFor.
// Returns true on the tick the shield breaks.
func (p *Player) UpdateShield(now time.Duration) bool {
	switch {
	case p.ShieldActive && p.Shield > 0:
		p.Shield -= config.ShieldDrain
		if p.Shield <= 0 {
			p.Shield = 0
			p.ShieldActive = false
			p.ShieldBroken = true
			p.shieldRepair.arm(now, config.ShieldRepairFor)
			return true
		}
	case !p.ShieldActive && !p.ShieldBroken && p.Shield < config.MaxShield:
		p.Shield += config.ShieldRecharge
		if p.Shield > config.MaxShield {
			p.Shield = config.MaxShield
		}
	}
	return false
}
