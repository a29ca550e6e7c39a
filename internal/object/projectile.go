package object

import (
	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/physics"
)

// Projectile is a bullet travelling in a fixed cardinal direction.
type Projectile struct {
	X, Y      float64   // Current center point
	Dir       Direction // Fixed at spawn
	Speed     float64   // Units per tick
	Owner     Slot      // Never damages its owner
	destroyed bool
}

// NewProjectile spawns a projectile at the center of owner's box, aimed
// along owner's last direction.
func NewProjectile(owner *Player) *Projectile {
	x, y := owner.Center()
	return &Projectile{
		X:     x,
		Y:     y,
		Dir:   owner.LastDir,
		Speed: config.ProjectileSpeed,
		Owner: owner.Slot,
	}
}

// Advance moves the projectile one step along its direction.
func (p *Projectile) Advance() {
	dx, dy := p.Dir.Vector()
	p.X += dx * p.Speed
	p.Y += dy * p.Speed
}

// OutOfBounds reports whether the projectile center has left bounds.
func (p *Projectile) OutOfBounds(bounds physics.Rect) bool {
	return !physics.Contains(bounds, p.X, p.Y)
}

// Hits reports whether the projectile center lies inside target's box.
// Projectiles never hit their owner.
func (p *Projectile) Hits(target *Player) bool {
	if target.Slot == p.Owner {
		return false
	}
	return physics.Contains(target.Rect(), p.X, p.Y)
}

// MarkDestroyed marks the projectile for removal.
func (p *Projectile) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the projectile is marked for destruction.
func (p *Projectile) IsDestroyed() bool {
	return p.destroyed
}
