package object

import (
	"time"

	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/physics"
)

// cooldown is a one-shot deadline on the match clock.
type cooldown struct {
	until time.Duration
	armed bool
}

func (c *cooldown) arm(now, d time.Duration) {
	c.until = now + d
	c.armed = true
}

// expired disarms and reports true once now has reached the deadline.
func (c *cooldown) expired(now time.Duration) bool {
	if !c.armed || now < c.until {
		return false
	}
	c.armed = false
	return true
}

// Player is one contestant. The record shape is the same for human and
// computer players; only Controller differs.
type Player struct {
	Slot   Slot
	Name   string
	Color  Color
	X, Y   float64 // Top-left corner
	Width  float64
	Height float64

	Health       int
	Shield       float64
	ShieldActive bool
	ShieldBroken bool
	CanShoot     bool
	LastDir      Direction

	Controller Controller

	shotGate     cooldown
	shieldRepair cooldown
}

// NewPlayer creates a player at full health and shield, facing dir.
func NewPlayer(slot Slot, name string, x, y float64, dir Direction, ctrl Controller) *Player {
	return &Player{
		Slot:       slot,
		Name:       name,
		Color:      SlotColor(slot),
		X:          x,
		Y:          y,
		Width:      config.PlayerSize,
		Height:     config.PlayerSize,
		Health:     config.MaxHealth,
		Shield:     config.MaxShield,
		CanShoot:   true,
		LastDir:    dir,
		Controller: ctrl,
	}
}

// Rect returns the player's box.
func (p *Player) Rect() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Center returns the center of the player's box.
func (p *Player) Center() (float64, float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// Alive reports whether the player has any health left.
func (p *Player) Alive() bool {
	return p.Health > 0
}

// IsComputer reports whether an AI controller drives the player.
func (p *Player) IsComputer() bool {
	_, ok := p.Controller.(*AI)
	return ok
}

// TakeHit subtracts damage from health with a floor of 0.
func (p *Player) TakeHit(damage int) {
	p.Health -= damage
	if p.Health < 0 {
		p.Health = 0
	}
}

// ClampInto moves the box back inside bounds.
func (p *Player) ClampInto(bounds physics.Rect) {
	p.X = physics.Clamp(p.X, bounds.X, bounds.Right()-p.Width)
	p.Y = physics.Clamp(p.Y, bounds.Y, bounds.Bottom()-p.Height)
}

// CloseShotGate blocks shooting. With a positive reopenAfter the gate reopens
// on its own at now+reopenAfter; otherwise it waits for ReleaseTrigger.
func (p *Player) CloseShotGate(now, reopenAfter time.Duration) {
	p.CanShoot = false
	if reopenAfter > 0 {
		p.shotGate.arm(now, reopenAfter)
	}
}

// PressTrigger feeds this tick's shoot key state and reports whether a shot
// may be fired. Releasing the key reopens an untimed shot gate, so a held
// key fires once.
func (p *Player) PressTrigger(held bool) bool {
	if !held {
		if !p.shotGate.armed {
			p.CanShoot = true
		}
		return false
	}
	return p.CanShoot
}

// ExpireCooldowns reopens gates whose deadline has passed on the match clock.
func (p *Player) ExpireCooldowns(now time.Duration) {
	if p.shotGate.expired(now) {
		p.CanShoot = true
	}
	if p.shieldRepair.expired(now) {
		p.ShieldBroken = false
	}
}
