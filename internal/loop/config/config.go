// Package config centralizes all tunable game parameters.
package config

import "time"

// Arena dimensions in logical units. Renderers scale to fit the terminal.
const (
	ArenaWidth  = 1280
	ArenaHeight = 720
)

// Player
const (
	PlayerSize      = 40.0  // Box width and height
	PlayerSpeed     = 5.0   // Max step per axis per tick
	MaxHealth       = 100   // Starting and maximum health
	MaxShield       = 100.0 // Starting and maximum shield charge
	ShieldDrain     = 0.5   // Charge lost per tick while the shield is up
	ShieldRecharge  = 0.2   // Charge regained per tick while the shield is down
	ShieldRepairFor = 3000 * time.Millisecond
)

// Spawn columns for slots 1..3, in arena units.
var SpawnColumns = [3]float64{100, 600, 1100}

// Projectiles
const (
	ProjectileSpeed  = 10.0
	ProjectileDamage = 10
)

// AI
const (
	AIPursuitFactor   = 0.3
	AIEngagementRange = 300.0
	AIShotCooldown    = 50 * time.Millisecond
)

// Intro sequence
const (
	DropSpeed   = 5.0 // Units per tick while players fall into the arena
	AnnounceFor = 2000 * time.Millisecond
)

// Names
const (
	DefaultPlayer1Name = "Player 1"
	DefaultPlayer2Name = "Player 2"
	ComputerName       = "Computer"
	MaxNameLength      = 16
)

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// RematchGrace is how long the result screen ignores confirm. Confirm shares
// keys with shooting.
const RematchGrace = 1500 * time.Millisecond

// Render area clamp for very large terminals.
const (
	MaxTermWidth  = 200
	MaxTermHeight = 60
)

// Inactivity (SSH sessions)
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Spectator feed
const (
	SpectateRate     = 20
	SpectateInterval = time.Second / SpectateRate
)
