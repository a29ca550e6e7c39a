// Package object holds the arena entities: players, projectiles and the
// controllers that steer them.
package object

import "fmt"

// Slot is a stable player identity (1, 2 or 3), independent of who controls it.
type Slot int

const (
	Slot1 Slot = iota + 1
	Slot2
	Slot3
)

// Direction is one of the four cardinal directions used for aiming and travel.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Vector returns the unit step for the direction in screen coordinates (y grows down).
func (d Direction) Vector() (float64, float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Color identifies a player's paint on every renderer.
type Color int

const (
	ColorBlue Color = iota
	ColorRed
	ColorGreen
)

func (c Color) String() string {
	switch c {
	case ColorBlue:
		return "blue"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// SlotColor returns the fixed color of a slot.
func SlotColor(s Slot) Color {
	switch s {
	case Slot2:
		return ColorRed
	case Slot3:
		return ColorGreen
	default:
		return ColorBlue
	}
}
