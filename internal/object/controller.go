package object

import (
	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/physics"
)

// View is the read-only part of the match a controller may look at.
type View struct {
	Bounds  physics.Rect
	Keys    input.Keys
	Players []*Player // Participants in slot order
}

// Intent is what a controller wants its player to do this tick.
type Intent struct {
	DX, DY float64
	Dir    Direction
	HasDir bool    // False keeps the previous direction
	Shoot  bool    // Fire request, still subject to the shot gate
	Shield bool    // Shield key held
	Target *Player // AI only: the player being pursued
}

// Controller supplies a player's per-tick intent. Human and AI are the two
// variants; the movement system treats their deltas the same way.
type Controller interface {
	Intent(self *Player, v View) Intent
}

// Human reads a slot's held keys from the tick's keyboard snapshot.
type Human struct{}

var _ Controller = Human{}

// Intent turns held keys into one step per axis. A step that would leave the
// arena is dropped. Direction priority is up > down > left > right.
func (Human) Intent(self *Player, v View) Intent {
	a := v.Keys.For(int(self.Slot))
	r := self.Rect()
	b := v.Bounds
	step := config.PlayerSpeed

	var in Intent
	if a.Left && r.X-step >= b.X {
		in.DX = -step
	}
	if a.Right && r.Right()+step <= b.Right() {
		in.DX = step
	}
	if a.Up && r.Y-step >= b.Y {
		in.DY = -step
	}
	if a.Down && r.Bottom()+step <= b.Bottom() {
		in.DY = step
	}

	in.HasDir = true
	switch {
	case a.Up:
		in.Dir = DirUp
	case a.Down:
		in.Dir = DirDown
	case a.Left:
		in.Dir = DirLeft
	case a.Right:
		in.Dir = DirRight
	default:
		in.HasDir = false
	}

	in.Shoot = a.Shoot
	in.Shield = a.Shield
	return in
}
