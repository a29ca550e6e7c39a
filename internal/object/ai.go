package object

import (
	"math"
	"time"

	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/physics"
)

// AI pursues the nearest human and fires once it is within range.
type AI struct {
	Factor   float64       // Fraction of the distance covered per tick
	MaxStep  float64       // Per-axis cap on movement
	Range    float64       // Engagement distance
	Cooldown time.Duration // Shot gate interval

	Target Slot // Last chosen target, zero before the first tick
}

var _ Controller = (*AI)(nil)

// NewAI returns an AI with the standard tuning.
func NewAI() *AI {
	return &AI{
		Factor:   config.AIPursuitFactor,
		MaxStep:  config.PlayerSpeed,
		Range:    config.AIEngagementRange,
		Cooldown: config.AIShotCooldown,
	}
}

// PickTarget returns the human-controlled participant whose center is closest
// to self. Ties go to the lower slot.
func PickTarget(self *Player, players []*Player) *Player {
	sx, sy := self.Center()
	var best *Player
	bestDist := math.Inf(1)
	for _, p := range players {
		if p == self || p.IsComputer() {
			continue
		}
		px, py := p.Center()
		d := physics.DistanceSquared(sx, sy, px, py)
		if d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// Intent chases the target: the move is the center offset scaled by Factor and
// capped at MaxStep per axis. Aim follows the dominant axis, horizontal on ties.
func (a *AI) Intent(self *Player, v View) Intent {
	target := PickTarget(self, v.Players)
	if target == nil {
		a.Target = 0
		return Intent{}
	}
	a.Target = target.Slot

	sx, sy := self.Center()
	tx, ty := target.Center()
	diffX := tx - sx
	diffY := ty - sy

	in := Intent{
		DX:     physics.Clamp(diffX*a.Factor, -a.MaxStep, a.MaxStep),
		DY:     physics.Clamp(diffY*a.Factor, -a.MaxStep, a.MaxStep),
		HasDir: true,
		Target: target,
	}

	if math.Abs(diffX) >= math.Abs(diffY) {
		in.Dir = DirRight
		if diffX < 0 {
			in.Dir = DirLeft
		}
	} else {
		in.Dir = DirDown
		if diffY < 0 {
			in.Dir = DirUp
		}
	}

	in.Shoot = math.Sqrt(diffX*diffX+diffY*diffY) < a.Range
	return in
}
