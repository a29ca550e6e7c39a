package loop

// PlayerState is a copy of one player for renderers and spectators.
type PlayerState struct {
	Slot         int     `json:"slot" msgpack:"slot"`
	Name         string  `json:"name" msgpack:"name"`
	Color        string  `json:"color" msgpack:"color"`
	Computer     bool    `json:"computer" msgpack:"computer"`
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	Width        float64 `json:"w" msgpack:"w"`
	Height       float64 `json:"h" msgpack:"h"`
	Health       int     `json:"health" msgpack:"health"`
	Shield       float64 `json:"shield" msgpack:"shield"`
	ShieldActive bool    `json:"shieldActive" msgpack:"shieldActive"`
	ShieldBroken bool    `json:"shieldBroken" msgpack:"shieldBroken"`
	CanShoot     bool    `json:"canShoot" msgpack:"canShoot"`
	Dir          string  `json:"dir" msgpack:"dir"`
}

// ProjectileState is a copy of one live projectile.
type ProjectileState struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Dir   string  `json:"dir" msgpack:"dir"`
	Owner int     `json:"owner" msgpack:"owner"`
}

// Snapshot is a deep copy of the observable match state. It shares no memory
// with the match and can be handed to other goroutines.
type Snapshot struct {
	Mode        string            `json:"mode" msgpack:"mode"`
	Phase       string            `json:"phase" msgpack:"phase"`
	Paused      bool              `json:"paused" msgpack:"paused"`
	ClockMS     int64             `json:"clockMs" msgpack:"clockMs"`
	Tick        uint64            `json:"tick" msgpack:"tick"`
	Width       float64           `json:"width" msgpack:"width"`
	Height      float64           `json:"height" msgpack:"height"`
	Players     []PlayerState     `json:"players" msgpack:"players"`
	Projectiles []ProjectileState `json:"projectiles" msgpack:"projectiles"`
	Over        bool              `json:"over" msgpack:"over"`
	Draw        bool              `json:"draw" msgpack:"draw"`
	Winner      string            `json:"winner,omitempty" msgpack:"winner,omitempty"`
}

// Snapshot copies the current state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Mode:        m.mode.String(),
		Phase:       m.phase.String(),
		Paused:      m.paused,
		ClockMS:     m.clock.Milliseconds(),
		Tick:        m.ticks,
		Width:       m.bounds.Width,
		Height:      m.bounds.Height,
		Players:     make([]PlayerState, 0, len(m.players)),
		Projectiles: make([]ProjectileState, 0, len(m.projectiles)),
		Over:        m.outcome.Over,
		Draw:        m.outcome.Draw,
		Winner:      m.outcome.Winner,
	}
	for _, p := range m.players {
		s.Players = append(s.Players, PlayerState{
			Slot:         int(p.Slot),
			Name:         p.Name,
			Color:        p.Color.String(),
			Computer:     p.IsComputer(),
			X:            p.X,
			Y:            p.Y,
			Width:        p.Width,
			Height:       p.Height,
			Health:       p.Health,
			Shield:       p.Shield,
			ShieldActive: p.ShieldActive,
			ShieldBroken: p.ShieldBroken,
			CanShoot:     p.CanShoot,
			Dir:          p.LastDir.String(),
		})
	}
	for _, pr := range m.projectiles {
		s.Projectiles = append(s.Projectiles, ProjectileState{
			X:     pr.X,
			Y:     pr.Y,
			Dir:   pr.Dir.String(),
			Owner: int(pr.Owner),
		})
	}
	return s
}
