// Package loop runs one arena match: it owns the match state and advances it
// one tick at a time in a fixed order.
package loop

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
)

// Mode selects how many players take part and which of them the computer drives.
type Mode int

const (
	ModeDuo  Mode = iota // Player 1 and player 2, both human
	ModeSolo             // Player 1 human, player 2 computer
	ModeTrio             // Players 1 and 2 human, player 3 computer
)

func (m Mode) String() string {
	switch m {
	case ModeDuo:
		return "duo"
	case ModeSolo:
		return "solo"
	case ModeTrio:
		return "trio"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "duo":
		return ModeDuo, nil
	case "solo":
		return ModeSolo, nil
	case "trio":
		return ModeTrio, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Phase is the stage a match is in.
type Phase int

const (
	PhaseLobby    Phase = iota // Created, not started
	PhaseDropIn                // Players falling into the arena
	PhaseAnnounce              // Names on screen before the fight
	PhaseFighting              // Simulation running
	PhaseOver                  // Outcome decided
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseDropIn:
		return "drop-in"
	case PhaseAnnounce:
		return "announce"
	case PhaseFighting:
		return "fighting"
	case PhaseOver:
		return "over"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Errors returned when the host drives a match out of order.
var (
	ErrUnknownMode    = errors.New("unknown game mode")
	ErrNotStarted     = errors.New("match not started")
	ErrAlreadyStarted = errors.New("match already started")
	ErrMatchOver      = errors.New("match is over")
)

// Settings configures a match before it starts.
type Settings struct {
	Mode      Mode
	Names     [2]string // Display names of slots 1 and 2; blanks get defaults
	Width     float64   // Arena size; zero uses config.ArenaWidth/Height
	Height    float64
	SkipIntro bool // Start directly in PhaseFighting
	Logger    *zap.SugaredLogger
}

// Match is the full state of one game. It is not safe for concurrent use:
// the host calls every method from the goroutine that schedules frames.
type Match struct {
	mode        Mode
	bounds      physics.Rect
	players     []*object.Player // Participants in slot order
	projectiles []*object.Projectile
	skipIntro   bool

	phase   Phase
	paused  bool
	clock   time.Duration // Match time; frozen while paused
	phaseAt time.Duration // Clock value when the current phase began
	ticks   uint64
	outcome Outcome

	events []Event
	log    *zap.SugaredLogger
}

// NewMatch builds a match in the lobby phase.
func NewMatch(s Settings) (*Match, error) {
	switch s.Mode {
	case ModeDuo, ModeSolo, ModeTrio:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(s.Mode))
	}

	w, h := s.Width, s.Height
	if w <= 0 || h <= 0 {
		w, h = config.ArenaWidth, config.ArenaHeight
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	m := &Match{
		mode:      s.Mode,
		bounds:    physics.Rect{Width: w, Height: h},
		skipIntro: s.SkipIntro,
		log:       log,
	}
	m.players = m.spawnPlayers(s.Names)
	return m, nil
}

// spawnPlayers creates the participants of the mode on the center line.
func (m *Match) spawnPlayers(names [2]string) []*object.Player {
	p1Name := displayName(names[0], config.DefaultPlayer1Name)
	p2Name := displayName(names[1], config.DefaultPlayer2Name)

	y := m.bounds.Height/2 - config.PlayerSize/2
	p1 := object.NewPlayer(object.Slot1, p1Name, m.spawnX(0), y, object.DirRight, object.Human{})

	switch m.mode {
	case ModeSolo:
		p2 := object.NewPlayer(object.Slot2, config.ComputerName, m.spawnX(1), y, object.DirLeft, object.NewAI())
		return []*object.Player{p1, p2}
	case ModeTrio:
		p2 := object.NewPlayer(object.Slot2, p2Name, m.spawnX(1), y, object.DirLeft, object.Human{})
		p3 := object.NewPlayer(object.Slot3, config.ComputerName, m.spawnX(2), y, object.DirLeft, object.NewAI())
		return []*object.Player{p1, p2, p3}
	default:
		p2 := object.NewPlayer(object.Slot2, p2Name, m.spawnX(1), y, object.DirLeft, object.Human{})
		return []*object.Player{p1, p2}
	}
}

// spawnX returns the spawn column of a slot index, scaled down for arenas
// narrower than the default.
func (m *Match) spawnX(i int) float64 {
	x := config.SpawnColumns[i]
	if m.bounds.Width < config.ArenaWidth {
		x *= m.bounds.Width / config.ArenaWidth
	}
	return physics.Clamp(x, 0, m.bounds.Width-config.PlayerSize)
}

func displayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if r := []rune(name); len(r) > config.MaxNameLength {
		name = string(r[:config.MaxNameLength])
	}
	return name
}

// Start moves the match out of the lobby. Players drop in from above the
// arena unless the intro is skipped.
func (m *Match) Start() error {
	if m.phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	if m.skipIntro {
		m.enterPhase(PhaseFighting)
	} else {
		for _, p := range m.players {
			p.Y = -p.Height
		}
		m.enterPhase(PhaseDropIn)
	}
	m.log.Infow("match started", "mode", m.mode.String(), "players", len(m.players))
	return nil
}

// TogglePause flips the pause flag of a running match and returns the new state.
// It is a no-op outside of a running match.
func (m *Match) TogglePause() bool {
	if !m.Running() {
		return m.paused
	}
	m.paused = !m.paused
	m.log.Infow("pause toggled", "paused", m.paused, "clock", m.clock)
	return m.paused
}

func (m *Match) enterPhase(p Phase) {
	m.phase = p
	m.phaseAt = m.clock
}

// Mode returns the match mode.
func (m *Match) Mode() Mode { return m.mode }

// Phase returns the current phase.
func (m *Match) Phase() Phase { return m.phase }

// Running reports whether the match has started and not ended.
func (m *Match) Running() bool {
	return m.phase != PhaseLobby && m.phase != PhaseOver
}

// Paused reports whether ticks are suspended.
func (m *Match) Paused() bool { return m.paused }

// Clock returns the elapsed match time.
func (m *Match) Clock() time.Duration { return m.clock }

// Ticks returns the number of ticks simulated.
func (m *Match) Ticks() uint64 { return m.ticks }

// Bounds returns the arena rectangle.
func (m *Match) Bounds() physics.Rect { return m.bounds }

// Players returns the participants in slot order.
func (m *Match) Players() []*object.Player { return m.players }

// Player returns the participant in slot s, or nil.
func (m *Match) Player(s object.Slot) *object.Player {
	for _, p := range m.players {
		if p.Slot == s {
			return p
		}
	}
	return nil
}

// Projectiles returns the live projectiles.
func (m *Match) Projectiles() []*object.Projectile { return m.projectiles }

// Outcome returns the decided outcome, or the zero Outcome while running.
func (m *Match) Outcome() Outcome { return m.outcome }
