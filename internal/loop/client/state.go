package client

import (
	"time"

	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/loop"
)

// GameState is the screen a client is on.
type GameState int

const (
	GameStateStart    GameState = iota // Mode selection
	GameStatePlaying                   // Match in progress, including intro and pause
	GameStateOver                      // Match decided, show the result
	GameStateShutdown                  // Host is shutting down
)

// ClientState holds per-connection UI state. The match itself lives in Client.
type ClientState struct {
	Input         input.Keys
	prevInput     input.Keys
	GameState     GameState
	prevGameState GameState
	Mode          loop.Mode // Highlighted on the start screen, reused for rematches
	Running       bool
	delta         time.Duration
	shutdownTimer float64       // Seconds left before auto-disconnect on shutdown
	overGrace     time.Duration // Confirm is ignored on the result screen until this runs out
	isInactive    bool
	wasInactive   bool
	wasPaused     bool
}

// NewClientState creates a client state on the start screen.
func NewClientState(mode loop.Mode) *ClientState {
	return &ClientState{
		GameState:     GameStateStart,
		prevGameState: GameStateStart,
		Mode:          mode,
		Running:       true,
	}
}

// Terminals only report presses, so menu keys are read as edges of the held state.

func (s *ClientState) pausePressed() bool   { return s.Input.Pause && !s.prevInput.Pause }
func (s *ClientState) confirmPressed() bool { return s.Input.Confirm && !s.prevInput.Confirm }
func (s *ClientState) backPressed() bool    { return s.Input.Back && !s.prevInput.Back }

// numberPressed returns the newly pressed number key, or 0.
func (s *ClientState) numberPressed() int {
	if s.Input.Number > 0 && s.Input.Number != s.prevInput.Number {
		return s.Input.Number
	}
	return 0
}

// modeForNumber maps the start-screen number keys to modes.
func modeForNumber(n int) (loop.Mode, bool) {
	switch n {
	case 1:
		return loop.ModeDuo, true
	case 2:
		return loop.ModeSolo, true
	case 3:
		return loop.ModeTrio, true
	default:
		return 0, false
	}
}
