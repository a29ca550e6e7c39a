// Package client runs one terminal connection: it reads keys, drives a match
// and renders it with the draw package.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tomz197/arena/internal/audio"
	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/input"
	"github.com/tomz197/arena/internal/loop"
	"github.com/tomz197/arena/internal/loop/config"
)

// maxTickDelta caps the match time one frame may advance after a stall.
const maxTickDelta = 250 * time.Millisecond

// Spectators receives live matches for read-only viewers.
type Spectators interface {
	Register(mode loop.Mode) uuid.UUID
	Publish(id uuid.UUID, s loop.Snapshot)
	Record(events []loop.Event, tick time.Duration)
	Unregister(id uuid.UUID)
}

// Client handles rendering and input for a single terminal.
type Client struct {
	state        *ClientState
	match        *loop.Match
	matchID      uuid.UUID
	lastPublish  time.Time
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc

	names      [2]string
	skipIntro  bool
	kickIdle   bool
	sink       audio.Sink
	spectators Spectators
	log        *zap.SugaredLogger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Names        [2]string // Display names for slots 1 and 2
	Mode         loop.Mode // Preselected mode
	AutoStart    bool      // Skip the start screen and play Mode right away
	SkipIntro    bool
	KickIdle     bool       // Disconnect after a period without input
	Sink         audio.Sink // Defaults to audio.Nop
	Spectators   Spectators // Optional
	Logger       *zap.SugaredLogger
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	sink := opts.Sink
	if sink == nil {
		sink = audio.Nop{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	state := NewClientState(opts.Mode)

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ArenaWidth, config.ArenaHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		state:        state,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		names:        opts.Names,
		skipIntro:    opts.SkipIntro,
		kickIdle:     opts.KickIdle,
		sink:         sink,
		spectators:   opts.Spectators,
		log:          log,
	}
	if opts.AutoStart {
		if err := c.startMatch(opts.Mode); err != nil {
			log.Warnw("auto start failed", "mode", opts.Mode.String(), "error", err)
		}
	}
	return c
}

// Run drives the client until the user quits. Cancelling ctx shows the
// shutdown screen and disconnects after config.ShutdownDisplaySeconds.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.leaveMatch()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()

		if ctx.Err() != nil && c.state.GameState != GameStateShutdown {
			c.state.GameState = GameStateShutdown
			c.state.shutdownTimer = config.ShutdownDisplaySeconds
		}

		c.updateScreen()

		var err error
		switch c.state.GameState {
		case GameStateStart:
			err = c.updateStartState()
		case GameStatePlaying:
			err = c.updatePlayingState()
		case GameStateOver:
			err = c.updateOverState()
		case GameStateShutdown:
			c.updateShutdownState()
		}
		if err != nil {
			return err
		}

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads this frame's keys and tracks inactivity.
func (c *Client) processInput() {
	c.state.prevInput = c.state.Input
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if c.kickIdle {
		idle := time.Since(c.lastInput).Seconds()
		switch {
		case idle > config.InactivityDisconnectUser:
			c.state.Running = false
		case idle > config.InactivityWarnUser:
			c.state.isInactive = true
		}
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// Any change clears the terminal so no pixels survive outside the new area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles mode selection.
func (c *Client) updateStartState() error {
	if n := c.state.numberPressed(); n > 0 {
		if mode, ok := modeForNumber(n); ok {
			return c.startMatch(mode)
		}
	}
	if c.state.confirmPressed() {
		return c.startMatch(c.state.Mode)
	}
	return nil
}

// startMatch creates a fresh match in mode and switches to the playing screen.
func (c *Client) startMatch(mode loop.Mode) error {
	input.ResetKeyInput(c.inputStream)
	c.state.Input = input.Keys{}

	m, err := loop.NewMatch(loop.Settings{
		Mode:      mode,
		Names:     c.names,
		SkipIntro: c.skipIntro,
		Logger:    c.log,
	})
	if err != nil {
		return fmt.Errorf("new match: %w", err)
	}
	if err := m.Start(); err != nil {
		return fmt.Errorf("start match: %w", err)
	}

	c.leaveMatch()
	c.match = m
	c.state.Mode = mode
	c.state.GameState = GameStatePlaying
	if c.spectators != nil {
		c.matchID = c.spectators.Register(mode)
		c.publish(true)
	}
	return nil
}

// updatePlayingState advances the match by one frame.
func (c *Client) updatePlayingState() error {
	if c.state.pausePressed() {
		c.match.TogglePause()
	}

	dt := c.state.delta
	if dt > maxTickDelta {
		dt = maxTickDelta
	}

	tickStart := time.Now()
	if err := c.match.Tick(dt, c.state.Input); err != nil && !errors.Is(err, loop.ErrMatchOver) {
		return fmt.Errorf("tick: %w", err)
	}
	tickTime := time.Since(tickStart)

	events := c.match.Events()
	for _, e := range events {
		if cue, ok := cueFor(e.Kind); ok {
			c.sink.Play(cue)
		}
	}
	if c.spectators != nil && !c.match.Paused() {
		c.spectators.Record(events, tickTime)
	}

	if c.match.Phase() == loop.PhaseOver {
		c.state.GameState = GameStateOver
		c.state.overGrace = config.RematchGrace
		c.publish(true)
		c.leaveMatchFeed()
		return nil
	}
	c.publish(false)
	return nil
}

// updateOverState offers a rematch or a return to the start screen.
func (c *Client) updateOverState() error {
	if c.state.overGrace > 0 {
		c.state.overGrace -= c.state.delta
	}
	switch {
	case c.state.confirmPressed() && c.state.overGrace <= 0:
		return c.startMatch(c.state.Mode)
	case c.state.backPressed():
		c.leaveMatch()
		c.state.GameState = GameStateStart
	}
	return nil
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// publish hands a snapshot to the spectators, at most config.SpectateRate times
// per second unless forced.
func (c *Client) publish(force bool) {
	if c.spectators == nil || c.match == nil || c.matchID == uuid.Nil {
		return
	}
	if !force && time.Since(c.lastPublish) < config.SpectateInterval {
		return
	}
	c.lastPublish = time.Now()
	c.spectators.Publish(c.matchID, c.match.Snapshot())
}

// leaveMatchFeed removes the current match from the spectator feed.
func (c *Client) leaveMatchFeed() {
	if c.spectators != nil && c.matchID != uuid.Nil {
		c.spectators.Unregister(c.matchID)
	}
	c.matchID = uuid.Nil
}

// leaveMatch drops the current match, if any.
func (c *Client) leaveMatch() {
	c.leaveMatchFeed()
	c.match = nil
}

// cueFor maps a match event to its sound.
func cueFor(k loop.EventKind) (audio.Cue, bool) {
	switch k {
	case loop.EventShotFired:
		return audio.CueShot, true
	case loop.EventPlayerHit:
		return audio.CueHit, true
	case loop.EventShieldBroken:
		return audio.CueShieldBreak, true
	case loop.EventMatchEnded:
		return audio.CueMatchEnd, true
	default:
		return 0, false
	}
}
