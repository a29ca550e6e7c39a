package client

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomz197/arena/internal/draw"
	"github.com/tomz197/arena/internal/loop"
	"github.com/tomz197/arena/internal/loop/config"
	"github.com/tomz197/arena/internal/physics"
)

// Projectiles are points; they are drawn as small squares of this size.
const projectileDrawSize = 8.0

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or overlay transitions, do a full terminal clear so text from
	// the previous screen doesn't persist.
	paused := c.match != nil && c.match.Paused()
	if c.state.GameState != c.state.prevGameState || c.state.isInactive != c.state.wasInactive || paused != c.state.wasPaused {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.wasPaused = paused
	}

	c.canvas.Clear()

	var snap loop.Snapshot
	if c.match != nil && c.state.GameState != GameStateStart {
		snap = c.match.Snapshot()
		c.drawArena(snap)
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawArena paints players, shields and projectiles onto the canvas.
func (c *Client) drawArena(s loop.Snapshot) {
	for _, p := range s.Players {
		col := draw.ParseColor(p.Color)
		if p.Health <= 0 {
			col = draw.ColorGray
		}
		c.canvas.FillRect(p.X, p.Y, p.Width, p.Height, col)
		if p.ShieldActive {
			m := physics.Margin + 2
			c.canvas.StrokeRect(p.X-m, p.Y-m, p.Width+2*m, p.Height+2*m, draw.ColorCyan)
		}
	}
	half := projectileDrawSize / 2
	for _, pr := range s.Projectiles {
		c.canvas.FillRect(pr.X-half, pr.Y-half, projectileDrawSize, projectileDrawSize, draw.ColorYellow)
	}
}

// text writes s at a canvas position and marks the cells so the canvas
// repaints them next frame.
func (c *Client) text(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, draw.TextWidth(s))
}

func (c *Client) colorText(col, row int, color draw.Color, s string) {
	c.chunkWriter.WriteColorAt(col, row, color, s)
	c.canvas.MarkTextDirty(col, row, draw.TextWidth(s))
}

func (c *Client) centered(row int, s string) {
	col := c.canvas.TerminalWidth()/2 + 1 - draw.TextWidth(s)/2
	if col < 1 {
		col = 1
	}
	c.text(col, row, s)
}

func (c *Client) centeredLines(top int, lines []string) {
	width := 0
	for _, l := range lines {
		if w := draw.TextWidth(l); w > width {
			width = w
		}
	}
	col := c.canvas.TerminalWidth()/2 + 1 - width/2
	if col < 1 {
		col = 1
	}
	for i, l := range lines {
		c.text(col, top+i, l)
	}
}

func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(s loop.Snapshot) {
	centerY := c.canvas.TerminalHeight() / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch c.state.GameState {
	case GameStateStart:
		c.drawStartScreen(centerY)
	case GameStatePlaying:
		c.drawPlayingHUD(s)
		switch {
		case s.Paused:
			c.drawPauseOverlay(centerY)
		case s.Phase == loop.PhaseAnnounce.String():
			c.centered(centerY, announcement(s))
		}
	case GameStateOver:
		c.drawPlayingHUD(s)
		c.drawOverScreen(centerY, s)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.centered(centerY-2, "INACTIVITY WARNING")
	c.centered(centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.centered(centerY+2, "Press any key to continue")
}

var titleArt = []string{
	`    _   ___ ___ _  _  _   `,
	`   /_\ | _ \ __| \| |/_\  `,
	`  / _ \|   / _|| .` + "`" + ` / _ \ `,
	` /_/ \_\_|_\___|_|\_/_/ \_\`,
}

var modeLines = []struct {
	mode loop.Mode
	text string
}{
	{loop.ModeDuo, "1  Duo   . . .  two players, one keyboard"},
	{loop.ModeSolo, "2  Solo  . . .  you against the computer"},
	{loop.ModeTrio, "3  Trio  . . .  two players and the computer"},
}

// drawStartScreen draws the title and mode selection.
func (c *Client) drawStartScreen(centerY int) {
	top := centerY - 9
	c.centeredLines(top, titleArt)
	c.centered(top+len(titleArt)+1, "~ A terminal arena shooter ~")

	y := top + len(titleArt) + 3
	c.centered(y, "Choose a mode")
	lines := make([]string, len(modeLines))
	for i, m := range modeLines {
		marker := "  "
		if m.mode == c.state.Mode {
			marker = "> "
		}
		lines[i] = marker + m.text
	}
	c.centeredLines(y+1, lines)

	y += len(lines) + 2
	c.centeredLines(y, controlLines(loop.ModeTrio))

	if blinkOn() {
		c.centered(y+5, ">>  Press 1-3 or SPACE to Start  <<")
	} else {
		c.centered(y+5, strings.Repeat(" ", 36))
	}
}

// controlLines lists the keys each human player uses in mode.
func controlLines(mode loop.Mode) []string {
	lines := []string{"Player 1   W A S D move   SPACE shoot   Q shield"}
	if mode != loop.ModeSolo {
		lines = append(lines, "Player 2   arrows move    ENTER shoot   M shield")
	}
	return append(lines, "P pause    Ctrl+C quit")
}

// announcement is the "who fights whom" line shown before the fight.
func announcement(s loop.Snapshot) string {
	var humans, computers []string
	for _, p := range s.Players {
		if p.Computer {
			computers = append(computers, p.Name)
		} else {
			humans = append(humans, p.Name)
		}
	}
	if len(computers) == 0 && len(humans) == 2 {
		return humans[0] + " vs " + humans[1]
	}
	return strings.Join(humans, ", ") + " vs " + strings.Join(computers, ", ")
}

// bar renders value/max as a fixed-width gauge.
func bar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(value / max * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(string(draw.BlockFull), filled) + strings.Repeat(string(draw.BlockLight), width-filled)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// drawPlayingHUD draws health and shield gauges for every player across the
// top rows, names above the boxes and the controls hint at the bottom.
// Fields use fixed widths so shrinking values don't leave residual characters.
func (c *Client) drawPlayingHUD(s loop.Snapshot) {
	if len(s.Players) == 0 {
		return
	}
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	slotWidth := termWidth / len(s.Players)
	barWidth := slotWidth - 12
	if barWidth > 20 {
		barWidth = 20
	}

	for i, p := range s.Players {
		col := 2 + i*slotWidth
		color := draw.ParseColor(p.Color)

		name := fmt.Sprintf("%-*s", config.MaxNameLength, truncate(p.Name, slotWidth-2))
		c.colorText(col, 1, color, truncate(name, slotWidth-2))

		c.text(col, 2, fmt.Sprintf("HP %s %3d", bar(float64(p.Health), config.MaxHealth, barWidth), p.Health))

		state := "   "
		switch {
		case p.ShieldBroken:
			state = "OUT"
		case p.ShieldActive:
			state = " UP"
		}
		shieldLine := fmt.Sprintf("SH %s %s", bar(p.Shield, config.MaxShield, barWidth), state)
		if p.ShieldActive {
			c.colorText(col, 3, draw.ColorCyan, shieldLine)
		} else {
			c.text(col, 3, shieldLine)
		}
	}

	c.drawPlayerNames(s)

	if termHeight > 6 {
		mode, _ := loop.ParseMode(s.Mode)
		hint := strings.Join(controlLines(mode), "  |  ")
		c.text(2, termHeight, truncate(hint, termWidth-2))
	}
}

// drawPlayerNames labels each box with its player's name.
func (c *Client) drawPlayerNames(s loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	for _, p := range s.Players {
		col, row := c.canvas.LogicalToTerminal(p.X+p.Width/2, p.Y)
		row--
		col -= draw.TextWidth(p.Name) / 2
		if row < 5 || col < 1 || col+draw.TextWidth(p.Name) > termWidth {
			continue
		}
		c.colorText(col, row, draw.ParseColor(p.Color), p.Name)
	}
}

// drawPauseOverlay draws the pause box over the arena.
func (c *Client) drawPauseOverlay(centerY int) {
	c.centeredLines(centerY-2, []string{
		"┌────────────────────────┐",
		"│         PAUSED         │",
		"│                        │",
		"│   Press P to resume    │",
		"└────────────────────────┘",
	})
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawOverScreen draws the result and the rematch prompt.
func (c *Client) drawOverScreen(centerY int, s loop.Snapshot) {
	top := centerY - 5
	c.centeredLines(top, gameOverArt)

	result := "Nobody survived. It's a draw."
	if !s.Draw {
		result = s.Winner + " wins!"
	}
	c.centered(top+len(gameOverArt)+1, result)

	prompt := strings.Repeat(" ", 44)
	if blinkOn() {
		prompt = ">>  SPACE to play again   ESC for menu  <<"
	}
	c.centered(top+len(gameOverArt)+3, prompt)
}

// drawShutdownScreen draws the shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	c.centered(centerY-3, "SERVER SHUTTING DOWN")
	c.centered(centerY-1, "The server is restarting for maintenance.")
	c.centered(centerY, "Please reconnect in a moment.")
	c.centered(centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1))
	c.centered(centerY+4, "Press Ctrl+C to disconnect now")
}
