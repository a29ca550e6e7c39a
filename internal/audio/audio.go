// Package audio turns match events into short sound cues.
package audio

import (
	"fmt"
	"io"
	"sync"
)

// Cue is a sound the host asks for.
type Cue int

const (
	CueShot Cue = iota
	CueHit
	CueShieldBreak
	CueMatchEnd
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueHit:
		return "hit"
	case CueShieldBreak:
		return "shield-break"
	case CueMatchEnd:
		return "match-end"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// Sink plays cues. Play must return quickly; it is called from the frame loop.
type Sink interface {
	Play(c Cue)
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(Cue) {}

// Bell rings the terminal bell for cues worth an interruption.
// Shots are too frequent to ring on.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play(c Cue) {
	if c == CueShot {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, "\a")
}

var (
	_ Sink = Nop{}
	_ Sink = (*Bell)(nil)
	_ Sink = (*Player)(nil)
)
