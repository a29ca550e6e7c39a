package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals never report key releases, so holding relies on auto-repeat.
const keyHoldDuration = 60 * time.Millisecond

// escWait is how long a lone ESC may wait for the rest of an arrow sequence
// before it counts as the Esc key.
const escWait = 30 * time.Millisecond

// Slots is the number of player slots a keyboard snapshot covers.
const Slots = 3

// Action is the held state of one player's logical controls.
type Action struct {
	Up     bool
	Down   bool
	Left   bool
	Right  bool
	Shoot  bool
	Shield bool
}

// Keys is the per-tick snapshot of held controls for every slot plus the
// menu keys the host cares about.
type Keys struct {
	Slots   [Slots]Action // Indexed by slot-1
	Pause   bool
	Quit    bool
	Confirm bool
	Back    bool
	Number  int
	Pressed []byte
}

// For returns the controls of the given 1-based slot.
// Unknown slots have nothing held.
func (k Keys) For(slot int) Action {
	if slot < 1 || slot > Slots {
		return Action{}
	}
	return k.Slots[slot-1]
}

// actionState tracks the last time each control of one slot was pressed.
type actionState struct {
	up, down, left, right time.Time
	shoot, shield         time.Time
}

func (a actionState) held(now time.Time) Action {
	return Action{
		Up:     now.Sub(a.up) < keyHoldDuration,
		Down:   now.Sub(a.down) < keyHoldDuration,
		Left:   now.Sub(a.left) < keyHoldDuration,
		Right:  now.Sub(a.right) < keyHoldDuration,
		Shoot:  now.Sub(a.shoot) < keyHoldDuration,
		Shield: now.Sub(a.shield) < keyHoldDuration,
	}
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	slots     [Slots]actionState
	pause     time.Time
	quit      time.Time
	confirm   time.Time
	back      time.Time
	number    time.Time
	numberVal int

	// Escape sequences may be split across reads.
	esc   escState
	escAt time.Time
}

type escState int

const (
	escNone escState = iota
	escStarted           // ESC seen
	escIntroduced        // ESC [ or ESC O seen, waiting for the final byte
)

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ResetKeyInput forgets every recorded press so keys held on a previous
// screen do not leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
func ReadInput(s *Stream) Keys {
	return readAt(s, time.Now())
}

func readAt(s *Stream, now time.Time) Keys {
	var buf []byte
	closed := false

	// Drain all available bytes
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	applyBytes(&s.state, buf, now)
	flushEscape(&s.state, now)

	keys := Keys{
		Pause:   now.Sub(s.state.pause) < keyHoldDuration,
		Quit:    closed || now.Sub(s.state.quit) < keyHoldDuration,
		Confirm: now.Sub(s.state.confirm) < keyHoldDuration,
		Back:    now.Sub(s.state.back) < keyHoldDuration,
		Number:  -1,
		Pressed: buf,
	}
	for i := range s.state.slots {
		keys.Slots[i] = s.state.slots[i].held(now)
	}

	// Number is only set if recently pressed
	if now.Sub(s.state.number) < keyHoldDuration {
		keys.Number = s.state.numberVal
	}

	return keys
}

// applyBytes updates the key state timestamps from raw terminal bytes.
// Arrow keys arrive as CSI (ESC [ A) or, in application cursor mode, SS3
// (ESC O A) sequences and drive player 2.
func applyBytes(state *keyState, buf []byte, now time.Time) {
	for _, b := range buf {
		switch state.esc {
		case escStarted:
			if b == '[' || b == 'O' {
				state.esc = escIntroduced
				continue
			}
			// Lone ESC followed by an ordinary key.
			state.back = state.escAt
			state.esc = escNone
		case escIntroduced:
			// Parameter and intermediate bytes, e.g. ESC [ 1 ; 2 A.
			if b >= 0x20 && b <= 0x3f {
				continue
			}
			state.esc = escNone
			applyArrow(state, b, now)
			continue
		}

		if b == '\x1b' {
			state.esc = escStarted
			state.escAt = now
			continue
		}
		applyByteToState(state, b, now)
	}
}

// flushEscape resolves an escape sequence that did not complete within
// escWait: a lone ESC is the Esc key, a truncated sequence is dropped.
func flushEscape(state *keyState, now time.Time) {
	if state.esc == escNone || now.Sub(state.escAt) < escWait {
		return
	}
	if state.esc == escStarted {
		state.back = now
	}
	state.esc = escNone
}

// applyArrow handles the final byte of an escape sequence.
func applyArrow(state *keyState, b byte, now time.Time) {
	p2 := &state.slots[1]
	switch b {
	case 'A':
		p2.up = now
	case 'B':
		p2.down = now
	case 'C':
		p2.right = now
	case 'D':
		p2.left = now
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
// Player 1: WASD, SPACE shoot, Q shield. Player 2: arrows, ENTER shoot, M shield.
func applyByteToState(state *keyState, b byte, now time.Time) {
	p1 := &state.slots[0]
	p2 := &state.slots[1]
	switch b {
	case 'w', 'W':
		p1.up = now
	case 's', 'S':
		p1.down = now
	case 'a', 'A':
		p1.left = now
	case 'd', 'D':
		p1.right = now
	case ' ':
		p1.shoot = now
		state.confirm = now
	case 'q', 'Q':
		p1.shield = now
	case '\n', '\r':
		p2.shoot = now
		state.confirm = now
	case 'm', 'M':
		p2.shield = now
	case 'p', 'P':
		state.pause = now
	case '\x03':
		state.quit = now
	case '1', '2', '3':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
