package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed-length oscillator with an exponential decay envelope.
type tone struct {
	freq   float64
	phase  float64
	decay  float64 // Envelope falloff per second
	length int
	pos    int
	wave   Wave
	rate   beep.SampleRate
	rng    *rand.Rand
}

// NewTone returns a streamer that plays freq for d and then ends.
func NewTone(freq float64, d time.Duration, wave Wave, decay float64, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:   freq,
		decay:  decay,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		rng:    rand.New(rand.NewSource(int64(freq * 1000))),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.length {
			return i, i > 0
		}

		var v float64
		switch t.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (t.phase - 0.5)
		case WaveNoise:
			v = t.rng.Float64()*2 - 1
		}
		v *= math.Exp(-t.decay * float64(t.pos) / float64(t.rate))

		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Streamer synthesizes the sound of a cue at the given sample rate.
func Streamer(c Cue, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueShot:
		s = NewTone(880, 40*time.Millisecond, WaveSquare, 30, rate)
	case CueHit:
		s = NewTone(180, 120*time.Millisecond, WaveSaw, 12, rate)
	case CueShieldBreak:
		s = beep.Seq(
			NewTone(0, 200*time.Millisecond, WaveNoise, 10, rate),
			NewTone(90, 100*time.Millisecond, WaveSine, 20, rate),
		)
	case CueMatchEnd:
		s = arpeggio(rate, 90*time.Millisecond, 523.25, 659.25, 783.99, 1046.5)
	default:
		return beep.Silence(0)
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: -2}
}

// arpeggio plays the notes one after another.
func arpeggio(rate beep.SampleRate, each time.Duration, freqs ...float64) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		sine, err := generators.SineTone(rate, f)
		if err != nil {
			continue
		}
		notes = append(notes, beep.Take(rate.N(each), sine))
	}
	return beep.Seq(notes...)
}
