package audio

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain streams s to the end and returns the number of frames and the peak level.
func drain(t *testing.T, c Cue) (int, float64) {
	t.Helper()
	s := Streamer(c, sampleRate)
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for _, f := range buf[:n] {
			for _, v := range f {
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatalf("cue %s never ended", c)
	return 0, 0
}

func TestCuesAreShortAndBounded(t *testing.T) {
	cases := map[Cue]time.Duration{
		CueShot:        40 * time.Millisecond,
		CueHit:         120 * time.Millisecond,
		CueShieldBreak: 300 * time.Millisecond,
		CueMatchEnd:    360 * time.Millisecond,
	}
	for c, d := range cases {
		frames, peak := drain(t, c)
		assert.Equal(t, sampleRate.N(d), frames, c.String())
		assert.Greater(t, peak, 0.0, c.String())
		assert.LessOrEqual(t, peak, 1.0, c.String())
	}
}

func TestToneEnds(t *testing.T) {
	s := NewTone(440, 10*time.Millisecond, WaveSine, 0, sampleRate)
	buf := make([][2]float64, sampleRate.N(time.Second))
	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, sampleRate.N(10*time.Millisecond), n)

	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.NoError(t, s.Err())
}

func TestBellSkipsShots(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out)
	b.Play(CueShot)
	assert.Empty(t, out.String())

	b.Play(CueHit)
	b.Play(CueShieldBreak)
	b.Play(CueMatchEnd)
	assert.Equal(t, "\a\a\a", out.String())
}

func TestPlayerDropsCuesBeforeInit(t *testing.T) {
	p := NewPlayer(nil)
	require.NotPanics(t, func() {
		p.Play(CueHit)
		p.Close()
	})
	assert.Equal(t, 0, p.mixer.Len())
}
