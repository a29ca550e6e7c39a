package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsUsesMargin(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 40, Height: 40}

	// 4 units apart: inside the margin on x, aligned on y.
	assert.True(t, Overlaps(a, Rect{X: 44, Y: 0, Width: 40, Height: 40}))
	// Exactly one margin apart is not an overlap (strict comparison).
	assert.False(t, Overlaps(a, Rect{X: 45, Y: 0, Width: 40, Height: 40}))
	// Close on x but far on y.
	assert.False(t, Overlaps(a, Rect{X: 42, Y: 100, Width: 40, Height: 40}))
}

func TestOverlapsIsSymmetric(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 40, Height: 40}
	b := Rect{X: 52, Y: 48, Width: 40, Height: 40}
	assert.Equal(t, Overlaps(a, b), Overlaps(b, a))
}

func TestContainsHasNoMargin(t *testing.T) {
	r := Rect{X: 100, Y: 100, Width: 40, Height: 40}

	assert.True(t, Contains(r, 120, 120))
	assert.True(t, Contains(r, 100, 140), "edges are inclusive")
	assert.False(t, Contains(r, 99, 120))
	assert.False(t, Contains(r, 120, 141))
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 40, Height: 30}
	cx, cy := r.Center()
	assert.Equal(t, 30.0, cx)
	assert.Equal(t, 35.0, cy)
	assert.True(t, r.Inside(Rect{Width: 100, Height: 100}))
	assert.False(t, r.Inside(Rect{Width: 45, Height: 100}))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(0, 0, 3, 4))
	assert.Equal(t, 25.0, DistanceSquared(0, 0, 3, 4))
	assert.Equal(t, 5.0, Clamp(12, -5, 5))
	assert.Equal(t, -5.0, Clamp(-12, -5, 5))
}
