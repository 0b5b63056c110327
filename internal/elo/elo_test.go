package elo_test

import (
	"testing"

	"github.com/pongclub/rally/internal/elo"
	"github.com/stretchr/testify/assert"
)

func TestExpected(t *testing.T) {
	t.Run("equal ratings are a coin flip", func(t *testing.T) {
		assert.InDelta(t, 0.5, elo.Expected(1200, 1200), 1e-9)
		assert.InDelta(t, 0.5, elo.Expected(950, 950), 1e-9)
		assert.InDelta(t, 0.5, elo.Expected(1780, 1780), 1e-9)
	})

	t.Run("strictly increasing in the first argument", func(t *testing.T) {
		prev := elo.Expected(800, 1200)
		for rating := 850; rating <= 1600; rating += 50 {
			cur := elo.Expected(rating, 1200)
			assert.Greater(t, cur, prev, "expected score should grow with rating %d", rating)
			prev = cur
		}
	})

	t.Run("complementary", func(t *testing.T) {
		assert.InDelta(t, 1.0, elo.Expected(1300, 1100)+elo.Expected(1100, 1300), 1e-9)
	})
}

func TestChange(t *testing.T) {
	// K=32 reference values.
	assert.Equal(t, 1216, elo.Change(1200, 1200, 1))
	assert.Equal(t, 1184, elo.Change(1200, 1200, 0))

	t.Run("upsets move more points", func(t *testing.T) {
		underdogGain := elo.Change(1100, 1400, 1) - 1100
		favouriteGain := elo.Change(1400, 1100, 1) - 1400
		assert.Greater(t, underdogGain, favouriteGain)
	})

	t.Run("losing never gains points", func(t *testing.T) {
		assert.LessOrEqual(t, elo.Change(1100, 1500, 0), 1100)
	})
}

func TestDelta(t *testing.T) {
	t.Run("equal teams exchange half of K", func(t *testing.T) {
		assert.Equal(t, 16, elo.Delta(1200, 1200, 1))
		assert.Equal(t, -16, elo.Delta(1200, 1200, 0))
	})

	t.Run("works with fractional team averages", func(t *testing.T) {
		win := elo.Delta(1250.5, 1199.5, 1)
		loss := elo.Delta(1199.5, 1250.5, 0)
		assert.Greater(t, win, 0)
		assert.Less(t, loss, 0)
	})
}
