package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
)

func testGrid() level.Grid {
	return level.Grid{
		{"", "Coin", "???", "Orb"},
		{"0", "Spike", "T", "End"},
	}
}

func TestNewPlacesObstaclesRowMajor(t *testing.T) {
	f := New(testGrid(), 32)

	require.Equal(t, 6, f.Len(), "empty and unknown tokens are skipped")

	want := []struct {
		kind     Kind
		col, row int
	}{
		{KindCoin, 1, 0},
		{KindOrb, 3, 0},
		{KindPlatform, 0, 1},
		{KindSpike, 1, 1},
		{KindTrick, 2, 1},
		{KindEnd, 3, 1},
	}
	for i, w := range want {
		o := f.At(i)
		assert.Equal(t, w.kind, o.Kind, "obstacle %d", i)
		assert.Equal(t, core.NewRect(float64(w.col)*32, float64(w.row)*32, 32, 32), o.Bounds)
	}

	assert.Equal(t, core.NewRect(0, 0, 128, 64), f.Extent())
	assert.Equal(t, 2, f.Rows())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		tok  level.Token
		want Kind
		ok   bool
	}{
		{"0", KindPlatform, true},
		{"Spike", KindSpike, true},
		{"Coin", KindCoin, true},
		{"Orb", KindOrb, true},
		{"T", KindTrick, true},
		{"End", KindEnd, true},
		{"", 0, false},
		{"spike", 0, false},
	}
	for _, tc := range tests {
		got, ok := KindOf(tc.tok)
		assert.Equal(t, tc.ok, ok, "token %q", tc.tok)
		if ok {
			assert.Equal(t, tc.want, got)
		}
	}

	assert.Equal(t, "coin", KindCoin.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestNearReturnsSpannedColumns(t *testing.T) {
	f := New(testGrid(), 32)

	// Spans columns 1 and 2.
	got := f.Near(core.NewRect(40, 10, 40, 20))
	assert.Equal(t, []int{0, 3, 4}, got)

	assert.Empty(t, f.Near(core.NewRect(-100, 0, 20, 20)))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, f.Near(core.NewRect(-10, 0, 500, 500)))
}

func TestConsumeIsIdempotent(t *testing.T) {
	f := New(testGrid(), 32)
	require.Equal(t, 1, f.Remaining(KindCoin))

	assert.True(t, f.Consume(0))
	assert.False(t, f.Consume(0))
	assert.True(t, f.At(0).Consumed())
	assert.Equal(t, 0, f.Remaining(KindCoin))

	assert.NotContains(t, f.Near(core.NewRect(32, 0, 10, 10)), 0)
}

func TestFieldsAreIndependent(t *testing.T) {
	grid := testGrid()
	a := New(grid, 32)
	a.Consume(0)

	b := New(grid, 32)
	assert.False(t, b.At(0).Consumed(), "a fresh field restores coins")
	assert.Equal(t, level.TokenCoin, grid.At(1, 0), "the grid is never mutated")
}

func TestGoal(t *testing.T) {
	f := New(testGrid(), 32)
	g := f.Goal()
	require.NotNil(t, g)
	assert.Equal(t, 3, g.Col)

	assert.Nil(t, New(level.Grid{{"0"}}, 32).Goal())
}
