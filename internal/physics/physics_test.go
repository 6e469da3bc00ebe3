package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/field"
	"github.com/vovakirdan/jump-rush/internal/level"
)

// stillTick has no gravity and no run speed so each test controls motion.
func stillTick() Tick {
	return Tick{
		Tuning: config.Tuning{
			JumpImpulse:  10,
			OrbImpulse:   12,
			MaxFallSpeed: 100,
		},
		FieldHeight: 600,
		Hazard:      config.Hazard{InsetX: 7, InsetTop: 2, InsetBottom: 6},
	}
}

func playerAt(x, y float64) Player {
	return Player{Rect: core.NewRect(x, y, 20, 20), JumpImpulse: 10}
}

func fieldOf(rows ...[]level.Token) *field.Field {
	return field.New(level.Grid(rows), 32)
}

func TestFallingPlayerLandsOnPlatform(t *testing.T) {
	f := fieldOf([]string{""}, []string{"0"})
	p := playerAt(5, 10)
	p.Vel.Y = 5
	p.JumpRequested = true

	res := Step(&p, f, Input{}, stillTick())

	assert.Equal(t, EventNone, res.Event)
	assert.True(t, p.Grounded)
	assert.Zero(t, p.Vel.Y)
	assert.Equal(t, 32.0, p.Rect.Bottom(), "bottom snaps to the platform top")
	assert.False(t, p.JumpRequested, "landing clears the jump request")
}

func TestRestingPlayerStaysOnPlatform(t *testing.T) {
	f := fieldOf([]string{""}, []string{"0"})
	p := playerAt(5, 12)
	p.Grounded = true
	tick := stillTick()
	tick.Tuning.Gravity = 0.6

	for i := 0; i < 100; i++ {
		res := Step(&p, f, Input{}, tick)
		require.Equal(t, EventNone, res.Event, "tick %d", i)
		require.LessOrEqual(t, p.Rect.Bottom(), 32.0)
	}
	assert.InDelta(t, 32.0, p.Rect.Bottom(), 1.0)
}

func TestJumpFromGround(t *testing.T) {
	f := fieldOf([]string{""}, []string{"0"})
	p := playerAt(5, 12)
	p.Grounded = true

	Step(&p, f, Input{JumpHeld: true}, stillTick())

	assert.Equal(t, -10.0, p.Vel.Y)
	assert.Equal(t, 2.0, p.Rect.Y)
	assert.False(t, p.Grounded)
	assert.True(t, p.JumpRequested)
}

func TestJumpNeedsGround(t *testing.T) {
	p := playerAt(5, 100)
	Step(&p, fieldOf(), Input{JumpHeld: true}, stillTick())
	assert.Zero(t, p.Vel.Y, "no jump in the air")
}

func TestHeadBumpIsNotFatal(t *testing.T) {
	f := fieldOf([]string{"0"}, []string{""})
	p := playerAt(5, 40)
	p.Vel.Y = -10

	res := Step(&p, f, Input{}, stillTick())

	assert.Equal(t, EventNone, res.Event)
	assert.Equal(t, 32.0, p.Rect.Y, "top snaps to the platform bottom")
	assert.False(t, p.Died)
}

func TestWallCollision(t *testing.T) {
	tests := []struct {
		name     string
		ov       Overrides
		wantDied bool
	}{
		{"no overrides", Overrides{}, true},
		{"invincible", Overrides{Invincible: true}, false},
		{"pass spikes", Overrides{PassSpikes: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := fieldOf([]string{"", "0"})
			p := playerAt(10, 5)
			tick := stillTick()
			tick.Tuning.RunSpeed = 5
			tick.Overrides = tc.ov

			res := Step(&p, f, Input{}, tick)

			assert.Equal(t, tc.wantDied, p.Died)
			assert.Equal(t, 32.0, p.Rect.Right(), "trailing edge snaps to the wall")
			assert.Zero(t, p.Vel.X)
			if tc.wantDied {
				assert.Equal(t, EventDeath, res.Event)
				assert.Equal(t, CauseWall, res.Cause)
			}
		})
	}
}

func TestNoClipSkipsCollision(t *testing.T) {
	f := fieldOf([]string{"", "0"}, []string{"", "Spike"})
	p := playerAt(40, 20)
	tick := stillTick()
	tick.Overrides.NoClip = true

	res := Step(&p, f, Input{}, tick)

	assert.Equal(t, EventNone, res.Event)
	assert.False(t, p.Died)
	assert.Equal(t, 40.0, p.Rect.X)
}

func TestSpikeHazardRect(t *testing.T) {
	got := HazardRect(core.NewRect(32, 0, 32, 32), config.Hazard{InsetX: 7, InsetTop: 2, InsetBottom: 6})
	assert.Equal(t, core.NewRect(39, 2, 18, 24), got)

	f := fieldOf([]string{"", "Spike"})
	p := playerAt(14, 5)
	res := Step(&p, f, Input{}, stillTick())
	assert.Equal(t, EventNone, res.Event, "touching the tile outside the hazard is safe")
}

func TestSpikeOverrides(t *testing.T) {
	tests := []struct {
		name     string
		ov       Overrides
		wantDied bool
	}{
		{"no overrides", Overrides{}, true},
		{"noclip", Overrides{NoClip: true}, false},
		{"pass spikes", Overrides{PassSpikes: true}, false},
		{"invincible only", Overrides{Invincible: true}, true},
		{"all", Overrides{NoClip: true, Invincible: true, PassSpikes: true}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := fieldOf([]string{"", "Spike"})
			p := playerAt(30, 5)
			tick := stillTick()
			tick.Overrides = tc.ov

			res := Step(&p, f, Input{}, tick)

			assert.Equal(t, tc.wantDied, p.Died)
			if tc.wantDied {
				assert.Equal(t, CauseSpike, res.Cause)
			}
		})
	}
}

func TestFallOffBoundary(t *testing.T) {
	tests := []struct {
		name     string
		ov       Overrides
		wantDied bool
	}{
		{"no overrides", Overrides{}, true},
		{"noclip", Overrides{NoClip: true}, false},
		{"invincible", Overrides{Invincible: true}, false},
		{"pass spikes", Overrides{PassSpikes: true}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := playerAt(0, 601)
			tick := stillTick()
			tick.Overrides = tc.ov

			res := Step(&p, fieldOf(), Input{}, tick)

			assert.Equal(t, tc.wantDied, p.Died)
			if tc.wantDied {
				assert.Equal(t, EventDeath, res.Event)
				assert.Equal(t, CauseFall, res.Cause)
			}
		})
	}
}

func TestCoinCountsOnce(t *testing.T) {
	f := fieldOf([]string{"Coin"})
	p := playerAt(5, 5)

	res := Step(&p, f, Input{}, stillTick())
	assert.Equal(t, 1, res.Coins, "both passes touch the coin, it counts once")

	res = Step(&p, f, Input{}, stillTick())
	assert.Zero(t, res.Coins)
	assert.Zero(t, f.Remaining(field.KindCoin))
}

func TestEndWinsAndHaltsResolution(t *testing.T) {
	f := fieldOf([]string{"End"}, []string{"Spike"})
	p := playerAt(5, 20)

	res := Step(&p, f, Input{}, stillTick())

	assert.Equal(t, EventWin, res.Event)
	assert.True(t, p.Won)
	assert.False(t, p.Died)

	before := p
	res = Step(&p, f, Input{JumpHeld: true}, stillTick())
	assert.Equal(t, Result{}, res, "a finished life does not advance")
	assert.Equal(t, before, p)
}

func TestOrbBoost(t *testing.T) {
	f := fieldOf([]string{"Orb"})

	p := playerAt(5, 5)
	res := Step(&p, f, Input{JumpHeld: true}, stillTick())
	assert.True(t, res.Orb)
	assert.Equal(t, -12.0, p.Vel.Y)
	assert.Equal(t, 10.0, p.JumpImpulse, "impulse is restored after the boost")

	p = playerAt(5, 5)
	res = Step(&p, f, Input{}, stillTick())
	assert.False(t, res.Orb)
	assert.Zero(t, p.Vel.Y)
}

func TestOrbBoostBeatsJumpWithDefaults(t *testing.T) {
	for _, easy := range []bool{false, true} {
		tick := NewTick(config.DefaultConfig(), Overrides{Easy: easy})
		f := fieldOf([]string{"Orb"})

		p := playerAt(5, 5)
		res := Step(&p, f, Input{JumpHeld: true}, tick)
		require.True(t, res.Orb, "easy=%v", easy)
		assert.Greater(t, -p.Vel.Y, tick.Tuning.JumpImpulse, "easy=%v", easy)
		assert.Equal(t, tick.Tuning.JumpImpulse, p.JumpImpulse, "easy=%v", easy)
	}
}

func TestFallSpeedIsClamped(t *testing.T) {
	p := playerAt(0, 0)
	p.Vel.Y = 2.5
	tick := stillTick()
	tick.Tuning.Gravity = 1
	tick.Tuning.MaxFallSpeed = 3

	Step(&p, fieldOf(), Input{}, tick)
	assert.Equal(t, 3.0, p.Vel.Y)
	assert.Equal(t, 3.0, p.Rect.Y)
}

func TestOutcomePanicsOnBothFlags(t *testing.T) {
	p := Player{Won: true, Died: true}
	assert.Panics(t, func() { p.Outcome() })
}

func TestNewTickEasyMode(t *testing.T) {
	cfg := config.DefaultConfig()
	normal := NewTick(cfg, Overrides{})
	easy := NewTick(cfg, Overrides{Easy: true})

	assert.Less(t, easy.Tuning.Gravity, normal.Tuning.Gravity)
	assert.Equal(t, cfg.Field.Height, normal.FieldHeight)
	assert.Equal(t, cfg.Hazard, easy.Hazard)
}

func TestTerminalFlagsAreExclusive(t *testing.T) {
	cfg := config.DefaultConfig()
	pack, err := level.Builtin(core.V(cfg.Player.SpawnX, cfg.Player.SpawnY))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 40; run++ {
		lvl := pack.Levels[run%pack.Len()]
		ov := Overrides{
			NoClip:     rng.Intn(4) == 0,
			Invincible: rng.Intn(2) == 0,
			PassSpikes: rng.Intn(2) == 0,
			Easy:       rng.Intn(2) == 0,
		}
		tick := NewTick(cfg, ov)
		f := field.New(lvl.Grid, cfg.Field.TileSize)
		p := NewPlayer(lvl.Spawn, cfg.Player.Size, tick.Tuning.JumpImpulse)

		for i := 0; i < 3000 && !p.Terminal(); i++ {
			res := Step(&p, f, Input{JumpHeld: rng.Intn(3) == 0}, tick)
			require.False(t, p.Won && p.Died, "run %d tick %d", run, i)
			require.Equal(t, p.Outcome(), res.Event)
		}
	}
}

func TestPlayerColumn(t *testing.T) {
	p := playerAt(70, 0)
	assert.Equal(t, 2, p.Column(32))
	p.Rect.X = -5
	assert.Equal(t, 0, p.Column(32))
}
