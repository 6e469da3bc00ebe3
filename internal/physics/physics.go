// Package physics advances the player one tick at a time and resolves contact
// against the obstacle field.
//
// Step is a function of (player, field, input, tick config). It mutates the
// player and consumes coins in the field, and touches nothing else.
package physics

import (
	"math"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/field"
)

// Overrides are the run-time debug toggles. Each one suppresses a specific
// death condition and they combine additively.
type Overrides struct {
	NoClip     bool // Skip all collision resolution
	Invincible bool // Ignore wall and fall deaths
	PassSpikes bool // Ignore spike deaths
	Easy       bool // Softer gravity and jump
}

// Any reports whether a death-suppressing override is active.
func (o Overrides) Any() bool {
	return o.NoClip || o.Invincible || o.PassSpikes
}

// Input is the player's intent for one tick.
type Input struct {
	JumpHeld bool
}

// Tick is the per-tick configuration threaded into Step.
type Tick struct {
	Tuning      config.Tuning
	FieldHeight float64 // Falling with the top edge below this is fatal
	Hazard      config.Hazard
	Overrides   Overrides
}

// NewTick derives the tick configuration from the loaded config.
func NewTick(cfg config.Config, ov Overrides) Tick {
	return Tick{
		Tuning:      cfg.Physics.Scaled(ov.Easy),
		FieldHeight: cfg.Field.Height,
		Hazard:      cfg.Hazard,
		Overrides:   ov,
	}
}

// Event is the terminal outcome of a tick.
type Event uint8

const (
	EventNone Event = iota
	EventWin
	EventDeath
)

func (e Event) String() string {
	switch e {
	case EventWin:
		return "win"
	case EventDeath:
		return "death"
	default:
		return "none"
	}
}

// Cause explains a death.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseSpike
	CauseWall
	CauseFall
)

func (c Cause) String() string {
	switch c {
	case CauseSpike:
		return "spike"
	case CauseWall:
		return "wall"
	case CauseFall:
		return "fall"
	default:
		return "none"
	}
}

// Result summarises one tick.
type Result struct {
	Event Event
	Cause Cause
	Coins int  // Coins picked up this tick
	Orb   bool // An orb boost fired this tick
}

// Player is the kinematic state of one life.
type Player struct {
	Rect          core.Rect
	Vel           core.Vec
	Grounded      bool
	JumpRequested bool
	JumpImpulse   float64
	Won           bool
	Died          bool
}

// NewPlayer returns a player of the given size centred on spawn, at rest.
func NewPlayer(spawn core.Vec, size, jumpImpulse float64) Player {
	return Player{
		Rect:        core.RectCentered(spawn, size, size),
		JumpImpulse: jumpImpulse,
	}
}

// Terminal reports whether the life has ended.
func (p *Player) Terminal() bool {
	return p.Won || p.Died
}

// Outcome maps the terminal flags to an event.
// Both flags set at once is a resolver bug and panics.
func (p *Player) Outcome() Event {
	switch {
	case p.Won && p.Died:
		panic("physics: player both won and died")
	case p.Won:
		return EventWin
	case p.Died:
		return EventDeath
	}
	return EventNone
}

// Column returns the tile column under the player's left edge.
func (p *Player) Column(tileSize float64) int {
	if tileSize <= 0 {
		return 0
	}
	return max(int(math.Floor(p.Rect.X/tileSize)), 0)
}

// HazardRect returns the lethal part of a spike tile.
func HazardRect(tile core.Rect, h config.Hazard) core.Rect {
	return tile.Inset(h.InsetX, h.InsetTop, h.InsetX, h.InsetBottom)
}

// Step advances the player by one tick. A player that has already won or
// died is left untouched.
func Step(p *Player, f *field.Field, in Input, t Tick) Result {
	var res Result
	if p.Terminal() {
		return res
	}
	tu := t.Tuning
	p.JumpImpulse = tu.JumpImpulse

	if in.JumpHeld {
		p.JumpRequested = true
	}
	if p.JumpRequested && p.Grounded {
		p.jump()
	}

	if !p.Grounded {
		p.Vel.Y = math.Min(p.Vel.Y+tu.Gravity, tu.MaxFallSpeed)
	}

	p.Vel.X = tu.RunSpeed
	p.Rect.X += p.Vel.X

	r := resolver{p: p, f: f, in: in, t: t, res: &res}
	r.pass(0)

	if !p.Terminal() {
		p.Rect.Y += p.Vel.Y
		p.Grounded = false
		r.pass(p.Vel.Y)
	}

	if !p.Terminal() && p.Rect.Y > t.FieldHeight {
		if !t.Overrides.NoClip && !t.Overrides.Invincible {
			p.Died = true
			res.Cause = CauseFall
		}
	}

	res.Event = p.Outcome()
	return res
}

func (p *Player) jump() {
	p.Vel.Y = -p.JumpImpulse
}

type resolver struct {
	p   *Player
	f   *field.Field
	in  Input
	t   Tick
	res *Result
}

// pass resolves contacts for one axis. dy is the vertical displacement
// applied before the pass; zero means the horizontal pass.
// Resolution stops as soon as the player wins or dies.
func (r *resolver) pass(dy float64) {
	if r.t.Overrides.NoClip || r.f == nil {
		return
	}
	p := r.p
	ov := r.t.Overrides

	// Platform snaps can shift the player up to a tile sideways.
	tile := r.f.TileSize()
	for _, i := range r.f.Near(p.Rect.Inset(-tile, 0, -tile, 0)) {
		o := r.f.At(i)
		if o.Consumed() || !p.Rect.Intersects(o.Bounds) {
			continue
		}

		switch o.Kind {
		case field.KindOrb:
			if r.in.JumpHeld {
				p.JumpImpulse = r.t.Tuning.OrbImpulse
				p.jump()
				p.JumpImpulse = r.t.Tuning.JumpImpulse
				r.res.Orb = true
			}

		case field.KindEnd:
			p.Won = true

		case field.KindSpike:
			if !ov.PassSpikes && p.Rect.Intersects(HazardRect(o.Bounds, r.t.Hazard)) {
				p.Died = true
				r.res.Cause = CauseSpike
			}

		case field.KindCoin:
			if r.f.Consume(i) {
				r.res.Coins++
			}

		case field.KindPlatform:
			r.platform(o.Bounds, dy)

		case field.KindTrick:
			// Passable.
		}

		if p.Terminal() {
			return
		}
	}
}

func (r *resolver) platform(b core.Rect, dy float64) {
	p := r.p
	switch {
	case dy > 0:
		p.Rect.SetBottom(b.Y)
		p.Vel.Y = 0
		p.Grounded = true
		p.JumpRequested = false
	case dy < 0:
		p.Rect.Y = b.Bottom()
	default:
		p.Vel.X = 0
		p.Rect.SetRight(b.X)
		if !r.t.Overrides.Invincible {
			p.Died = true
			r.res.Cause = CauseWall
		}
	}
}
