// Package config provides YAML-based tuning configuration loading and
// difficulty presets for the game.
package config

// Config contains all tuning for the simulation and progression.
type Config struct {
	Physics     Physics     `yaml:"physics"`
	Player      Player      `yaml:"player"`
	Field       Field       `yaml:"field"`
	Hazard      Hazard      `yaml:"hazard"`
	Progression Progression `yaml:"progression"`
}

// Physics defines per-tick kinematics at a game speed of 1.0.
type Physics struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	OrbImpulse   float64 `yaml:"orb_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	RunSpeed     float64 `yaml:"run_speed"`
	GameSpeed    float64 `yaml:"game_speed"` // < 1.0 slows the game, > 1.0 speeds it up
	EasyGravity  float64 `yaml:"easy_gravity"`
	EasyJump     float64 `yaml:"easy_jump"`
}

// Player defines the player's bounding box and spawn point.
type Player struct {
	Size   float64 `yaml:"size"`
	SpawnX float64 `yaml:"spawn_x"` // Spawn centre, board pixels
	SpawnY float64 `yaml:"spawn_y"`
}

// Field defines the board grid and the visible play area.
type Field struct {
	TileSize float64 `yaml:"tile_size"`
	Height   float64 `yaml:"height"` // Falling below this is fatal
}

// Hazard shrinks the lethal part of a spike tile, in pixels per side.
type Hazard struct {
	InsetX      float64 `yaml:"inset_x"`
	InsetTop    float64 `yaml:"inset_top"`
	InsetBottom float64 `yaml:"inset_bottom"`
}

// Progression defines coin unlock tuning.
type Progression struct {
	UnlockThreshold int `yaml:"unlock_threshold"`
	LeaderboardSize int `yaml:"leaderboard_size"`
}

// Tuning is the effective per-tick physics after the game speed multiplier
// and easy mode are applied.
type Tuning struct {
	Gravity      float64
	JumpImpulse  float64
	OrbImpulse   float64
	MaxFallSpeed float64
	RunSpeed     float64
}

// minOrbBoost is the smallest orb impulse relative to the effective jump.
const minOrbBoost = 1.25

// Scaled returns the effective tuning. Easy mode swaps gravity and jump for
// their easy counterparts before scaling. The orb impulse is not scaled by the
// game speed and never drops below minOrbBoost times the jump, so an orb
// always launches higher than a plain jump.
func (p Physics) Scaled(easy bool) Tuning {
	speed := p.GameSpeed
	if speed <= 0 {
		speed = 1
	}

	gravity, jump := p.Gravity, p.JumpImpulse
	if easy {
		gravity, jump = p.EasyGravity, p.EasyJump
	}

	jump *= speed

	return Tuning{
		Gravity:      gravity * speed,
		JumpImpulse:  jump,
		OrbImpulse:   max(p.OrbImpulse, jump*minOrbBoost),
		MaxFallSpeed: p.MaxFallSpeed,
		RunSpeed:     p.RunSpeed * speed,
	}
}

// Preset represents a named difficulty preset.
type Preset string

const (
	PresetNormal Preset = "normal"
	PresetEasy   Preset = "easy"
	PresetSlow   Preset = "slow"
	PresetFast   Preset = "fast"
)

// ParsePreset maps a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) Preset {
	switch Preset(s) {
	case PresetNormal, PresetEasy, PresetSlow, PresetFast:
		return Preset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a preset.
// It reports whether easy physics should start enabled.
func ApplyPreset(cfg *Config, preset Preset) (easy bool) {
	switch preset {
	case PresetEasy:
		return true
	case PresetSlow:
		cfg.Physics.GameSpeed = 0.5
	case PresetFast:
		cfg.Physics.GameSpeed = 1.0
	}
	return false
}
