package config

import (
	_ "embed"
)

//go:embed defaults/jumprush.yaml
var defaultYAML []byte

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Physics: Physics{
			Gravity:      0.86,
			JumpImpulse:  13.5,
			OrbImpulse:   12,
			MaxFallSpeed: 100,
			RunSpeed:     6,
			GameSpeed:    0.7,
			EasyGravity:  0.3,
			EasyJump:     12,
		},
		Player: Player{
			Size:   20,
			SpawnX: 150,
			SpawnY: 150,
		},
		Field: Field{
			TileSize: 32,
			Height:   600,
		},
		Hazard: Hazard{
			InsetX:      7,
			InsetTop:    2,
			InsetBottom: 6,
		},
		Progression: Progression{
			UnlockThreshold: 15,
			LeaderboardSize: 10,
		},
	}
}
