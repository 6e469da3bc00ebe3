package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var fromYAML Config
	require.NoError(t, yaml.Unmarshal(defaultYAML, &fromYAML))
	assert.Equal(t, DefaultConfig(), fromYAML)
}

func TestLoadCustomPathBackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics:\n  game_speed: 1.0\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.Physics.GameSpeed)
	assert.Equal(t, 0.86, cfg.Physics.Gravity, "unset keys keep defaults")
	assert.Equal(t, 32.0, cfg.Field.TileSize)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("field:\n  tile_size: 0\n"), 0o600))
	cfg, err := Load(bad)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "errors fall back to defaults")
}

func TestValidateRejectsNonPositiveThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Progression.UnlockThreshold = 0
	assert.Error(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), "zero.yaml")
	require.NoError(t, os.WriteFile(path, []byte("progression:\n  unlock_threshold: 0\n"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestScaled(t *testing.T) {
	p := DefaultConfig().Physics

	normal := p.Scaled(false)
	assert.InDelta(t, 0.86*0.7, normal.Gravity, 1e-9)
	assert.InDelta(t, 13.5*0.7, normal.JumpImpulse, 1e-9)
	assert.InDelta(t, 12.0, normal.OrbImpulse, 1e-9, "orb impulse ignores the game speed")
	assert.InDelta(t, 6*0.7, normal.RunSpeed, 1e-9)
	assert.Equal(t, 100.0, normal.MaxFallSpeed, "fall cap is not scaled")

	easy := p.Scaled(true)
	assert.InDelta(t, 0.3*0.7, easy.Gravity, 1e-9)
	assert.InDelta(t, 12*0.7, easy.JumpImpulse, 1e-9)
	assert.InDelta(t, 12.0, easy.OrbImpulse, 1e-9)

	p.GameSpeed = 0
	assert.InDelta(t, 0.86, p.Scaled(false).Gravity, 1e-9, "non-positive speed means 1.0")
}

func TestOrbImpulseAlwaysBoosts(t *testing.T) {
	for _, preset := range []Preset{PresetNormal, PresetEasy, PresetSlow, PresetFast} {
		cfg := DefaultConfig()
		easy := ApplyPreset(&cfg, preset)
		tu := cfg.Physics.Scaled(easy)
		assert.Greater(t, tu.OrbImpulse, tu.JumpImpulse, "preset %s", preset)
	}

	p := DefaultConfig().Physics
	p.OrbImpulse = 1
	tu := p.Scaled(false)
	assert.InDelta(t, tu.JumpImpulse*minOrbBoost, tu.OrbImpulse, 1e-9, "weak orbs are raised to the floor")
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset    Preset
		wantEasy  bool
		wantSpeed float64
	}{
		{PresetNormal, false, 0.7},
		{PresetEasy, true, 0.7},
		{PresetSlow, false, 0.5},
		{PresetFast, false, 1.0},
		{"", false, 0.7},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultConfig()
			easy := ApplyPreset(&cfg, tc.preset)
			assert.Equal(t, tc.wantEasy, easy)
			assert.Equal(t, tc.wantSpeed, cfg.Physics.GameSpeed)
		})
	}

	assert.Equal(t, Preset(""), ParsePreset("nightmare"))
	assert.Equal(t, PresetSlow, ParsePreset("slow"))
}

func TestExpandHome(t *testing.T) {
	got, err := ExpandHome("/abs/path.json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.json", got)

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err = ExpandHome("~/.jumprush/save.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".jumprush", "save.json"), got)
}
