package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/jump-rush/internal/core"
)

// ManifestFile is the name of the pack manifest inside a level directory.
const ManifestFile = "levels.yaml"

//go:embed levels
var builtinFS embed.FS

// Manifest is the YAML structure of a level pack.
type Manifest struct {
	Levels []ManifestEntry `yaml:"levels"`
}

// ManifestEntry describes a single level in the pack manifest.
type ManifestEntry struct {
	Name  string     `yaml:"name"`
	File  string     `yaml:"file"`
	Spawn *YAMLPoint `yaml:"spawn,omitempty"`
	Music string     `yaml:"music,omitempty"`
}

// YAMLPoint is a point in board pixels.
type YAMLPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Pack is an ordered list of levels; position i holds level i+1.
type Pack struct {
	Levels []Level
}

// Len returns the number of levels.
func (p *Pack) Len() int {
	return len(p.Levels)
}

// Get returns the level with the given 1-based index.
func (p *Pack) Get(index int) (*Level, error) {
	if index < 1 || index > len(p.Levels) {
		return nil, fmt.Errorf("level: index %d out of range 1..%d", index, len(p.Levels))
	}
	return &p.Levels[index-1], nil
}

// Next returns the index after the given one, wrapping past the last level.
func (p *Pack) Next(index int) int {
	if len(p.Levels) == 0 {
		return 1
	}
	return index%len(p.Levels) + 1
}

// Clamp restricts a 1-based index to the pack range.
func (p *Pack) Clamp(index int) int {
	return core.Clamp(index, 1, max(len(p.Levels), 1))
}

// Builtin loads the level pack compiled into the binary.
func Builtin(defaultSpawn core.Vec) (*Pack, error) {
	sub, err := fs.Sub(builtinFS, "levels")
	if err != nil {
		return nil, fmt.Errorf("level: builtin pack: %w", err)
	}
	return LoadFS(sub, defaultSpawn)
}

// LoadDir loads a level pack from a directory containing levels.yaml.
func LoadDir(dir string, defaultSpawn core.Vec) (*Pack, error) {
	return LoadFS(os.DirFS(dir), defaultSpawn)
}

// LoadFS loads a level pack from a filesystem whose root holds levels.yaml.
// Levels without an explicit spawn use defaultSpawn.
func LoadFS(fsys fs.FS, defaultSpawn core.Vec) (*Pack, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("level: reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("level: parsing manifest: %w", err)
	}
	if len(m.Levels) == 0 {
		return nil, fmt.Errorf("level: manifest lists no levels")
	}

	pack := &Pack{Levels: make([]Level, 0, len(m.Levels))}
	for i, entry := range m.Levels {
		lvl, err := loadEntry(fsys, entry, i+1, defaultSpawn)
		if err != nil {
			return nil, err
		}
		pack.Levels = append(pack.Levels, lvl)
	}
	return pack, nil
}

// loadEntry parses and validates one manifest entry.
func loadEntry(fsys fs.FS, entry ManifestEntry, index int, defaultSpawn core.Vec) (Level, error) {
	f, err := fsys.Open(entry.File)
	if err != nil {
		return Level{}, fmt.Errorf("level %d: opening %s: %w", index, entry.File, err)
	}
	defer f.Close()

	grid, err := ParseCSV(f)
	if err != nil {
		return Level{}, fmt.Errorf("level %d: parsing %s: %w", index, entry.File, err)
	}
	if err := grid.Validate(); err != nil {
		return Level{}, fmt.Errorf("level %d (%s): %w", index, entry.File, err)
	}

	spawn := defaultSpawn
	if entry.Spawn != nil {
		spawn = core.V(entry.Spawn.X, entry.Spawn.Y)
	}

	name := entry.Name
	if name == "" {
		name = fmt.Sprintf("Level %d", index)
	}

	return Level{
		Index: index,
		Name:  name,
		Grid:  grid,
		Spawn: spawn,
		Music: entry.Music,
	}, nil
}
