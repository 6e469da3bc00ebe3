package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Catalog lists every cosmetic that can be unlocked.
type Catalog interface {
	Cosmetics() ([]string, error)
}

// StaticCatalog is a fixed list of cosmetic identifiers.
type StaticCatalog []string

// Cosmetics returns a copy of the list.
func (c StaticCatalog) Cosmetics() ([]string, error) {
	return slices.Clone(c), nil
}

// BuiltinCatalog ships with the game.
var BuiltinCatalog = StaticCatalog{
	"avatar.png",
	"Blue Lightning.png",
	"Clown.png",
	"Green Eye.png",
	"Cyber Cat.png",
	"Fire Skull.png",
	"Golden Crown.png",
	"Neon Ghost.png",
	"Pixel Knight.png",
	"Rainbow.png",
}

// imageExts are the file types a DirCatalog accepts.
var imageExts = []string{".png", ".jpg", ".jpeg"}

// DirCatalog lists image files in a directory. If the directory cannot be
// read and Fallback is set, the fallback catalog is used instead.
type DirCatalog struct {
	Dir      string
	Fallback Catalog
}

// Cosmetics returns the image file names in the directory, sorted.
func (c DirCatalog) Cosmetics() ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if c.Fallback != nil {
			return c.Fallback.Cosmetics()
		}
		return nil, fmt.Errorf("progress: reading cosmetics from %s: %w", c.Dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if slices.Contains(imageExts, ext) {
			ids = append(ids, e.Name())
		}
	}
	slices.Sort(ids)
	return ids, nil
}
