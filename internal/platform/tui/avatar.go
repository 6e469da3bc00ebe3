package tui

import (
	"path/filepath"
	"strings"

	"github.com/vovakirdan/jump-rush/internal/core"
)

// avatar is how a cosmetic is drawn on the board: two cells wide, one high.
type avatar struct {
	Glyph string
	Color core.Color
}

var defaultAvatar = avatar{Glyph: "[]", Color: core.ColorBrightCyan}

// avatars covers the built-in catalog. Unknown cosmetics, such as images
// found in a custom catalog directory, get a glyph derived from their name.
var avatars = map[string]avatar{
	"avatar":         defaultAvatar,
	"blue lightning": {Glyph: "/7", Color: core.ColorBrightBlue},
	"clown":          {Glyph: "o<", Color: core.ColorBrightRed},
	"green eye":      {Glyph: "()", Color: core.ColorGreen},
	"cyber cat":      {Glyph: "=^", Color: core.ColorCyan},
	"fire skull":     {Glyph: "%%", Color: core.ColorOrange},
	"golden crown":   {Glyph: "WW", Color: core.ColorYellow},
	"neon ghost":     {Glyph: "oO", Color: core.ColorBrightMagenta},
	"pixel knight":   {Glyph: "#]", Color: core.ColorBrightWhite},
	"rainbow":        {Glyph: "~~", Color: core.ColorMagenta},
}

// avatarName strips the image extension from a cosmetic id.
func avatarName(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}

// avatarFor returns the board look of a cosmetic.
func avatarFor(id string) avatar {
	name := strings.ToLower(avatarName(id))
	if a, ok := avatars[name]; ok {
		return a
	}
	if name == "" {
		return defaultAvatar
	}

	// First two letters of the name, upper-cased.
	r := []rune(strings.ToUpper(strings.ReplaceAll(name, " ", "")))
	if len(r) == 1 {
		r = append(r, r[0])
	}
	return avatar{Glyph: string(r[:2]), Color: defaultAvatar.Color}
}
