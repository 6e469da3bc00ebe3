// Package level provides level definitions: the symbolic tile grid, level
// metadata and the built-in level pack.
package level

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/jump-rush/internal/core"
)

// Token is a symbolic tile code as it appears in a level file.
type Token = string

// Recognised tile tokens. Anything else is ignored by the obstacle field.
const (
	TokenEmpty    Token = ""
	TokenPlatform Token = "0"
	TokenSpike    Token = "Spike"
	TokenCoin     Token = "Coin"
	TokenOrb      Token = "Orb"
	TokenTrick    Token = "T"
	TokenEnd      Token = "End"
)

// Grid is a row-major 2D sequence of tokens. Rows may have different lengths.
type Grid [][]Token

var (
	ErrEmptyGrid      = errors.New("level: grid is empty")
	ErrNoEndMarker    = errors.New("level: no End marker")
	ErrManyEndMarkers = errors.New("level: more than one End marker")
)

// Width returns the length of the longest row.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		w = max(w, len(row))
	}
	return w
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// At returns the token at (col, row), or TokenEmpty outside the grid.
func (g Grid) At(col, row int) Token {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return TokenEmpty
	}
	return g[row][col]
}

// Count returns how many cells hold the given token.
func (g Grid) Count(tok Token) int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell == tok {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]Token(nil), row...)
	}
	return out
}

// Validate checks the structural invariants of a playable level.
func (g Grid) Validate() error {
	if g.Height() == 0 || g.Width() == 0 {
		return ErrEmptyGrid
	}
	switch ends := g.Count(TokenEnd); {
	case ends == 0:
		return ErrNoEndMarker
	case ends > 1:
		return fmt.Errorf("%w: found %d", ErrManyEndMarkers, ends)
	}
	return nil
}

// Level is a playable level definition. It is never mutated during play.
type Level struct {
	Index int    // 1-based public index
	Name  string // Display name
	Grid  Grid
	Spawn core.Vec // Player centre at the start of each attempt
	Music string   // Optional hint for an audio collaborator
}

// Columns returns the level length in tiles.
func (l *Level) Columns() int {
	return l.Grid.Width()
}
