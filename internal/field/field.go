// Package field materialises the obstacles of one attempt from a level grid.
//
// A Field is built fresh for every attempt: coins are consumed in place, while
// the level grid it was built from is never touched.
package field

import (
	"math"
	"slices"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
)

// Kind tags an obstacle variant.
type Kind uint8

const (
	KindPlatform Kind = iota
	KindSpike
	KindCoin
	KindOrb
	KindTrick // Breakable-looking tile the player passes through
	KindEnd
)

var kindNames = [...]string{"platform", "spike", "coin", "orb", "trick", "end"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps a level token to an obstacle kind.
// The second result is false for empty or unrecognised tokens.
func KindOf(tok level.Token) (Kind, bool) {
	switch tok {
	case level.TokenPlatform:
		return KindPlatform, true
	case level.TokenSpike:
		return KindSpike, true
	case level.TokenCoin:
		return KindCoin, true
	case level.TokenOrb:
		return KindOrb, true
	case level.TokenTrick:
		return KindTrick, true
	case level.TokenEnd:
		return KindEnd, true
	default:
		return 0, false
	}
}

// Obstacle is one tile-sized entity on the board.
type Obstacle struct {
	Kind     Kind
	Col, Row int
	Bounds   core.Rect // Board pixels, one tile in size
	consumed bool
}

// Consumed reports whether the obstacle has been taken out of play.
func (o *Obstacle) Consumed() bool {
	return o.consumed
}

// Field is the set of obstacles for a single attempt.
type Field struct {
	tile      float64
	cols      int
	rows      int
	obstacles []Obstacle // Row-major, the order they appear in the grid
	byColumn  *intmap.Map[int, []int]
	remaining [len(kindNames)]int
}

// New builds a field from a grid. Each recognised non-empty token becomes one
// obstacle at (col*tileSize, row*tileSize). Unrecognised tokens are skipped.
func New(grid level.Grid, tileSize float64) *Field {
	f := &Field{
		tile:     tileSize,
		cols:     grid.Width(),
		rows:     grid.Height(),
		byColumn: intmap.New[int, []int](grid.Width()),
	}

	for row, cells := range grid {
		for col, tok := range cells {
			kind, ok := KindOf(tok)
			if !ok {
				continue
			}
			idx := len(f.obstacles)
			f.obstacles = append(f.obstacles, Obstacle{
				Kind:   kind,
				Col:    col,
				Row:    row,
				Bounds: core.NewRect(float64(col)*tileSize, float64(row)*tileSize, tileSize, tileSize),
			})
			list, _ := f.byColumn.Get(col)
			f.byColumn.Put(col, append(list, idx))
			f.remaining[kind]++
		}
	}

	return f
}

// TileSize returns the edge length of one tile in board pixels.
func (f *Field) TileSize() float64 {
	return f.tile
}

// Len returns the number of obstacles, consumed ones included.
func (f *Field) Len() int {
	return len(f.obstacles)
}

// At returns the obstacle with the given index.
func (f *Field) At(i int) *Obstacle {
	return &f.obstacles[i]
}

// Near returns the indices of live obstacles in the columns spanned by r,
// in row-major order.
func (f *Field) Near(r core.Rect) []int {
	if f.tile <= 0 || len(f.obstacles) == 0 {
		return nil
	}
	first := max(int(math.Floor(r.X/f.tile)), 0)
	last := min(int(math.Floor(r.Right()/f.tile)), f.cols-1)

	var out []int
	for col := first; col <= last; col++ {
		list, ok := f.byColumn.Get(col)
		if !ok {
			continue
		}
		for _, idx := range list {
			if !f.obstacles[idx].consumed {
				out = append(out, idx)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Consume takes an obstacle out of play. It returns false if the obstacle was
// already consumed, so repeated contact never counts twice.
func (f *Field) Consume(i int) bool {
	o := &f.obstacles[i]
	if o.consumed {
		return false
	}
	o.consumed = true
	f.remaining[o.Kind]--
	return true
}

// Remaining returns how many live obstacles of a kind are left.
func (f *Field) Remaining(k Kind) int {
	if int(k) >= len(f.remaining) {
		return 0
	}
	return f.remaining[k]
}

// Extent returns the board area covered by the grid.
func (f *Field) Extent() core.Rect {
	return core.NewRect(0, 0, float64(f.cols)*f.tile, float64(f.rows)*f.tile)
}

// Rows returns the grid height in tiles.
func (f *Field) Rows() int {
	return f.rows
}

// Goal returns the End marker, or nil if the grid has none.
func (f *Field) Goal() *Obstacle {
	for i := range f.obstacles {
		if f.obstacles[i].Kind == KindEnd {
			return &f.obstacles[i]
		}
	}
	return nil
}
