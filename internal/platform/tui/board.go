package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/field"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/session"
)

// Each tile is drawn two cells wide and one cell high, which keeps tiles
// roughly square in a terminal font.
const (
	cellsPerTileX = 2
	hudRows       = 1
	footerRows    = 1
	cameraLead    = 4 // The player sits at 1/cameraLead of the width
)

type tileLook struct {
	Glyph string
	Color core.Color
}

var tileLooks = map[field.Kind]tileLook{
	field.KindPlatform: {"██", core.ColorPlatform},
	field.KindSpike:    {"/\\", core.ColorSpike},
	field.KindCoin:     {"()", core.ColorCoin},
	field.KindOrb:      {"<>", core.ColorOrb},
	field.KindTrick:    {"▒▒", core.ColorTrick},
	field.KindEnd:      {"|>", core.ColorEnd},
}

// boardView maps board pixels to screen cells for one frame.
type boardView struct {
	scr     *core.Screen
	tile    float64
	top     int // First screen row of the board area
	height  int // Rows in the board area
	originY int // Screen row of board row 0
	camX    int // Board cell at the left edge of the screen
}

func newBoardView(scr *core.Screen, s *session.Session) boardView {
	f := s.Field()
	p := s.Player()
	v := boardView{
		scr:    scr,
		tile:   f.TileSize(),
		top:    hudRows,
		height: max(scr.Height()-hudRows-footerRows, 0),
	}
	// Bottom-align the grid so the ground stays visible on short terminals.
	v.originY = v.top + v.height - f.Rows()
	v.camX = v.cellX(p.Rect.X) - scr.Width()/cameraLead
	return v
}

func (v boardView) cellX(px float64) int {
	if v.tile <= 0 {
		return 0
	}
	return int(math.Floor(px / v.tile * cellsPerTileX))
}

func (v boardView) cellY(py float64) int {
	if v.tile <= 0 {
		return 0
	}
	return int(math.Floor(py / v.tile))
}

// put writes text at board cell coordinates, clipped to the board area.
func (v boardView) put(bx, by int, text string, c core.Color) {
	y := v.originY + by
	if y < v.top || y >= v.top+v.height {
		return
	}
	x := bx - v.camX
	for i, r := range []rune(text) {
		if x+i >= 0 && x+i < v.scr.Width() {
			v.scr.SetColored(x+i, y, r, c)
		}
	}
}

// visible returns the board rectangle currently on screen.
func (v boardView) visible(rows int) core.Rect {
	w := float64(v.scr.Width()) / cellsPerTileX * v.tile
	x := float64(v.camX) / cellsPerTileX * v.tile
	return core.NewRect(x, 0, w, float64(rows)*v.tile)
}

// drawGame renders the HUD, the visible part of the board, the player and
// the progress bar.
func drawGame(scr *core.Screen, s *session.Session, look avatar) {
	scr.Clear()
	if s == nil || s.Field() == nil {
		return
	}

	v := newBoardView(scr, s)
	f := s.Field()

	for _, idx := range f.Near(v.visible(f.Rows())) {
		o := f.At(idx)
		tl, ok := tileLooks[o.Kind]
		if !ok {
			continue
		}
		v.put(o.Col*cellsPerTileX, o.Row, tl.Glyph, tl.Color)
	}

	p := s.Player()
	glyph, color := look.Glyph, look.Color
	switch {
	case p.Died:
		glyph, color = "xx", core.ColorRed
	case p.Won:
		color = core.ColorBrightGreen
	}
	v.put(v.cellX(p.Rect.X), v.cellY(p.Rect.Center().Y), glyph, color)

	drawHUD(scr, s)
	drawProgress(scr, scr.Height()-1, s.Progress())
}

// drawHUD writes the status line on the first row.
func drawHUD(scr *core.Screen, s *session.Session) {
	lvl := s.Level()
	name := ""
	if lvl != nil {
		name = lvl.Name
	}

	left := fmt.Sprintf(" Lv %d %s  Try %d  Coins %d  %s",
		s.LevelIndex(), name, s.Attempt(), s.Coins(), formatElapsed(s.Elapsed()))
	scr.DrawTextColored(0, 0, left, core.ColorHUD)

	badges := overrideBadges(s)
	if badges != "" {
		x := scr.Width() - len([]rune(badges)) - 1
		scr.DrawTextColored(max(x, len([]rune(left))+1), 0, badges, badgeColor(s.Overrides()))
	}
}

// badgeColor marks runs with a death-suppressing toggle in red; easy physics
// alone stays orange.
func badgeColor(ov physics.Overrides) core.Color {
	if ov.Any() {
		return core.ColorBrightRed
	}
	return core.ColorOrange
}

func overrideBadges(s *session.Session) string {
	ov := s.Overrides()
	var b []string
	if ov.NoClip {
		b = append(b, "NOCLIP")
	}
	if ov.Invincible {
		b = append(b, "INVINCIBLE")
	}
	if ov.PassSpikes {
		b = append(b, "SPIKES-OFF")
	}
	if ov.Easy {
		b = append(b, "EASY")
	}
	if len(b) == 0 {
		return ""
	}
	return "[" + strings.Join(b, "][") + "]"
}

// drawProgress draws a bar of the distance to the End marker.
func drawProgress(scr *core.Screen, y int, frac float64) {
	label := fmt.Sprintf(" %3.0f%%", frac*100)
	width := scr.Width() - len(label) - 2
	if width <= 0 {
		return
	}
	filled := int(math.Round(frac * float64(width)))

	scr.Set(0, y, '▕')
	for i := 0; i < width; i++ {
		if i < filled {
			scr.SetColored(1+i, y, '█', core.ColorEnd)
		} else {
			scr.SetColored(1+i, y, '░', core.ColorGray)
		}
	}
	scr.Set(1+width, y, '▏')
	scr.DrawText(2+width, y, label)
}

// formatElapsed renders a duration as mm:ss.t.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int(d / (100 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d.%d", tenths/600, (tenths/10)%60, tenths%10)
}
