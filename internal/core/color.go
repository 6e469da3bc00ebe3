package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Board palette.
const (
	ColorPlatform = ColorWhite
	ColorSpike    = ColorBrightRed
	ColorCoin     = ColorBrightYellow
	ColorOrb      = ColorBrightMagenta
	ColorTrick    = ColorGray
	ColorEnd      = ColorBrightGreen
	ColorHUD      = ColorCyan
)
