// Package tui is the Bubble Tea front-end: the start menu, the game screen,
// the congratulations and game-over modals, the leaderboards and the SSH
// server that serves all of them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// jumpLatch turns key presses into a held jump. Terminals report presses
// but never releases, so each press keeps the jump held for a few ticks and
// key repeat extends it.
type jumpLatch struct {
	hold      int
	remaining int
}

func newJumpLatch(tickRate int) jumpLatch {
	return jumpLatch{hold: max(tickRate/6, 1)}
}

// Press marks the jump key as down.
func (l *jumpLatch) Press() {
	l.remaining = l.hold
}

// Next reports whether the jump is held this tick and ages the latch.
func (l *jumpLatch) Next() bool {
	if l.remaining <= 0 {
		return false
	}
	l.remaining--
	return true
}

// Reset releases the latch.
func (l *jumpLatch) Reset() {
	l.remaining = 0
}
