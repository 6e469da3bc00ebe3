package tui

import (
	"fmt"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/session"
)

type modalOption struct {
	Label  string
	Choice session.Choice
}

// choiceModal is the congratulations or game-over box drawn over the board.
// It never blocks: the game model feeds it actions and resolves the session
// once a choice is made.
type choiceModal struct {
	title   string
	color   core.Color
	lines   []string
	options []modalOption
	cursor  int
}

func newWinModal(ev session.WinEvent) *choiceModal {
	lines := []string{
		fmt.Sprintf("Level %d: %s", ev.Level, ev.LevelName),
		fmt.Sprintf("Coins %d   Total %d", ev.Coins, ev.TotalCoins),
	}
	t := "Time " + formatElapsed(ev.Elapsed)
	if ev.NewBest {
		t += "  new best!"
	}
	lines = append(lines, t)
	if ev.Unlocked != "" {
		lines = append(lines, "Unlocked "+avatarName(ev.Unlocked))
	}

	return &choiceModal{
		title: "LEVEL COMPLETE",
		color: core.ColorBrightGreen,
		lines: lines,
		options: []modalOption{
			{"[N]ext", session.ChoiceNext},
			{"[R]etry", session.ChoiceRetry},
			{"[H]ome", session.ChoiceHome},
			{"[Q]uit", session.ChoiceQuit},
		},
	}
}

func newDeathModal(ev session.DeathEvent) *choiceModal {
	lines := []string{causeText(ev.Cause)}
	if ev.Score != nil {
		score := fmt.Sprintf("Distance %d", *ev.Score)
		if ev.Best != nil {
			score += fmt.Sprintf("   Best %d", *ev.Best)
		}
		lines = append(lines, score)
	}

	return &choiceModal{
		title: "GAME OVER",
		color: core.ColorBrightRed,
		lines: lines,
		options: []modalOption{
			{"[R]etry", session.ChoiceRetry},
			{"[H]ome", session.ChoiceHome},
			{"[Q]uit", session.ChoiceQuit},
		},
	}
}

func causeText(c physics.Cause) string {
	switch c {
	case physics.CauseSpike:
		return "Impaled on a spike"
	case physics.CauseWall:
		return "Crashed into a wall"
	case physics.CauseFall:
		return "Fell off the level"
	default:
		return "You died"
	}
}

// Update applies an action. It reports the choice once one is made.
func (m *choiceModal) Update(a core.Action) (session.Choice, bool) {
	switch a {
	case core.ActionLeft, core.ActionUp:
		m.cursor = (m.cursor + len(m.options) - 1) % len(m.options)
	case core.ActionRight, core.ActionDown:
		m.cursor = (m.cursor + 1) % len(m.options)
	case core.ActionConfirm:
		return m.options[m.cursor].Choice, true
	case core.ActionNext:
		return m.pick(session.ChoiceNext)
	case core.ActionRetry:
		return m.pick(session.ChoiceRetry)
	case core.ActionHome:
		return m.pick(session.ChoiceHome)
	case core.ActionQuit:
		return m.pick(session.ChoiceQuit)
	}
	return 0, false
}

// pick selects c if this modal offers it.
func (m *choiceModal) pick(c session.Choice) (session.Choice, bool) {
	for i, o := range m.options {
		if o.Choice == c {
			m.cursor = i
			return c, true
		}
	}
	return 0, false
}

// Draw renders the modal centred on the screen.
func (m *choiceModal) Draw(scr *core.Screen) {
	var buttons string
	for i, o := range m.options {
		if i > 0 {
			buttons += "  "
		}
		if i == m.cursor {
			buttons += ">" + o.Label + "<"
		} else {
			buttons += " " + o.Label + " "
		}
	}

	w := len([]rune(buttons))
	for _, l := range append([]string{m.title}, m.lines...) {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(m.lines) + 6

	box := core.NewBox((scr.Width()-w)/2, (scr.Height()-h)/2, w, h)
	scr.DrawRect(box, ' ')
	scr.DrawBox(box)

	center := func(y int, text string, c core.Color) {
		x := box.X + (w-len([]rune(text)))/2
		scr.DrawTextColored(x, y, text, c)
	}
	center(box.Y+1, m.title, m.color)
	for i, l := range m.lines {
		center(box.Y+3+i, l, core.ColorDefault)
	}
	center(box.Bottom()-2, buttons, core.ColorHUD)
}
