package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/progress"
)

// MenuItem is one level row of the start menu.
type MenuItem struct {
	Index    int
	Name     string
	Locked   bool
	Complete bool
	BestTime float64 // Seconds, 0 if never completed
}

// MenuModel is the start menu: the level list, the avatar picker and the
// player name.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	avatars   []string
	avatarIdx int
	width     int
	height    int
	store     *progress.Store
	pack      *level.Pack
	keyMapper *KeyMapper
	logger    *log.Logger
	naming    bool
	nameInput textinput.Model
	notice    string

	quitting       bool
	selected       int // Level index, 0 until the player picks one
	openScoreboard bool
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *progress.Store, pack *level.Pack, cfg core.RuntimeConfig, logger *log.Logger) MenuModel {
	ti := textinput.New()
	ti.Placeholder = progress.DefaultPlayerName
	ti.CharLimit = 16
	ti.Width = 20

	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		pack:      pack,
		keyMapper: NewKeyMapper(),
		logger:    logger,
		nameInput: ti,
	}
	m.refresh()

	// Start on the first level that is unlocked but not yet beaten.
	for i, it := range m.items {
		if !it.Locked && !it.Complete {
			m.cursor = i
			break
		}
	}
	return m
}

// refresh reloads lock state, best times and avatars from the store.
func (m *MenuModel) refresh() {
	m.items = m.items[:0]
	for i := 1; i <= m.pack.Len(); i++ {
		lvl, err := m.pack.Get(i)
		if err != nil {
			continue
		}
		best, _ := m.store.BestTime(i)
		m.items = append(m.items, MenuItem{
			Index:    i,
			Name:     lvl.Name,
			Locked:   !m.store.IsLevelUnlocked(i),
			Complete: m.store.IsCompleted(i),
			BestTime: best,
		})
	}

	m.avatars = m.store.Unlocked()
	sel := m.store.SelectedCosmetic()
	m.avatarIdx = 0
	for i, id := range m.avatars {
		if id == sel {
			m.avatarIdx = i
		}
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "n" {
		m.naming = true
		m.nameInput.SetValue(m.store.PlayerName())
		m.nameInput.CursorEnd()
		return m, m.nameInput.Focus()
	}

	m.notice = ""
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case core.ActionQuit:
		m.quitting = true

	case core.ActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case core.ActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case core.ActionLeft:
		m.cycleAvatar(-1)

	case core.ActionRight:
		m.cycleAvatar(1)

	case core.ActionConfirm:
		if len(m.items) == 0 {
			break
		}
		it := m.items[m.cursor]
		if it.Locked {
			m.notice = fmt.Sprintf("Complete level %d to unlock %s", it.Index-1, it.Name)
			break
		}
		m.selected = it.Index

	case core.ActionScores:
		m.openScoreboard = true
	}

	return m, nil
}

func (m MenuModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if err := m.store.SetPlayerName(name); err != nil {
			m.notice = "Name not saved: " + err.Error()
			m.logger.Warn("could not rename player", "error", err)
		}
		fallthrough
	case "esc":
		m.naming = false
		m.nameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// cycleAvatar selects the next or previous unlocked cosmetic and saves it.
func (m *MenuModel) cycleAvatar(step int) {
	if len(m.avatars) == 0 {
		return
	}
	m.avatarIdx = (m.avatarIdx + step + len(m.avatars)) % len(m.avatars)
	if err := m.store.SetSelectedCosmetic(m.avatars[m.avatarIdx]); err != nil {
		m.logger.Warn("could not save avatar", "error", err)
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  J U M P   R U S H  "), m.width))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("%s  |  Coins %d  |  Cleared %d/%d",
		m.store.PlayerName(), m.store.TotalCoins(), len(m.store.Completed()), m.pack.Len())
	b.WriteString(centerText(dimStyle.Render(stats), m.width))
	b.WriteString("\n\n")

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		mark := "   "
		switch {
		case it.Locked:
			mark = "[x]"
		case it.Complete:
			mark = "[*]"
		}

		best := "--:--.-"
		if it.BestTime > 0 {
			best = formatElapsed(secondsToDuration(it.BestTime))
		}

		line := fmt.Sprintf("%s%s %d. %-18s %s", cursor, mark, it.Index, it.Name, best)
		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case it.Locked:
			line = lockedStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	look := avatarFor(m.currentAvatar())
	style := colorStyles[look.Color]
	avatarLine := fmt.Sprintf("< %s %s >  (%d/%d)",
		style.Render(look.Glyph), avatarName(m.currentAvatar()), m.avatarIdx+1, max(len(m.avatars), 1))
	b.WriteString(centerText(avatarLine, m.width))
	b.WriteString("\n\n")

	if m.naming {
		b.WriteString(centerText("Name: "+m.nameInput.View(), m.width))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(centerText(m.notice, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Level  |  Left/Right: Avatar  |  Enter: Play  |  N: Name  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) currentAvatar() string {
	if len(m.avatars) == 0 {
		return m.store.SelectedCosmetic()
	}
	return m.avatars[m.avatarIdx]
}

// Items returns the level rows.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// Selected returns the chosen level index, or 0 if none was chosen.
func (m MenuModel) Selected() int {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
