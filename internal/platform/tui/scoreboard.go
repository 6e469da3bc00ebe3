package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/progress"
	"github.com/vovakirdan/jump-rush/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the board list sidebar
	sidebarWidth       = 24 // Width of the board list sidebar
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/right", "next board"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/left", "prev board"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// StatsSource provides the attempt history of a level.
type StatsSource interface {
	LevelStats(level int) (storage.LevelStats, error)
}

// board is one tab of the scoreboard: the coins table or a level's times.
type board struct {
	Title string
	Level int // 0 for the coins table
}

// ScoreboardModel shows the coins leaderboard and the per-level best times.
type ScoreboardModel struct {
	boards      []board
	cursor      int
	store       *progress.Store
	history     StatsSource
	stats       *storage.LevelStats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model. history may be nil.
func NewScoreboardModel(store *progress.Store, pack *level.Pack, history StatsSource, width, height int) ScoreboardModel {
	boards := []board{{Title: "Coins"}}
	for i := 1; i <= pack.Len(); i++ {
		if lvl, err := pack.Get(i); err == nil {
			boards = append(boards, board{Title: fmt.Sprintf("%d. %s", i, lvl.Name), Level: i})
		}
	}

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		boards:      boards,
		store:       store,
		history:     history,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a table with columns for the current board.
func (m *ScoreboardModel) createTable() table.Model {
	scoreTitle := "Time"
	if m.current().Level == 0 {
		scoreTitle = "Coins"
	}
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 18},
		{Title: scoreTitle, Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)), // Header, stats, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m ScoreboardModel) current() board {
	if len(m.boards) == 0 {
		return board{Title: "Coins"}
	}
	return m.boards[m.cursor]
}

// load fills the table and the history panel for the current board.
func (m *ScoreboardModel) load() {
	b := m.current()
	m.table = m.createTable()

	var rows []table.Row
	if b.Level == 0 {
		for i, s := range m.store.CoinsLeaderboard() {
			rows = append(rows, table.Row{fmt.Sprintf("#%d", i+1), s.Name, fmt.Sprintf("%d", s.Coins)})
		}
	} else {
		for i, s := range m.store.TimesLeaderboard(b.Level) {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1), s.Name, formatElapsed(secondsToDuration(s.Time)),
			})
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()

	m.stats = nil
	if m.history != nil && b.Level > 0 {
		if st, err := m.history.LevelStats(b.Level); err == nil {
			m.stats = &st
		}
	}
}

// Rows returns the rows of the current board.
func (m ScoreboardModel) Rows() []table.Row {
	return m.table.Rows()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextBoard):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + 1) % len(m.boards)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + len(m.boards) - 1) % len(m.boards)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("HIGH SCORES - %s", m.current().Title)
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	if m.stats != nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(formatStats(*m.stats)))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func formatStats(st storage.LevelStats) string {
	fastest := "--"
	if st.FastestWin > 0 {
		fastest = formatElapsed(st.FastestWin)
	}
	return fmt.Sprintf(" Attempts %d  Wins %d  Deaths %d  Coins %d  Furthest %d  Fastest %s",
		st.Attempts, st.Wins, st.Deaths, st.Coins, st.BestDistance, fastest)
}

// renderWideLayout renders the scoreboard with a sidebar for board selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := panelStyle.Width(sidebarWidth)

	var sidebar strings.Builder
	sidebar.WriteString("Boards\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, bd := range m.boards {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = titleStyle
		}

		name := bd.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", panelStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout shows only the current board name with arrows.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder
	b.WriteString(centerText(fmt.Sprintf("< %s >", m.current().Title), m.width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panelStyle.Render(m.renderTableContent())))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.table.Rows()) == 0 {
		emptyStyle := dimStyle.Italic(true).Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nFinish a level to set one!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
