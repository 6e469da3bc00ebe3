package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/progress"
	"github.com/vovakirdan/jump-rush/internal/session"
	"github.com/vovakirdan/jump-rush/internal/storage"
)

// Options configures an App.
type Options struct {
	Config     config.Config
	Runtime    core.RuntimeConfig
	Pack       *level.Pack
	Store      *progress.Store
	History    *storage.Store // Optional attempt history
	Logger     *log.Logger
	StartLevel int // Skip the menu and start on this level; 0 shows the menu
	Overrides  physics.Overrides
}

type screen uint8

const (
	screenMenu screen = iota
	screenGame
	screenScores
)

// App manages the full flow: menu, game and scoreboard. It owns the single
// tick loop and the session, which survives trips back to the menu so attempt
// counters carry over.
type App struct {
	opts     Options
	config   core.RuntimeConfig
	screen   screen
	sess     *session.Session
	menu     MenuModel
	game     *GameModel
	scores   ScoreboardModel
	err      error
	quitting bool
}

// NewApp creates the top-level model.
func NewApp(opts Options) App {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	a := App{
		opts:   opts,
		config: cfg,
		menu:   NewMenuModel(opts.Store, opts.Pack, cfg, opts.Logger),
	}
	if opts.StartLevel > 0 {
		a.startLevel(opts.StartLevel)
	}
	return a
}

// Init starts the tick loop.
func (a App) Init() tea.Cmd {
	return tickCmd(a.config.TickRate)
}

// Update handles messages for the current screen.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tick tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.config.ScreenW = msg.Width
		a.config.ScreenH = msg.Height
	case TickMsg:
		tick = tickCmd(a.config.TickRate)
		if a.screen != screenGame {
			return a, tick
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenGame:
		a, cmd = a.updateGame(msg)
	case screenScores:
		a, cmd = a.updateScores(msg)
	default:
		a, cmd = a.updateMenu(msg)
	}

	if a.quitting {
		return a, tea.Quit
	}
	return a, tea.Batch(cmd, tick)
}

func (a App) updateMenu(msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.menu.Update(msg)
	if mm, ok := m.(MenuModel); ok {
		a.menu = mm
	}

	switch {
	case a.menu.IsQuitting():
		a.quitting = true
	case a.menu.WantsScoreboard():
		a.scores = NewScoreboardModel(a.opts.Store, a.opts.Pack, a.statsSource(), a.config.ScreenW, a.config.ScreenH)
		a.screen = screenScores
	case a.menu.Selected() > 0:
		a.startLevel(a.menu.Selected())
	}
	return a, cmd
}

// startLevel enters the game screen on a level, creating the session on
// first use. Errors drop back to the menu with a notice.
func (a *App) startLevel(index int) {
	var err error
	if a.sess == nil {
		a.sess, err = session.New(a.opts.Config, a.opts.Pack, a.opts.Store, index,
			session.WithHistory(a.history()),
			session.WithLogger(a.opts.Logger),
			session.WithOverrides(a.opts.Overrides),
		)
	} else {
		err = a.sess.SelectLevel(index)
	}
	if err != nil {
		a.opts.Logger.Warn("could not start level", "level", index, "error", err)
		a.err = err
		a.backToMenu()
		if errors.Is(err, session.ErrLevelLocked) {
			a.menu.notice = fmt.Sprintf("Level %d is locked", index)
		}
		return
	}

	gm := NewGameModel(a.sess, a.config, a.opts.Store.SelectedCosmetic(), a.opts.Logger)
	a.game = &gm
	a.screen = screenGame
}

func (a App) updateGame(msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.game.Update(msg)
	if gm, ok := m.(GameModel); ok {
		a.game = &gm
	}

	switch {
	case a.game.IsQuitting():
		a.quitting = true
	case a.game.BackToMenu():
		a.backToMenu()
	}
	return a, cmd
}

func (a App) updateScores(msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.scores.Update(msg)
	if sm, ok := m.(ScoreboardModel); ok {
		a.scores = sm
	}

	switch {
	case a.scores.IsQuitting():
		a.quitting = true
	case a.scores.IsGoingBack():
		a.backToMenu()
	}
	return a, cmd
}

// backToMenu rebuilds the menu so lock state and best times are current.
func (a *App) backToMenu() {
	a.game = nil
	a.menu = NewMenuModel(a.opts.Store, a.opts.Pack, a.config, a.opts.Logger)
	a.screen = screenMenu
}

// history returns the attempt history as a session collaborator. A nil store
// must become a nil interface.
func (a App) history() session.History {
	if a.opts.History == nil {
		return nil
	}
	return a.opts.History
}

func (a App) statsSource() StatsSource {
	if a.opts.History == nil {
		return nil
	}
	return a.opts.History
}

// View renders the current screen.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	switch a.screen {
	case screenGame:
		return a.game.View()
	case screenScores:
		return a.scores.View()
	default:
		return a.menu.View()
	}
}

// Screen reports which screen is active: "menu", "game" or "scores".
func (a App) Screen() string {
	switch a.screen {
	case screenGame:
		return "game"
	case screenScores:
		return "scores"
	default:
		return "menu"
	}
}

// Session returns the session, or nil before the first level is started.
func (a App) Session() *session.Session {
	return a.sess
}

// Err returns the last error that sent the player back to the menu.
func (a App) Err() error {
	return a.err
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewApp(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
