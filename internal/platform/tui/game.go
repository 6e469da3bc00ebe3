package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/session"
)

// GameModel drives one session on the game screen. Terminal events open a
// choice modal over the frozen board; the answer is applied to the session.
type GameModel struct {
	sess       *session.Session
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	latch      jumpLatch
	modal      *choiceModal
	look       avatar
	logger     *log.Logger
	quitting   bool
	backToMenu bool
}

// NewGameModel wraps a session that is already Playing.
func NewGameModel(sess *session.Session, cfg core.RuntimeConfig, cosmetic string, logger *log.Logger) GameModel {
	return GameModel{
		sess:      sess,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
		latch:     newJumpLatch(cfg.TickRate),
		look:      avatarFor(cosmetic),
		logger:    logger,
	}
}

// Init has nothing to start; the enclosing model owns the tick loop.
func (m GameModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if n, ok := m.keyMapper.LevelKey(msg); ok {
		if err := m.sess.JumpTo(n); err != nil {
			m.logger.Debug("level shortcut ignored", "level", n, "error", err)
			return m, nil
		}
		m.modal = nil
		m.latch.Reset()
		return m, nil
	}

	action := m.keyMapper.MapKey(msg)
	if m.modal != nil {
		return m.handleModal(action)
	}

	switch action {
	case core.ActionQuit:
		m.sess.Quit()
		m.quitting = true
	case core.ActionJump:
		m.latch.Press()
	case core.ActionToggleNoClip:
		m.sess.ToggleNoClip()
	case core.ActionToggleInvincible:
		m.sess.ToggleInvincible()
	case core.ActionTogglePassSpikes:
		m.sess.TogglePassSpikes()
	case core.ActionToggleEasy:
		m.sess.ToggleEasy()
	}
	return m, nil
}

func (m GameModel) handleModal(action core.Action) (tea.Model, tea.Cmd) {
	choice, ok := m.modal.Update(action)
	if !ok {
		return m, nil
	}
	if err := m.sess.Resolve(choice); err != nil {
		m.logger.Warn("could not apply choice", "choice", choice, "error", err)
		return m, nil
	}

	m.modal = nil
	m.latch.Reset()
	switch m.sess.State() {
	case session.StateMenuReturn:
		m.backToMenu = true
	case session.StateQuit:
		m.quitting = true
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.sess.State() != session.StatePlaying {
		return m, nil
	}

	m.sess.Tick(physics.Input{JumpHeld: m.latch.Next()})

	switch m.sess.State() {
	case session.StateWon:
		m.modal = newWinModal(*m.sess.Win())
	case session.StateDied:
		m.modal = newDeathModal(*m.sess.Death())
	}
	return m, nil
}

// saveScreenshot writes the current frame as plain text.
func (m *GameModel) saveScreenshot() {
	m.draw()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".jumprush", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("level%d_%s.txt", m.sess.LevelIndex(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

func (m GameModel) draw() {
	drawGame(m.screen, m.sess, m.look)
	if m.modal != nil {
		m.modal.Draw(m.screen)
	}
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen)
}

// Session returns the wrapped session.
func (m GameModel) Session() *session.Session {
	return m.sess
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
