package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/progress"
	"github.com/vovakirdan/jump-rush/internal/session"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func grid(rows ...[]string) level.Grid {
	g := make(level.Grid, len(rows))
	copy(g, rows)
	return g
}

// testPack: level 1 is won on the first tick, level 2 is lost on it.
func testPack() *level.Pack {
	spawn := core.V(16, 16)
	return &level.Pack{Levels: []level.Level{
		{Index: 1, Name: "Goal", Grid: grid([]string{"End"}), Spawn: spawn},
		{Index: 2, Name: "Spikes", Grid: grid(
			[]string{"Spike", "", "", "End"},
			[]string{"0", "0", "0", "0"},
		), Spawn: spawn},
	}}
}

func newTestApp(t *testing.T, completed ...int) (App, *progress.Store) {
	t.Helper()
	store := progress.Load("")
	for _, idx := range completed {
		require.NoError(t, store.CompleteLevel(idx, 3))
	}
	app := NewApp(Options{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60},
		Pack:    testPack(),
		Store:   store,
	})
	return app, store
}

func send(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	next, ok := m.(App)
	require.True(t, ok, "Update returned %T", m)
	return next, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAppStartsAtMenu(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "menu", app.Screen())
	assert.Nil(t, app.Session())
	assert.Contains(t, app.View(), "J U M P")
	assert.NotNil(t, app.Init())
}

func TestAppWinReturnsHomeAndUnlocksNextLevel(t *testing.T) {
	app, store := newTestApp(t)

	app, _ = send(t, app, enter)
	require.Equal(t, "game", app.Screen())
	require.NotNil(t, app.Session())
	assert.Equal(t, 1, app.Session().LevelIndex())

	app, _ = send(t, app, TickMsg(time.Now()))
	require.Equal(t, session.StateWon, app.Session().State())
	assert.Contains(t, app.View(), "LEVEL COMPLETE")
	assert.True(t, store.IsCompleted(1))

	app, _ = send(t, app, keyRunes("h"))
	assert.Equal(t, "menu", app.Screen())
	assert.Equal(t, session.StateMenuReturn, app.Session().State())

	items := app.menu.Items()
	require.Len(t, items, 2)
	assert.True(t, items[0].Complete)
	assert.False(t, items[1].Locked)
}

func TestAppDeathRetryAndQuit(t *testing.T) {
	app, _ := newTestApp(t, 1)

	// The cursor starts on the first unbeaten level.
	app, _ = send(t, app, enter)
	require.Equal(t, "game", app.Screen())
	require.Equal(t, 2, app.Session().LevelIndex())

	app, _ = send(t, app, TickMsg(time.Now()))
	require.Equal(t, session.StateDied, app.Session().State())
	assert.Contains(t, app.View(), "GAME OVER")

	// Next is not offered after a death.
	app, _ = send(t, app, keyRunes("n"))
	assert.Equal(t, session.StateDied, app.Session().State())

	app, _ = send(t, app, keyRunes("r"))
	assert.Equal(t, session.StatePlaying, app.Session().State())
	assert.Equal(t, 2, app.Session().Attempt())

	app, _ = send(t, app, TickMsg(time.Now()))
	require.Equal(t, session.StateDied, app.Session().State())

	_, cmd := send(t, app, keyRunes("q"))
	assert.True(t, isQuit(cmd))
}

func TestAppLockedLevelStaysInMenu(t *testing.T) {
	app, _ := newTestApp(t)

	app, _ = send(t, app, keyRunes("j"))
	app, _ = send(t, app, enter)

	assert.Equal(t, "menu", app.Screen())
	assert.Contains(t, app.View(), "Complete level 1")
}

func TestAppStartLevelOption(t *testing.T) {
	store := progress.Load("")
	app := NewApp(Options{
		Config:     config.DefaultConfig(),
		Runtime:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24},
		Pack:       testPack(),
		Store:      store,
		StartLevel: 2,
	})

	assert.Equal(t, "menu", app.Screen())
	assert.ErrorIs(t, app.Err(), session.ErrLevelLocked)

	app = NewApp(Options{
		Config:     config.DefaultConfig(),
		Runtime:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24},
		Pack:       testPack(),
		Store:      store,
		StartLevel: 1,
	})
	assert.Equal(t, "game", app.Screen())
}

func TestAppScoreboardRoundTrip(t *testing.T) {
	app, _ := newTestApp(t, 1)

	app, _ = send(t, app, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "scores", app.Screen())
	assert.Len(t, app.scores.Rows(), 1)

	app, _ = send(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "menu", app.Screen())
}

func TestAppDebugLevelShortcut(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = send(t, app, enter)
	require.Equal(t, "game", app.Screen())

	// F-keys ignore the lock on level 2.
	app, _ = send(t, app, tea.KeyMsg{Type: tea.KeyF2})
	assert.Equal(t, 2, app.Session().LevelIndex())
	assert.Equal(t, session.StatePlaying, app.Session().State())
}

func TestAppTogglesOverrides(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = send(t, app, enter)

	for _, k := range []string{"g", "v", "x", "e"} {
		app, _ = send(t, app, keyRunes(k))
	}

	ov := app.Session().Overrides()
	assert.True(t, ov.NoClip)
	assert.True(t, ov.Invincible)
	assert.True(t, ov.PassSpikes)
	assert.True(t, ov.Easy)
	assert.Contains(t, app.View(), "NOCLIP")
}
