package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/jump-rush/internal/core"
)

// GameKeyMap holds the bindings of the game screen and its modals.
type GameKeyMap struct {
	Jump       key.Binding
	Next       key.Binding
	Retry      key.Binding
	Home       key.Binding
	Confirm    key.Binding
	Left       key.Binding
	Right      key.Binding
	Quit       key.Binding
	NoClip     key.Binding
	Invincible key.Binding
	PassSpikes key.Binding
	Easy       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.NoClip, k.Invincible, k.PassSpikes, k.Easy, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Quit},
		{k.NoClip, k.Invincible, k.PassSpikes, k.Easy},
		{k.Next, k.Retry, k.Home},
	}
}

// DefaultGameKeyMap returns the default game bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space/up", "jump"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next level"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Home: key.NewBinding(
			key.WithKeys("h", "esc"),
			key.WithHelp("h/esc", "home"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("right", "next"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NoClip: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "noclip"),
		),
		Invincible: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "invincible"),
		),
		PassSpikes: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "pass spikes"),
		),
		Easy: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "easy mode"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys GameKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultGameKeyMap()}
}

// Keys returns the bindings for help rendering.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message on the game screen or a modal to an action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm
	case key.Matches(msg, k.Next):
		return core.ActionNext
	case key.Matches(msg, k.Retry):
		return core.ActionRetry
	case key.Matches(msg, k.Home):
		return core.ActionHome
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.NoClip):
		return core.ActionToggleNoClip
	case key.Matches(msg, k.Invincible):
		return core.ActionToggleInvincible
	case key.Matches(msg, k.PassSpikes):
		return core.ActionTogglePassSpikes
	case key.Matches(msg, k.Easy):
		return core.ActionToggleEasy
	}
	return core.ActionNone
}

// levelKeys are the debug shortcuts that jump straight to a level.
var levelKeys = map[string]int{
	"f1": 1, "f2": 2, "f3": 3, "f4": 4, "f5": 5, "f6": 6,
}

// LevelKey reports which level a debug shortcut selects.
func (km *KeyMapper) LevelKey(msg tea.KeyMsg) (int, bool) {
	n, ok := levelKeys[msg.String()]
	return n, ok
}

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) core.Action {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit
	case "w", "up", "k": // vim-style k for up
		return core.ActionUp
	case "s", "down", "j": // vim-style j for down
		return core.ActionDown
	case "a", "left", "h":
		return core.ActionLeft
	case "d", "right", "l":
		return core.ActionRight
	case "enter", " ":
		return core.ActionConfirm
	case "tab":
		return core.ActionScores
	case "b", "esc":
		return core.ActionBack
	}
	return core.ActionNone
}
