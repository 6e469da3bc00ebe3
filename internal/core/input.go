package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the simulation to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone           Action = iota
	ActionJump                  // Space, Up - jump and activate orbs while held
	ActionConfirm               // Enter - confirm selection in menus and modals
	ActionNext                  // Advance to the next level from the win modal
	ActionRetry                 // R - retry the same level
	ActionHome                  // H - return to the start menu
	ActionQuit                  // Q, Ctrl+C - exit
	ActionToggleNoClip          // G - pass through every obstacle
	ActionToggleInvincible      // V - no wall or fall deaths
	ActionTogglePassSpikes      // X - no spike deaths
	ActionToggleEasy            // E - low gravity physics
	ActionUp                    // Menu cursor up
	ActionDown                  // Menu cursor down
	ActionLeft                  // Previous avatar / leaderboard tab
	ActionRight                 // Next avatar / leaderboard tab
	ActionBack                  // Esc, B - leave the current screen
	ActionScores                // Tab - open the leaderboards
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionConfirm:
		return "Confirm"
	case ActionNext:
		return "Next"
	case ActionRetry:
		return "Retry"
	case ActionHome:
		return "Home"
	case ActionQuit:
		return "Quit"
	case ActionToggleNoClip:
		return "NoClip"
	case ActionToggleInvincible:
		return "Invincible"
	case ActionTogglePassSpikes:
		return "PassSpikes"
	case ActionToggleEasy:
		return "Easy"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionBack:
		return "Back"
	case ActionScores:
		return "Scores"
	default:
		return "Unknown"
	}
}
