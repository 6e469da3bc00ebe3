package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/platform/tui"
)

var (
	flagPreset     string
	flagNoClip     bool
	flagInvincible bool
	flagPassSpikes bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play Jump Rush",
	Long: `Start the game. With a level number the menu is skipped and that
level starts right away, as long as it is unlocked.

Controls:
  Space/Up/W   - Jump (hold over an orb to bounce)
  N            - Next level (after a win)
  R            - Retry
  H/Esc        - Back to the menu (after a win or death)
  F1-F6        - Jump to a level, ignoring locks
  G/V/X/E      - Toggle noclip, invincible, pass spikes, easy physics
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Presets:
  normal - Default tuning
  easy   - Start with low gravity physics
  slow   - Half game speed
  fast   - Full game speed

Examples:
  jumprush play
  jumprush play 2
  jumprush play --preset slow
  jumprush play 4 --invincible`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

// addPlayFlags registers the play flags on cmd. The root command shares
// them so a bare "jumprush" behaves like "jumprush play".
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPreset, "preset", "", "Difficulty preset: normal, easy, slow, fast")
	cmd.Flags().BoolVar(&flagNoClip, "noclip", false, "Start with collisions disabled")
	cmd.Flags().BoolVar(&flagInvincible, "invincible", false, "Start without wall and fall deaths")
	cmd.Flags().BoolVar(&flagPassSpikes, "pass-spikes", false, "Start without spike deaths")
}

func runPlay(_ *cobra.Command, args []string) {
	startLevel := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fail("invalid level %q", args[0])
		}
		startLevel = n
	}

	logger, logFile := openLogFile()
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, easy := loadConfig(logger, flagPreset)

	pack, err := loadPack(cfg)
	if err != nil {
		fail("could not load levels: %v", err)
	}
	if startLevel > pack.Len() {
		fail("level %d does not exist, the pack has %d levels", startLevel, pack.Len())
	}

	store := openProgress(cfg, logger)
	history := openHistory(logger)

	width, height := terminalSize()

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
		},
		Pack:       pack,
		Store:      store,
		History:    history,
		Logger:     logger,
		StartLevel: startLevel,
		Overrides: physics.Overrides{
			NoClip:     flagNoClip,
			Invincible: flagInvincible,
			PassSpikes: flagPassSpikes,
			Easy:       easy,
		},
	})

	// Close history before potential exit
	if history != nil {
		history.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
