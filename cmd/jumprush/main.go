// jumprush is a terminal rhythm-platformer: run, jump over spikes, collect
// coins and reach the end marker of each level.
//
// Usage:
//
//	jumprush                 - Start menu
//	jumprush play [level]    - Play, optionally starting on a level
//	jumprush levels          - List the level pack with lock state
//	jumprush scores [level]  - Show leaderboards and attempt history
//	jumprush progress        - Print the saved progression record
//	jumprush serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for the unlock lottery
//	--save <path>       - Progression file (default: ~/.jumprush/save.json)
//	--db <path>         - Attempt history (default: ~/.jumprush/history.db)
//	--levels <dir>      - Level pack directory (default: built-in levels)
//	--config <path>     - Tuning YAML
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS       int
	flagSeed      int64
	flagSavePath  string
	flagDBPath    string
	flagLevelsDir string
	flagCosmetics string
	flagConfig    string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jumprush",
	Short: "Jump Rush - a rhythm platformer in your terminal",
	Long: `Jump Rush is a side-scrolling platformer played in the terminal.
The player runs on its own; you only jump. Spikes, walls and falling off
the level end the attempt. Coins add up across attempts and unlock avatars.

Available commands:
  play      - Play (the default when no command is given)
  levels    - List the level pack
  scores    - View leaderboards and attempt history
  progress  - Print the saved progression record
  serve     - Start SSH server for remote play

Examples:
  jumprush
  jumprush play 3 --preset easy
  jumprush scores 2
  jumprush serve --ssh :2222`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for the unlock lottery (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagSavePath, "save", "~/.jumprush/save.json", "Path to progression file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.jumprush/history.db", "Path to attempt history database")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "Level pack directory with a levels.yaml manifest")
	rootCmd.PersistentFlags().StringVar(&flagCosmetics, "cosmetics", "", "Directory of avatar images to unlock")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	addPlayFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
}
