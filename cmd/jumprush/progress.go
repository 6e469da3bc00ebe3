package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagJSON       bool
	flagPlayerName string
	flagAvatar     string
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print the saved progression record",
	Long: `Print the player's coins, unlocked avatars, completed levels and best
times. --name and --avatar update the record before printing it.

Examples:
  jumprush progress
  jumprush progress --json
  jumprush progress --name Ada --avatar "Clown.png"`,
	Args: cobra.NoArgs,
	Run:  runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw record as JSON")
	progressCmd.Flags().StringVar(&flagPlayerName, "name", "", "Set the player name")
	progressCmd.Flags().StringVar(&flagAvatar, "avatar", "", "Select an unlocked avatar")
}

func runProgress(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "jumprush")
	cfg, _ := loadConfig(logger, "")
	store := openProgress(cfg, logger)

	if flagPlayerName != "" {
		if err := store.SetPlayerName(flagPlayerName); err != nil {
			fail("setting name: %v", err)
		}
	}
	if flagAvatar != "" {
		if err := store.SetSelectedCosmetic(flagAvatar); err != nil {
			fail("selecting avatar: %v", err)
		}
	}

	rec := store.Record()

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			fail("encoding record: %v", err)
		}
		return
	}

	fmt.Printf("Player:    %s\n", rec.PlayerName)
	fmt.Printf("Coins:     %d\n", rec.TotalCoins)
	fmt.Printf("Avatar:    %s\n", store.SelectedCosmetic())
	fmt.Printf("Unlocked:  %s\n", strings.Join(rec.UnlockedAvatars, ", "))

	completed := store.Completed()
	if len(completed) == 0 {
		fmt.Println("Completed: none")
	} else {
		names := make([]string, len(completed))
		for i, idx := range completed {
			names[i] = fmt.Sprintf("%d", idx)
		}
		fmt.Printf("Completed: %s\n", strings.Join(names, ", "))
	}

	if path := store.Path(); path != "" {
		fmt.Printf("Saved at:  %s\n", path)
	}

	best := store.BestTimes()
	if len(best) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Best times:")
	for _, idx := range slices.Sorted(maps.Keys(best)) {
		fmt.Printf("  Level %-3d %.2fs\n", idx, best[idx])
	}
}
