package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jump-rush/internal/level"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level pack",
	Long: `Shows every level in the pack with its lock state, completion and
best time from the progression file.`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "jumprush")
	cfg, _ := loadConfig(logger, "")

	pack, err := loadPack(cfg)
	if err != nil {
		fail("could not load levels: %v", err)
	}
	store := openProgress(cfg, logger)

	if pack.Len() == 0 {
		fmt.Println("No levels available.")
		return
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for i := 1; i <= pack.Len(); i++ {
		if lvl, getErr := pack.Get(i); getErr == nil && len(lvl.Name) > maxNameLen {
			maxNameLen = len(lvl.Name)
		}
	}

	fmt.Printf("  %-3s  %-*s  %-8s  %-6s  %-7s  %s\n", "#", maxNameLen, "Name", "State", "Length", "Coins", "Best")
	fmt.Printf("  %-3s  %-*s  %-8s  %-6s  %-7s  %s\n", "-", maxNameLen, "----", "-----", "------", "-----", "----")

	for i := 1; i <= pack.Len(); i++ {
		lvl, getErr := pack.Get(i)
		if getErr != nil {
			continue
		}

		state := "open"
		switch {
		case store.IsCompleted(i):
			state = "done"
		case !store.IsLevelUnlocked(i):
			state = "locked"
		}

		best := "--"
		if secs, ok := store.BestTime(i); ok {
			best = fmt.Sprintf("%.1fs", secs)
		}

		fmt.Printf("  %-3d  %-*s  %-8s  %-6d  %-7d  %s\n",
			i, maxNameLen, lvl.Name, state, lvl.Columns(), lvl.Grid.Count(level.TokenCoin), best)
	}

	fmt.Println()
	fmt.Println("Run 'jumprush play <level>' to start a level.")
}
