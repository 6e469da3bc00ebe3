package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/jump-rush/internal/progress"
)

var (
	flagReset  bool
	flagRecent int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show leaderboards and attempt history",
	Long: `Without a level, display the coins leaderboard. With a level, display
its best times followed by the attempt history from the database.

Examples:
  jumprush scores
  jumprush scores 2
  jumprush scores 2 --recent 20
  jumprush scores 2 --reset`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete the attempt history of the level")
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 10, "Number of recent attempts to show")
}

func runScores(_ *cobra.Command, args []string) {
	logger := newLogger(os.Stderr, "jumprush")
	cfg, _ := loadConfig(logger, "")
	store := openProgress(cfg, logger)

	if len(args) == 0 {
		if flagReset {
			fail("--reset needs a level")
		}
		printCoins(store)
		return
	}

	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 {
		fail("invalid level %q", args[0])
	}

	pack, err := loadPack(cfg)
	if err != nil {
		fail("could not load levels: %v", err)
	}
	lvl, err := pack.Get(index)
	if err != nil {
		fail("%v", err)
	}

	history := openHistory(logger)
	if history == nil {
		os.Exit(1)
	}
	defer history.Close()

	if flagReset {
		if err := history.ClearLevel(index); err != nil {
			fail("clearing history: %v", err)
		}
		fmt.Printf("Cleared attempt history of level %d.\n", index)
		return
	}

	fmt.Printf("Best Times - %d. %s\n", index, lvl.Name)
	fmt.Println()

	times := store.TimesLeaderboard(index)
	if len(times) == 0 {
		fmt.Println("No times recorded yet.")
	} else {
		fmt.Printf("  %-4s  %-16s  %s\n", "Rank", "Player", "Time")
		fmt.Printf("  %-4s  %-16s  %s\n", "----", "------", "----")
		for i, t := range times {
			fmt.Printf("  %-4d  %-16s  %.2fs\n", i+1, t.Name, t.Time)
		}
	}

	stats, err := history.LevelStats(index)
	if err != nil {
		fail("retrieving stats: %v", err)
	}
	fmt.Println()
	fmt.Printf("Attempts %d  Wins %d  Deaths %d  Coins %d  Furthest column %d\n",
		stats.Attempts, stats.Wins, stats.Deaths, stats.Coins, stats.BestDistance)

	attempts, err := history.RecentAttempts(index, flagRecent)
	if err != nil {
		fail("retrieving attempts: %v", err)
	}
	if len(attempts) == 0 {
		fmt.Println()
		fmt.Printf("Play 'jumprush play %d' to record the first attempt!\n", index)
		return
	}

	fmt.Println()
	fmt.Printf("  %-16s  %-7s  %-7s  %-5s  %-8s  %-8s  %s\n", "Date", "Outcome", "Cause", "Coins", "Distance", "Time", "Toggles")
	fmt.Printf("  %-16s  %-7s  %-7s  %-5s  %-8s  %-8s  %s\n", "----", "-------", "-----", "-----", "--------", "----", "-------")
	for _, a := range attempts {
		cause := a.Cause
		if cause == "" {
			cause = "-"
		}
		fmt.Printf("  %-16s  %-7s  %-7s  %-5d  %-8d  %-8s  %s\n",
			a.CreatedAt.Format("2006-01-02 15:04"), a.Outcome, cause, a.Coins, a.Distance,
			fmt.Sprintf("%.1fs", a.Duration.Seconds()), strings.Join(a.Overrides, ","))
	}
}

func printCoins(store *progress.Store) {
	fmt.Println("Coins Leaderboard")
	fmt.Println()

	scores := store.CoinsLeaderboard()
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Finish a level with 'jumprush play' to set the first one!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %s\n", "Rank", "Player", "Coins")
	fmt.Printf("  %-4s  %-16s  %s\n", "----", "------", "-----")
	for i, s := range scores {
		fmt.Printf("  %-4d  %-16s  %d\n", i+1, s.Name, s.Coins)
	}

	fmt.Println()
	fmt.Printf("%s has %d coins in total.\n", store.PlayerName(), store.TotalCoins())
}
