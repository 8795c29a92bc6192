package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagScoresDifficulty  string
	flagScoresLimit       int
	flagScoresInteractive bool
	flagScoresClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best runs",
	Long: `Display the best recorded runs, optionally for one difficulty.

Examples:
  runner scores
  runner scores --difficulty hard --limit 20
  runner scores --limit 0
  runner scores --interactive
  runner scores --difficulty custom --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "", "Only show runs of this difficulty")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show (0 = all)")
	scoresCmd.Flags().BoolVarP(&flagScoresInteractive, "interactive", "i", false, "Browse runs in the scoreboard UI")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the selected runs")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresInteractive {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	label := flagScoresDifficulty
	if label == "" {
		label = "all difficulties"
	}

	if flagScoresClear {
		if err := store.ClearRuns(flagScoresDifficulty); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s\n", label)
		return
	}

	var runs []storage.Run
	if flagScoresLimit <= 0 {
		runs, err = store.AllRuns(flagScoresDifficulty)
	} else {
		runs, err = store.TopRuns(flagScoresDifficulty, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best Runs - %s\n", label)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first record!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-9s  %-6s  %-10s  %-6s  %s\n", "Rank", "Score", "Distance", "Speed", "Difficulty", "Cause", "Date")
	fmt.Printf("  %-4s  %-8s  %-9s  %-6s  %-10s  %-6s  %s\n", "----", "-----", "--------", "-----", "----------", "-----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-9.1f  %-6.1f  %-10s  %-6s  %s\n",
			i+1, r.Score, r.Distance, r.MaxSpeed, r.Difficulty, r.Cause, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show summary
	fmt.Println()
	if highScore, err := store.HighScore(flagScoresDifficulty); err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}
	if stats, err := store.Stats(flagScoresDifficulty); err == nil {
		fmt.Printf("Runs: %d  Average: %.0f  Total distance: %.0f\n",
			stats.Runs, stats.AverageScore, stats.TotalDistance)
	}
}
