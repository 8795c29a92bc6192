package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/games/runner"
	"github.com/vovakirdan/tui-runner/internal/platform/tui"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

var (
	flagTicks     int
	flagRuns      int
	flagAutopilot bool
	flagSave      bool
	flagScreen    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless and print the result",
	Long: `Run the game without a terminal UI. Each run lasts until it ends or
the tick limit is reached. With --autopilot the player jumps over walls and
gaps on its own; without it the player never jumps.

Consecutive runs use consecutive seeds, so a fixed --seed reproduces the
whole batch.

Examples:
  runner simulate --seed 42
  runner simulate --autopilot --runs 20 --seed 1
  runner simulate --autopilot --ticks 36000 --save
  runner simulate --seed 7 --screen`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	addGameFlags(simulateCmd)
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Tick limit per run")
	simulateCmd.Flags().IntVar(&flagRuns, "runs", 1, "Number of runs")
	simulateCmd.Flags().BoolVar(&flagAutopilot, "autopilot", false, "Let the autopilot jump")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Record finished runs in the database")
	simulateCmd.Flags().BoolVar(&flagScreen, "screen", false, "Print the final frame of each run")
}

// simResult is the outcome of one headless run.
type simResult struct {
	seed  int64
	ticks int
	state core.GameState
	err   error
}

// simulate plays one run of game to completion or the tick limit.
func simulate(game *runner.Game, cfg core.RuntimeConfig, pilot *runner.Autopilot, limit int) simResult {
	game.Reset(cfg)
	res := simResult{seed: cfg.Seed}
	if err := game.Err(); err != nil {
		res.err = err
		return res
	}

	for res.ticks < limit {
		in := core.NewInputFrame()
		if pilot != nil {
			in = pilot.Input(game)
		}
		out := game.Step(in)
		res.ticks++
		if out.State.GameOver {
			break
		}
	}

	res.state = game.State()
	res.err = game.Fault()
	return res
}

func runSimulate(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("runner-sim", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if flagRuns < 1 {
		flagRuns = 1
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var store *storage.Store
	if flagSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	var pilot *runner.Autopilot
	if flagAutopilot {
		pilot = runner.NewAutopilot()
	}

	runner.SetConfigPath(flagConfig)
	runner.SetDifficultyPreset(flagDifficulty)
	game := runner.New(runner.WithLogger(logger), runner.WithDebug(flagDebug))

	fmt.Printf("  %-20s  %-6s  %-8s  %-9s  %-6s  %s\n", "Seed", "Ticks", "Score", "Distance", "Speed", "Cause")
	fmt.Printf("  %-20s  %-6s  %-8s  %-9s  %-6s  %s\n", "----", "-----", "-----", "--------", "-----", "-----")

	failed := false
	totalScore := 0
	for i := range flagRuns {
		cfg := core.DefaultConfig()
		cfg.TickRate = flagFPS
		cfg.Seed = seed + int64(i)

		res := simulate(game, cfg, pilot, flagTicks)
		if res.err != nil && res.state.Cause == "" {
			fmt.Fprintf(os.Stderr, "Error: seed %d: %v\n", res.seed, res.err)
			failed = true
			continue
		}

		cause := res.state.Cause
		if cause == "" {
			cause = "-"
		}
		fmt.Printf("  %-20d  %-6d  %-8d  %-9.1f  %-6.1f  %s\n",
			res.seed, res.ticks, res.state.Score, res.state.Distance, game.MaxSpeed(), cause)
		totalScore += res.state.Score

		if res.err != nil {
			logger.Error("run faulted", "seed", res.seed, "error", res.err)
			failed = true
		}

		if flagScreen {
			screen := core.NewScreen(cfg.ScreenW, cfg.ScreenH)
			game.Render(screen)
			fmt.Println(screen.String())
		}

		if store != nil && res.state.GameOver {
			if _, err := store.SaveRun(tui.RunRecord(game, res.seed)); err != nil {
				logger.Warn("could not save run", "error", err)
			}
		}
	}

	if flagRuns > 1 {
		fmt.Println()
		fmt.Printf("Average score: %.1f\n", float64(totalScore)/float64(flagRuns))
	}

	if failed {
		os.Exit(1)
	}
}
