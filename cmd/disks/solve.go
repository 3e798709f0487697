package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
	"github.com/vovakirdan/disk-solitaire/internal/storage"
)

var (
	flagVerify    bool
	flagMaxStates int
	flagEffort    string
	flagNoCache   bool
	flagTimeout   time.Duration
)

var solveCmd = &cobra.Command{
	Use:   "solve <level>",
	Short: "Find the shortest solution of a level",
	Long: `Search for the shortest sequence of moves that brings the goal disk
to the win cell. Results are cached in the solutions database.

Examples:
  disks solve linear-0
  disks solve hex-4 --verify
  disks solve ring8-4 --effort exhaustive
  disks solve pent-2 --max-states 50000 --no-cache`,
	Args: cobra.ExactArgs(1),
	Run:  runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&flagVerify, "verify", false, "Replay the solution and check every move")
	solveCmd.Flags().IntVar(&flagMaxStates, "max-states", -1, "Cap on visited states, 0 for unlimited (overrides config)")
	solveCmd.Flags().StringVar(&flagEffort, "effort", "", "Search budget preset: quick, normal, exhaustive")
	solveCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Skip the solutions database")
	solveCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Give up after this long (0 = no limit)")
}

func runSolve(cmd *cobra.Command, args []string) {
	reg := loadRegistry()
	lvl := mustLevel(reg, args[0])

	topo, state, err := lvl.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	maxStates, err := solveStateCap(cfg.Solver, flagEffort, flagMaxStates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var store *storage.Store
	if !flagNoCache {
		store, err = storage.Open(cfg.Storage.DBPath)
		if err != nil {
			newLogger().Warn("solving without cache", "error", err)
		} else {
			defer store.Close()
		}
	}

	ctx := context.Background()
	if flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagTimeout)
		defer cancel()
	}

	start := time.Now()
	res, cached, err := store.SolveCached(ctx, lvl.ID, topo, state, lvl.Win,
		solver.WithMaxStates(maxStates),
		solver.WithLogger(newLogger()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error solving %s: %v\n", lvl.ID, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	fmt.Println(titleStyle.Render(lvl.DisplayName()))
	source := fmt.Sprintf("%d states explored in %s", res.Explored, elapsed.Round(time.Millisecond))
	if cached {
		source = "from cache"
	}

	switch res.Outcome {
	case solver.OutcomeAlreadySolved:
		fmt.Println(okStyle.Render("Already solved."))
		return
	case solver.OutcomeUnsolvable:
		fmt.Println(warnStyle.Render("No solution exists."), headerStyle.Render("("+source+")"))
		return
	case solver.OutcomeLimitReached:
		fmt.Println(warnStyle.Render(fmt.Sprintf("Search stopped after %d states.", res.Explored)))
		fmt.Println("Try --effort exhaustive or a larger --max-states.")
		return
	}

	fmt.Printf("Solved in %d moves %s\n", len(res.Moves), headerStyle.Render("("+source+")"))
	fmt.Println()
	for i, m := range res.Moves {
		fmt.Printf("  %3d. %s\n", i+1, m)
	}

	if flagVerify {
		fmt.Println()
		if err := solver.Verify(topo, state, lvl.Win, res.Moves); err != nil {
			fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(okStyle.Render("Verified: every move is legal and the goal disk ends on the win cell."))
	}
}

// solveStateCap picks the state cap for a solve. An explicit --max-states
// wins over --effort, which wins over the configuration.
func solveStateCap(sc config.SolverConfig, effort string, maxStates int) (int, error) {
	if maxStates >= 0 {
		return maxStates, nil
	}
	if effort != "" {
		preset := config.EffortPreset(effort)
		if !preset.Valid() {
			return 0, fmt.Errorf("unknown effort %q (want quick, normal or exhaustive)", effort)
		}
		return config.MaxStatesForEffort(preset), nil
	}
	return sc.StateCap(), nil
}
