package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var movesCmd = &cobra.Command{
	Use:   "moves <level> [cell]",
	Short: "List legal moves on a level's initial board",
	Long: `With a cell, lists where the disk on that cell may move.
Without one, lists every legal move.

Examples:
  disks moves linear-2
  disks moves hex-0 4`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runMoves,
}

func runMoves(cmd *cobra.Command, args []string) {
	reg := loadRegistry()
	lvl := mustLevel(reg, args[0])

	topo, state, err := lvl.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 2 {
		cell, err := strconv.Atoi(args[1])
		if err != nil || cell < 0 || cell >= topo.Cells() {
			fmt.Fprintf(os.Stderr, "Error: cell must be between 0 and %d\n", topo.Cells()-1)
			os.Exit(1)
		}

		dsts := topo.Destinations(state, cell)
		if len(dsts) == 0 {
			fmt.Printf("The disk on cell %d (%s) cannot move.\n", cell, state[cell])
			return
		}
		fmt.Printf("Cell %d (%s) can move to:", cell, state[cell])
		for _, d := range dsts {
			fmt.Printf(" %d", d)
		}
		fmt.Println()
		return
	}

	moves := topo.LegalMoves(state)
	if len(moves) == 0 {
		fmt.Println(warnStyle.Render("No legal moves."))
		return
	}
	fmt.Printf("%d legal moves:\n", len(moves))
	for _, m := range moves {
		fmt.Printf("  %s\n", m)
	}
}
