package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <level>",
	Short: "Print a level's board and lanes",
	Long: `Print the cells, disks and lanes of a level.

Examples:
  disks show linear-0
  disks show ring8-3`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	reg := loadRegistry()
	lvl := mustLevel(reg, args[0])

	topo, state, err := lvl.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s  %s\n", titleStyle.Render(lvl.DisplayName()), headerStyle.Render(fmt.Sprintf("(%s, %s)", lvl.ID, lvl.Pack)))
	fmt.Printf("Shape: %s   Cells: %d   Win cell: %d\n", lvl.Shape, topo.Cells(), lvl.Win)
	fmt.Println(renderBoard(lvl.Shape, state, lvl.Win))
	fmt.Println(legend())
	fmt.Println()

	fmt.Println(headerStyle.Render("Lanes:"))
	for i, lane := range topo.Lanes() {
		fmt.Printf("  %2d: %s\n", i, formatLane(lane))
	}

	if lvl.Next != "" {
		fmt.Println()
		fmt.Printf("Next level: %s\n", lvl.Next)
	}
}
