package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [pack]",
	Short: "List level packs and their levels",
	Long: `Without arguments, lists every pack with its level count.
With a pack title or file name, lists the levels of that pack.

Examples:
  disks levels
  disks levels hex
  disks levels --levels ./my-packs`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLevels,
}

func runLevels(cmd *cobra.Command, args []string) {
	reg := loadRegistry()

	if len(args) == 1 {
		pack, err := reg.Pack(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(titleStyle.Render(pack.Title))
		fmt.Println()
		fmt.Printf("  %-12s  %-8s  %s\n", headerStyle.Render("ID"), headerStyle.Render("Shape"), headerStyle.Render("Name"))
		for _, id := range pack.LevelIDs {
			lvl := mustLevel(reg, id)
			fmt.Printf("  %-12s  %-8s  %s\n", id, lvl.Shape, lvl.DisplayName())
		}
		fmt.Println()
		fmt.Println("Run 'disks show <id>' to see a level.")
		return
	}

	packs := reg.Packs()
	if len(packs) == 0 {
		fmt.Println("No level packs available.")
		return
	}

	fmt.Println(titleStyle.Render("Level packs:"))
	fmt.Println()

	// Calculate column widths
	maxTitleLen := 5 // "Title" header
	for _, p := range packs {
		if len(p.Title) > maxTitleLen {
			maxTitleLen = len(p.Title)
		}
	}

	fmt.Printf("  %-*s  %-10s  %s\n", maxTitleLen, "Title", "File", "Levels")
	fmt.Printf("  %-*s  %-10s  %s\n", maxTitleLen, "-----", "----", "------")
	for _, p := range packs {
		fmt.Printf("  %-*s  %-10s  %d\n", maxTitleLen, p.Title, p.File, len(p.LevelIDs))
	}

	fmt.Println()
	fmt.Println("Run 'disks levels <pack>' to list a pack's levels.")
}
