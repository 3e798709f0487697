package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/disk-solitaire/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats [level]",
	Short: "Show cached solutions and completions",
	Long: `Without arguments, shows database totals and the most recent solves.
With a level, shows the best completions of that level.

Examples:
  disks stats
  disks stats linear-3`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	// Open solution storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening solutions database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 1 {
		reg := loadRegistry()
		lvl := mustLevel(reg, args[0])
		showLevelStats(store, lvl.ID, lvl.DisplayName())
		return
	}

	stats, err := store.GetStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(titleStyle.Render("Solutions database"))
	fmt.Println()
	fmt.Printf("  Cached solves:  %d (%d levels, %d unsolvable)\n", stats.Solutions, stats.Levels, stats.Unsolvable)
	fmt.Printf("  Completions:    %d\n", stats.Completions)
	if !stats.LastSolved.IsZero() {
		fmt.Printf("  Last solved:    %s\n", stats.LastSolved.Format("2006-01-02 15:04"))
	}

	recent, err := store.RecentSolutions(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving solutions: %v\n", err)
		os.Exit(1)
	}
	if len(recent) == 0 {
		fmt.Println()
		fmt.Println("No solutions cached yet. Run 'disks solve <level>' to add one.")
		return
	}

	fmt.Println()
	fmt.Printf("  %-12s  %-14s  %-6s  %-9s  %s\n", "Level", "Outcome", "Moves", "Explored", "Date")
	fmt.Printf("  %-12s  %-14s  %-6s  %-9s  %s\n", "-----", "-------", "-----", "--------", "----")
	for _, sol := range recent {
		dateStr := sol.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-12s  %-14s  %-6d  %-9d  %s\n", sol.LevelID, sol.Outcome, len(sol.Moves), sol.Explored, dateStr)
	}
}

func showLevelStats(store *storage.Store, levelID, title string) {
	completions, err := store.BestCompletions(levelID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving completions: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best completions - %s\n", title)
	fmt.Println()

	if len(completions) == 0 {
		fmt.Println("No completions recorded yet.")
		fmt.Println()
		fmt.Println("Play the level through 'disks serve' to record one.")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "Rank", "Moves", "Session", "Date")
	fmt.Printf("  %-4s  %-6s  %-10s  %s\n", "----", "-----", "-------", "----")

	for i, entry := range completions {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-10s  %s\n", i+1, entry.Moves, shortID(entry.SessionID), dateStr)
	}

	fmt.Println()
	ls, err := store.GetLevelStats(levelID)
	if err == nil {
		fmt.Printf("Best: %d moves   Average: %.1f over %d completions\n", ls.BestMoves, ls.AvgMoves, ls.Completions)
	}
}

// shortID trims a session UUID to its first block.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
