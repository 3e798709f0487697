// disks is a solver and hint service for Disk Solitaire puzzles.
//
// Usage:
//
//	disks levels [pack]          - List level packs and levels
//	disks show <level>           - Print a level's board and lanes
//	disks moves <level> [cell]   - List legal moves on the initial board
//	disks solve <level>          - Find the shortest solution
//	disks stats [level]          - Show cached solutions and completions
//	disks config                 - Print the effective configuration
//	disks serve                  - Start the HTTP hint service
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search ~/.disks and ./configs)
//	--db <path>         - Solutions database (default: ~/.disks/solutions.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--levels <dir>      - Extra directory of level packs
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLevels   string
)

// cfg is the effective configuration, loaded before every command.
var cfg config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "disks",
	Short: "Disk Solitaire - solver and hint service",
	Long: `Disk Solitaire is a sliding-disk puzzle: disks jump along lanes of
cells until the goal disk reaches the win cell.

Available commands:
  levels   - Show level packs
  show     - Print a level
  moves    - List legal moves
  solve    - Find the shortest solution
  stats    - View cached solutions and completions
  config   - Print the effective configuration
  serve    - Start the HTTP hint service

Examples:
  disks levels
  disks show linear-0
  disks moves hex-2 4
  disks solve pent-3 --verify
  disks serve --addr :9000`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = loadConfig()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to solutions database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory with additional level packs (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(movesCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig applies the global flags over the loaded configuration.
func loadConfig() config.Config {
	c, err := config.Load(flagConfig)
	if err != nil {
		fatalf("Error loading config: %v\n", err)
	}

	if flagDBPath != "" {
		c.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		c.Log.Level = flagLogLevel
	}
	if flagLevels != "" {
		c.Levels.Dir = flagLevels
	}

	if err := c.Validate(); err != nil {
		fatalf("Error: %v\n", err)
	}
	return c
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "disks",
		Level:           cfg.LogLevel(),
	})
}

// loadRegistry returns the built-in packs plus any from the configured
// directory. Broken packs in the directory are reported and skipped.
func loadRegistry() *levels.Registry {
	reg, err := levels.Default()
	if err != nil {
		fatalf("Error loading built-in levels: %v\n", err)
	}

	if cfg.Levels.Dir != "" {
		dir, err := config.ExpandHome(cfg.Levels.Dir)
		if err != nil {
			fatalf("Error: %v\n", err)
		}
		if err := reg.LoadDir(dir); err != nil {
			newLogger().Warn("some level packs were skipped", "dir", dir, "error", err)
		}
	}
	return reg
}

// mustLevel looks up a level or exits with a hint to run 'disks levels'.
func mustLevel(reg *levels.Registry, id string) levels.Level {
	lvl, err := reg.Level(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'disks levels' to see available levels.")
		os.Exit(1)
	}
	return lvl
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
