package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/disk-solitaire/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP hint service",
	Long: `Start an HTTP server where clients create play sessions, make moves
and ask for hints. Session updates are pushed over a websocket.

Solutions and completions are stored in the solutions database and shared
by every client of the server.

Endpoints:
  GET  /levels                    List packs and levels
  GET  /levels/:id                Level definition
  POST /sessions                  Start a session {"level_id": "..."}
  POST /sessions/:id/moves        Make a move {"src": 0, "dst": 2}
  GET  /sessions/:id/hint         Ask for a hint (?level=small|medium|large)
  POST /solve                     Solve an arbitrary layout
  GET  /ws?session_id=...         Live session updates

Examples:
  disks serve                     # Listen on the configured address
  disks serve --addr :9000        # Listen on port 9000
  disks serve --db ./solutions.db # Use specific database`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) {
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}

	srv, err := server.New(cfg, loadRegistry(), newLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting disks hint service on %s\n", srv.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
