package http

import (
	"github.com/vovakirdan/disk-solitaire/internal/games/disks"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/session"
)

// CreateSessionRequest represents the payload for POST /sessions.
type CreateSessionRequest struct {
	LevelID string `json:"level_id" binding:"required"`
}

// MoveRequest represents a player move.
type MoveRequest struct {
	Src *int `json:"src" binding:"required"`
	Dst *int `json:"dst" binding:"required"`
}

// SolveRequest represents a stateless solve of an arbitrary layout.
type SolveRequest struct {
	Lanes     [][]int  `json:"lanes" binding:"required"`
	Board     []string `json:"board" binding:"required"`
	Win       int      `json:"win"`
	MaxStates int      `json:"max_states"`
}

// SolveResponse is the result of a solve.
type SolveResponse struct {
	Outcome  string      `json:"outcome"`
	Moves    []core.Move `json:"moves"`
	Explored int         `json:"explored"`
	Cached   bool        `json:"cached,omitempty"`
}

// HintResponse carries a hint and the session after it was applied.
type HintResponse struct {
	Hint    disks.Hint       `json:"hint"`
	Session session.Snapshot `json:"session"`
}

// DestinationsResponse lists where the disk on a cell may move.
type DestinationsResponse struct {
	Cell         int   `json:"cell"`
	Destinations []int `json:"destinations"`
}

// LevelSummary is one entry of a pack listing.
type LevelSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PackResponse is one pack with its levels in play order.
type PackResponse struct {
	Title  string         `json:"title"`
	File   string         `json:"file"`
	Levels []LevelSummary `json:"levels"`
}

// LevelResponse is a full level definition.
type LevelResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Pack  string   `json:"pack"`
	Shape string   `json:"shape"`
	Lanes [][]int  `json:"lanes"`
	Board []string `json:"board"`
	Win   int      `json:"win"`
	Next  string   `json:"next,omitempty"`
}

// LevelStatsResponse aggregates completions of a level.
type LevelStatsResponse struct {
	LevelID     string  `json:"level_id"`
	Completions int     `json:"completions"`
	BestMoves   int     `json:"best_moves"`
	AvgMoves    float64 `json:"avg_moves"`
}

func levelResponse(lvl levels.Level, lanes [][]int) LevelResponse {
	return LevelResponse{
		ID:    lvl.ID,
		Name:  lvl.DisplayName(),
		Pack:  lvl.Pack,
		Shape: lvl.Shape.String(),
		Lanes: lanes,
		Board: lvl.Board,
		Win:   lvl.Win,
		Next:  lvl.Next,
	}
}
