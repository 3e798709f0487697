package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
	"github.com/vovakirdan/disk-solitaire/internal/session"
	"github.com/vovakirdan/disk-solitaire/internal/storage"
)

// @Summary List level packs
// @Tags Level
// @Produce json
// @Success 200 {array} PackResponse
// @Router /levels [get]
func ListLevelsHandler(reg *levels.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := []PackResponse{}
		for _, p := range reg.Packs() {
			pr := PackResponse{Title: p.Title, File: p.File, Levels: []LevelSummary{}}
			for _, id := range p.LevelIDs {
				lvl, err := reg.Level(id)
				if err != nil {
					continue
				}
				pr.Levels = append(pr.Levels, LevelSummary{ID: id, Name: lvl.DisplayName()})
			}
			out = append(out, pr)
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Get a level
// @Tags Level
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} LevelResponse
// @Router /levels/{id} [get]
func GetLevelHandler(reg *levels.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		lvl, err := reg.Level(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		topo, _, err := lvl.Build()
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, levelResponse(lvl, topo.Lanes()))
	}
}

// @Summary Shortest solution of a level from its initial board
// @Description Results are cached in the solution database
// @Tags Level
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} SolveResponse
// @Router /levels/{id}/solution [get]
func LevelSolutionHandler(reg *levels.Registry, store *storage.Store, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lvl, err := reg.Level(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		topo, state, err := lvl.Build()
		if err != nil {
			writeError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.HintTimeout)
		defer cancel()

		res, cached, err := store.SolveCached(ctx, lvl.ID, topo, state, lvl.Win,
			solver.WithMaxStates(cfg.Solver.StateCap()))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, solveResponse(res, cached))
	}
}

// @Summary Completion statistics of a level
// @Tags Level
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} LevelStatsResponse
// @Router /levels/{id}/stats [get]
func LevelStatsHandler(reg *levels.Registry, store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !reg.Exists(id) {
			writeError(c, levels.ErrNotFound)
			return
		}
		if store == nil {
			c.JSON(http.StatusOK, LevelStatsResponse{LevelID: id})
			return
		}
		stats, err := store.GetLevelStats(id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, LevelStatsResponse{
			LevelID:     id,
			Completions: stats.Completions,
			BestMoves:   stats.BestMoves,
			AvgMoves:    stats.AvgMoves,
		})
	}
}

// @Summary Start a play session
// @Tags Session
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Level"
// @Success 201 {object} session.Snapshot
// @Router /sessions [post]
func CreateSessionHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level_id required"})
			return
		}
		s, err := sm.Create(req.LevelID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s.Snapshot())
	}
}

// @Summary Get a play session
// @Tags Session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Router /sessions/{id} [get]
func GetSessionHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sm.Get(c.Param("id"))
		if !ok {
			writeError(c, session.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, s.Snapshot())
	}
}

// @Summary End a play session
// @Tags Session
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func DeleteSessionHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sm.Delete(c.Param("id")) {
			writeError(c, session.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Legal destinations of a disk
// @Tags Game
// @Produce json
// @Param id path string true "Session ID"
// @Param cell query int true "Source cell"
// @Success 200 {object} DestinationsResponse
// @Router /sessions/{id}/destinations [get]
func DestinationsHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sm.Get(c.Param("id"))
		if !ok {
			writeError(c, session.ErrNotFound)
			return
		}
		cell, err := strconv.Atoi(c.Query("cell"))
		if err != nil || cell < 0 || cell >= s.Board.Topology().Cells() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cell must be a cell index"})
			return
		}
		dsts := s.Board.Destinations(cell)
		if dsts == nil {
			dsts = []int{}
		}
		c.JSON(http.StatusOK, DestinationsResponse{Cell: cell, Destinations: dsts})
	}
}

// @Summary Player makes a move
// @Tags Game
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body MoveRequest true "Move"
// @Success 200 {object} session.Snapshot
// @Failure 422 {object} map[string]string
// @Router /sessions/{id}/moves [post]
func MoveHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "src and dst required"})
			return
		}
		snap, err := sm.Move(c.Param("id"), core.Move{Src: *req.Src, Dst: *req.Dst})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// @Summary Undo the last move
// @Tags Game
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Router /sessions/{id}/undo [post]
func UndoHandler(sm *session.Manager) gin.HandlerFunc {
	return editHandler(sm.Undo)
}

// @Summary Redo the last undone move
// @Tags Game
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Router /sessions/{id}/redo [post]
func RedoHandler(sm *session.Manager) gin.HandlerFunc {
	return editHandler(sm.Redo)
}

func editHandler(edit func(string) (session.Snapshot, bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, ok, err := edit(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusConflict, gin.H{"error": "nothing to undo or redo", "session": snap})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// @Summary Restart the level
// @Tags Game
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Snapshot
// @Router /sessions/{id}/reset [post]
func ResetHandler(sm *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := sm.Reset(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// @Summary Hint for the current board
// @Description Waits for the search over the current state. level=medium also
// @Description plays the next move, level=large queues the plan for redo.
// @Tags Game
// @Produce json
// @Param id path string true "Session ID"
// @Param level query string false "small, medium or large"
// @Success 200 {object} HintResponse
// @Failure 409 {object} map[string]string
// @Router /sessions/{id}/hint [get]
func HintHandler(sm *session.Manager, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		level := cfg.Hints.Level
		if q := c.Query("level"); q != "" {
			level = config.HintLevel(q)
			if !level.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "level must be small, medium or large"})
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.HintTimeout)
		defer cancel()

		h, snap, err := sm.Hint(ctx, c.Param("id"), level)
		// Unsolvable and capped searches are answers, not failures
		if err != nil && !errors.Is(err, disks.ErrUnsolvable) && !errors.Is(err, disks.ErrLimitReached) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, HintResponse{Hint: h, Session: snap})
	}
}

// @Summary Solve an arbitrary layout
// @Description Stateless; the caller supplies lanes, disks and win cell
// @Tags Solver
// @Accept json
// @Produce json
// @Param request body SolveRequest true "Layout"
// @Success 200 {object} SolveResponse
// @Router /solve [post]
func SolveHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lanes and board required"})
			return
		}
		if err := checkLayout(req.Lanes, len(req.Board)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		topo, err := core.NewTopology(req.Lanes)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		state, err := core.ParseState(req.Board)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		maxStates := cfg.Solver.StateCap()
		if req.MaxStates > 0 && (maxStates == 0 || req.MaxStates < maxStates) {
			maxStates = req.MaxStates
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.HintTimeout)
		defer cancel()

		res, err := solver.Solve(ctx, topo, state, req.Win, solver.WithMaxStates(maxStates))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, solveResponse(res, false))
	}
}

// Limits on client supplied layouts. Ray storage grows with the square of a
// lane's length.
const (
	maxSolveCells     = 512
	maxSolveLaneCells = 2048
)

// checkLayout rejects lanes that name cells outside a board of the given
// size, before any topology is allocated.
func checkLayout(lanes [][]int, cells int) error {
	if cells > maxSolveCells {
		return fmt.Errorf("board has %d cells, at most %d allowed", cells, maxSolveCells)
	}
	total := 0
	for i, lane := range lanes {
		total += len(lane)
		if total > maxSolveLaneCells {
			return fmt.Errorf("lanes list more than %d cells", maxSolveLaneCells)
		}
		for _, idx := range lane {
			if idx < 0 || idx >= cells {
				return fmt.Errorf("%w: lane %d contains index %d, board has %d cells", core.ErrMalformedLane, i, idx, cells)
			}
		}
	}
	return nil
}

func solveResponse(res solver.Result, cached bool) SolveResponse {
	moves := res.Moves
	if moves == nil {
		moves = []core.Move{}
	}
	return SolveResponse{
		Outcome:  res.Outcome.String(),
		Moves:    moves,
		Explored: res.Explored,
		Cached:   cached,
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var verr levels.ValidationError
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, levels.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, disks.ErrIllegalMove), errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, disks.ErrCellRange), errors.Is(err, solver.ErrStateSize), errors.Is(err, solver.ErrWinCell):
		status = http.StatusBadRequest
	case errors.Is(err, disks.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, disks.ErrClosed), errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
