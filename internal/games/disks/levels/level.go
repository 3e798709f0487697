// Package levels loads Disk Solitaire level packs.
// This package depends on core and shapes but neither depends on levels.
package levels

import (
	"fmt"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/shapes"
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	Pack     string // Pack title
	Shape    shapes.Spec
	Board    []string // One disk token per cell
	Win      int
	Next     string // ID of the following level in the pack, empty for the last
	FilePath string
}

// DisplayName returns the level name, falling back to its ID.
func (l *Level) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// Build validates the level and returns its topology and initial state.
// Checks:
//   - The shape has valid dimensions
//   - The board has one token per cell and every token parses
//   - The win cell is on the board
//   - Exactly one disk is the goal disk and it can move
func (l *Level) Build() (*core.Topology, core.State, error) {
	cells := l.Shape.Cells()
	if cells == 0 {
		return nil, nil, ValidationError{
			Code:    "BAD_SHAPE",
			Message: fmt.Sprintf("level %s: invalid shape %s", l.ID, l.Shape),
		}
	}

	if len(l.Board) != cells {
		return nil, nil, ValidationError{
			Code:    "BOARD_SIZE",
			Message: fmt.Sprintf("level %s: board has %d cells, shape %s has %d", l.ID, len(l.Board), l.Shape, cells),
		}
	}

	state, err := core.ParseState(l.Board)
	if err != nil {
		return nil, nil, ValidationError{
			Code:    "BAD_DISK",
			Message: fmt.Sprintf("level %s: %v", l.ID, err),
		}
	}

	if l.Win < 0 || l.Win >= cells {
		return nil, nil, ValidationError{
			Code:    "WIN_CELL",
			Message: fmt.Sprintf("level %s: win cell %d outside board of %d cells", l.ID, l.Win, cells),
		}
	}

	goals := 0
	for i, d := range state {
		if !d.Goal {
			continue
		}
		goals++
		if !d.Movable() {
			return nil, nil, ValidationError{
				Code:    "GOAL_DISK",
				Message: fmt.Sprintf("level %s: goal disk at cell %d cannot move", l.ID, i),
			}
		}
	}
	if goals != 1 {
		return nil, nil, ValidationError{
			Code:    "GOAL_COUNT",
			Message: fmt.Sprintf("level %s: expected one goal disk, found %d", l.ID, goals),
		}
	}

	lanes, err := l.Shape.Lanes()
	if err != nil {
		return nil, nil, ValidationError{
			Code:    "BAD_SHAPE",
			Message: fmt.Sprintf("level %s: %v", l.ID, err),
		}
	}
	topo, err := core.NewTopology(lanes)
	if err != nil {
		return nil, nil, fmt.Errorf("level %s: %w", l.ID, err)
	}

	return topo, state, nil
}
