package core

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMalformedLane is returned when a lane references an impossible cell index.
var ErrMalformedLane = errors.New("malformed lane")

// Topology is the static ray index of a board.
// Each cell owns one ray per (lane, direction) it takes part in, nearest cell
// first. A Topology never changes after construction, so it is safe to share
// between goroutines.
type Topology struct {
	cells int
	lanes [][]int
	rays  [][][]int
}

// NewTopology precomputes the rays of every cell from the board's lanes.
// The number of cells is one more than the largest index in any lane.
func NewTopology(lanes [][]int) (*Topology, error) {
	cells := 0
	for i, lane := range lanes {
		for _, idx := range lane {
			if idx < 0 {
				return nil, fmt.Errorf("%w: lane %d contains index %d", ErrMalformedLane, i, idx)
			}
			if idx+1 > cells {
				cells = idx + 1
			}
		}
	}

	t := &Topology{
		cells: cells,
		lanes: make([][]int, len(lanes)),
		rays:  make([][][]int, cells),
	}

	for li, lane := range lanes {
		t.lanes[li] = slices.Clone(lane)

		k := len(lane)
		reversed := slices.Clone(lane)
		slices.Reverse(reversed)

		for i := range lane {
			// Forward: everything after lane[i]
			if fwd := lane[i+1:]; len(fwd) > 0 {
				t.rays[lane[i]] = append(t.rays[lane[i]], slices.Clone(fwd))
			}
			// Backward: everything after lane[k-1-i] walking toward the start
			if back := reversed[i+1:]; len(back) > 0 {
				t.rays[lane[k-1-i]] = append(t.rays[lane[k-1-i]], slices.Clone(back))
			}
		}
	}

	return t, nil
}

// Cells returns the number of cells the topology covers.
func (t *Topology) Cells() int {
	return t.cells
}

// Lanes returns a copy of the lanes the topology was built from.
func (t *Topology) Lanes() [][]int {
	out := make([][]int, len(t.lanes))
	for i, l := range t.lanes {
		out[i] = slices.Clone(l)
	}
	return out
}

// Rays returns the rays starting at cell, or nil for an unknown cell.
// The returned slices are shared and must not be modified.
func (t *Topology) Rays(cell int) [][]int {
	if cell < 0 || cell >= t.cells {
		return nil
	}
	return t.rays[cell]
}

// Neighbors returns the immediate neighbour of cell along each of its rays.
// A cell adjacent through more than one lane appears once per lane.
func (t *Topology) Neighbors(cell int) []int {
	rays := t.Rays(cell)
	out := make([]int, 0, len(rays))
	for _, r := range rays {
		out = append(out, r[0])
	}
	return out
}
