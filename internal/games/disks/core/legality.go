package core

import "slices"

// Destinations returns the cells the disk at src may legally move to.
//
// A disk slides along a ray, jumps the contiguous run of pieces in front of it
// and lands on the first empty cell beyond them. The landing cell must not be
// void and must satisfy CanLand. Each ray yields at most one destination; the
// result is deduplicated and keeps ray order.
//
// Invalid queries (unknown cell, empty/fixed/void source, short state) return
// nil rather than an error.
func (t *Topology) Destinations(state State, src int) []int {
	if src < 0 || src >= t.cells || len(state) < t.cells {
		return nil
	}
	if !state[src].Movable() {
		return nil
	}

	var out []int
	for _, ray := range t.rays[src] {
		dst, ok := t.destinationAlong(state, src, ray)
		if !ok || slices.Contains(out, dst) {
			continue
		}
		out = append(out, dst)
	}
	return out
}

// destinationAlong walks one ray from src.
func (t *Topology) destinationAlong(state State, src int, ray []int) (int, bool) {
	// Nothing to jump over
	if len(ray) == 0 || !state[ray[0]].Blocks() {
		return 0, false
	}

	for _, dst := range ray[1:] {
		if !state[dst].Empty() {
			continue
		}
		if state[dst].Void || !t.CanLand(state, dst, src) {
			return 0, false
		}
		return dst, true
	}

	// The run of pieces reaches the wall
	return 0, false
}

// CanLand reports whether the disk at src may come to rest on dst.
// Every immediate neighbour of dst, other than src itself which the moving
// disk vacates, must have size at most 4 minus the moving disk's size.
func (t *Topology) CanLand(state State, dst, src int) bool {
	if dst < 0 || dst >= t.cells || src < 0 || src >= len(state) {
		return false
	}

	maxNeighbor := 4 - int(state[src].Size)
	for _, ray := range t.rays[dst] {
		n := ray[0]
		if n == src {
			continue
		}
		if int(state[n].Size) > maxNeighbor {
			return false
		}
	}
	return true
}

// IsLegal reports whether m is one of the legal moves in state.
func (t *Topology) IsLegal(state State, m Move) bool {
	return slices.Contains(t.Destinations(state, m.Src), m.Dst)
}

// LegalMoves lists every legal move, sources in increasing order.
func (t *Topology) LegalMoves(state State) []Move {
	var moves []Move
	for src := 0; src < t.cells; src++ {
		for _, dst := range t.Destinations(state, src) {
			moves = append(moves, Move{Src: src, Dst: dst})
		}
	}
	return moves
}
