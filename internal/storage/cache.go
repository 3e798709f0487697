package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
)

// SolveCached returns the cached result for state on a level, or runs the
// solver and caches what it finds. cached reports whether the result came
// from the database. A nil Store always solves.
//
// Solved and unsolvable results do not depend on the state cap, so a cached
// entry is valid for any cap.
func (s *Store) SolveCached(
	ctx context.Context,
	levelID string,
	topo *core.Topology,
	state core.State,
	winCell int,
	opts ...solver.Option,
) (res solver.Result, cached bool, err error) {
	if s != nil {
		sol, err := s.LookupSolution(levelID, state)
		if err != nil {
			return solver.Result{}, false, err
		}
		if sol != nil {
			return solver.Result{Outcome: sol.Outcome, Moves: sol.Moves, Explored: sol.Explored}, true, nil
		}
	}

	res, err = solver.Solve(ctx, topo, state, winCell, opts...)
	if err != nil {
		return solver.Result{}, false, err
	}

	if s != nil {
		if err := s.SaveSolution(levelID, state, res); err != nil && !errors.Is(err, ErrNotCacheable) {
			return res, false, fmt.Errorf("storage: cannot cache result: %w", err)
		}
	}
	return res, false, nil
}
