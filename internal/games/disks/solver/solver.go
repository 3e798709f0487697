// Package solver finds shortest solutions for Disk Solitaire boards.
//
// The search is an uninformed breadth-first search over board states with a
// visited set keyed on the full disk sequence. It is cancelable through its
// context and may be bounded by a cap on visited states.
package solver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
)

var (
	// ErrStateSize is returned when the state does not cover the topology.
	ErrStateSize = errors.New("state size does not match topology")
	// ErrWinCell is returned for a win cell outside the board.
	ErrWinCell = errors.New("win cell out of range")
)

// Outcome classifies a search result.
type Outcome int

const (
	// OutcomeSolved means Moves holds a shortest solution.
	OutcomeSolved Outcome = iota
	// OutcomeAlreadySolved means the initial state already wins; Moves is empty.
	OutcomeAlreadySolved
	// OutcomeUnsolvable means every reachable state was explored without a win.
	OutcomeUnsolvable
	// OutcomeLimitReached means the state cap was hit before a win was found.
	// The board may still be solvable.
	OutcomeLimitReached
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSolved:
		return "solved"
	case OutcomeAlreadySolved:
		return "already_solved"
	case OutcomeUnsolvable:
		return "unsolvable"
	case OutcomeLimitReached:
		return "limit_reached"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range []Outcome{OutcomeSolved, OutcomeAlreadySolved, OutcomeUnsolvable, OutcomeLimitReached} {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Result is the output of Solve.
type Result struct {
	Outcome  Outcome
	Moves    []core.Move // Non-empty only for OutcomeSolved
	Explored int         // Number of distinct states visited
}

// Options tunes a search.
type Options struct {
	// MaxStates caps the visited set. 0 means unlimited.
	MaxStates int
	Logger    *log.Logger
}

// Option configures Options.
type Option func(*Options)

// WithMaxStates caps the number of distinct states the search may visit.
func WithMaxStates(n int) Option {
	return func(o *Options) {
		o.MaxStates = n
	}
}

// WithLogger sets the logger used for search summaries.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// node is one BFS frontier entry. Paths are rebuilt from parent links.
type node struct {
	state  core.State
	parent int
	move   core.Move
}

// Solve searches for the shortest move sequence that puts the goal disk on
// winCell. The initial state is never modified.
//
// A canceled context aborts the search and returns ctx.Err() with a zero
// Result.
func Solve(ctx context.Context, topo *core.Topology, initial core.State, winCell int, opts ...Option) (Result, error) {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if len(initial) != topo.Cells() {
		return Result{}, fmt.Errorf("%w: %d disks for %d cells", ErrStateSize, len(initial), topo.Cells())
	}
	if winCell < 0 || winCell >= topo.Cells() {
		return Result{}, fmt.Errorf("%w: %d", ErrWinCell, winCell)
	}

	if initial.Solved(winCell) {
		return Result{Outcome: OutcomeAlreadySolved, Explored: 1}, nil
	}

	start := time.Now()
	root := initial.Clone()
	seen := map[string]struct{}{root.Key(): {}}
	nodes := []node{{state: root, parent: -1}}

	for head := 0; head < len(nodes); head++ {
		if err := ctx.Err(); err != nil {
			logger.Debug("search canceled", "explored", len(seen), "elapsed", time.Since(start))
			return Result{}, err
		}

		cur := nodes[head].state
		for src := 0; src < topo.Cells(); src++ {
			for _, dst := range topo.Destinations(cur, src) {
				m := core.Move{Src: src, Dst: dst}
				candidate := cur.Apply(m)

				if candidate.Solved(winCell) {
					moves := pathTo(nodes, head, m)
					logger.Debug("search solved",
						"moves", len(moves),
						"explored", len(seen),
						"elapsed", time.Since(start),
					)
					return Result{Outcome: OutcomeSolved, Moves: moves, Explored: len(seen)}, nil
				}

				key := candidate.Key()
				if _, ok := seen[key]; ok {
					continue
				}
				if o.MaxStates > 0 && len(seen) >= o.MaxStates {
					logger.Debug("search hit state cap", "cap", o.MaxStates, "elapsed", time.Since(start))
					return Result{Outcome: OutcomeLimitReached, Explored: len(seen)}, nil
				}
				seen[key] = struct{}{}
				nodes = append(nodes, node{state: candidate, parent: head, move: m})
			}
		}

		// Release states that will never be read again; parent links stay
		nodes[head].state = nil
	}

	logger.Debug("search exhausted", "explored", len(seen), "elapsed", time.Since(start))
	return Result{Outcome: OutcomeUnsolvable, Explored: len(seen)}, nil
}

// pathTo rebuilds the moves from the root to nodes[idx], then appends last.
func pathTo(nodes []node, idx int, last core.Move) []core.Move {
	depth := 0
	for i := idx; nodes[i].parent >= 0; i = nodes[i].parent {
		depth++
	}

	moves := make([]core.Move, depth+1)
	moves[depth] = last
	for i := idx; nodes[i].parent >= 0; i = nodes[i].parent {
		depth--
		moves[depth] = nodes[i].move
	}
	return moves
}

// Verify replays moves from state and checks each is legal and that the final
// state is solved. It is used to validate plans from caches and clients.
func Verify(topo *core.Topology, state core.State, winCell int, moves []core.Move) error {
	cur := state.Clone()
	for i, m := range moves {
		if !topo.IsLegal(cur, m) {
			return fmt.Errorf("move %d (%s) is illegal", i+1, m)
		}
		cur.Swap(m.Src, m.Dst)
	}
	if !cur.Solved(winCell) {
		return fmt.Errorf("plan of %d moves does not solve the board", len(moves))
	}
	return nil
}
