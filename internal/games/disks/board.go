// Package disks drives a single Disk Solitaire board: it owns the live state,
// applies moves and runs hint searches in the background.
package disks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
)

var (
	// ErrIllegalMove is returned by TryMove for a move the rules forbid.
	ErrIllegalMove = errors.New("illegal move")
	// ErrCellRange is returned for a move that names a cell outside the board.
	ErrCellRange = errors.New("cell out of range")
	// ErrUnsolvable means no sequence of moves wins from the current state.
	ErrUnsolvable = errors.New("board is unsolvable")
	// ErrLimitReached means the search gave up at its state cap.
	ErrLimitReached = errors.New("search state limit reached")
	// ErrSuperseded means the board changed while a hint was being computed.
	// Request again to get a hint for the new state.
	ErrSuperseded = errors.New("hint superseded by a newer board state")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("board closed")
)

// Hint is the result of a hint search.
type Hint struct {
	Outcome   solver.Outcome `json:"outcome"`
	Next      core.Move      `json:"next"`      // Zero unless Outcome is solved
	Remaining int            `json:"remaining"` // Moves left on the shortest plan
	Plan      []core.Move    `json:"plan,omitempty"`
	Explored  int            `json:"explored"`
}

type options struct {
	autoHint   bool
	solverOpts []solver.Option
	logger     *log.Logger
}

// Option configures a Board.
type Option func(*options)

// WithAutoHint starts a background search after every board change.
// Subscribers receive the results.
func WithAutoHint(on bool) Option {
	return func(o *options) {
		o.autoHint = on
	}
}

// WithSolverOptions passes options to every search the board runs.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(o *options) {
		o.solverOpts = append(o.solverOpts, opts...)
	}
}

// WithLogger sets the board logger.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

type solveFunc func(ctx context.Context, topo *core.Topology, state core.State, winCell int, opts ...solver.Option) (solver.Result, error)

// search is one background solver run over a snapshot of generation gen.
type search struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	result solver.Result
	err    error
}

// Board holds the mutable state of one game.
// All methods are safe for concurrent use.
type Board struct {
	topo    *core.Topology
	winCell int
	initial core.State
	opts    options
	logger  *log.Logger
	solve   solveFunc

	mu      sync.Mutex
	state   core.State
	history []core.Move
	redo    []core.Move
	gen     uint64
	search  *search
	subs    map[int]func(Hint)
	nextSub int
	closed  bool
}

// NewBoard creates a board over a copy of state.
func NewBoard(topo *core.Topology, state core.State, winCell int, opts ...Option) (*Board, error) {
	if len(state) != topo.Cells() {
		return nil, fmt.Errorf("%w: %d disks for %d cells", solver.ErrStateSize, len(state), topo.Cells())
	}
	if winCell < 0 || winCell >= topo.Cells() {
		return nil, fmt.Errorf("%w: %d", solver.ErrWinCell, winCell)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b := &Board{
		topo:    topo,
		winCell: winCell,
		initial: state.Clone(),
		opts:    o,
		logger:  logger,
		solve:   solver.Solve,
		state:   state.Clone(),
		subs:    make(map[int]func(Hint)),
	}

	if o.autoHint {
		b.mu.Lock()
		b.startSearchLocked()
		b.mu.Unlock()
	}
	return b, nil
}

// Topology returns the board's static topology.
func (b *Board) Topology() *core.Topology {
	return b.topo
}

// WinCell returns the index of the cell the goal disk must reach.
func (b *Board) WinCell() int {
	return b.winCell
}

// ApplyMove swaps the disks at m.Src and m.Dst without checking the rules.
// Any in-flight search is canceled.
func (b *Board) ApplyMove(m core.Move) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(m); err != nil {
		return err
	}
	b.state.Swap(m.Src, m.Dst)
	b.history = append(b.history, m)
	b.redo = b.redo[:0]
	b.changedLocked()
	return nil
}

// TryMove applies m if it is legal in the current state.
func (b *Board) TryMove(m core.Move) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkRange(m); err != nil {
		return err
	}
	if !b.topo.IsLegal(b.state, m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	b.state.Swap(m.Src, m.Dst)
	b.history = append(b.history, m)
	b.redo = b.redo[:0]
	b.changedLocked()
	return nil
}

// Undo reverts the last move. It reports false when there is nothing to undo.
func (b *Board) Undo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.history) == 0 {
		return false
	}
	m := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.state.Swap(m.Dst, m.Src)
	b.redo = append(b.redo, m)
	b.changedLocked()
	return true
}

// Redo replays the last undone move.
func (b *Board) Redo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.redo) == 0 {
		return false
	}
	m := b.redo[len(b.redo)-1]
	b.redo = b.redo[:len(b.redo)-1]
	b.state.Swap(m.Src, m.Dst)
	b.history = append(b.history, m)
	b.changedLocked()
	return true
}

// Reset restores the initial state and clears the move history.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = b.initial.Clone()
	b.history = nil
	b.redo = nil
	b.changedLocked()
}

// Destinations lists the legal destinations of the disk at src.
func (b *Board) Destinations(src int) []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.topo.Destinations(b.state, src)
}

// IsSolved reports whether the goal disk sits on the win cell.
func (b *Board) IsSolved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Solved(b.winCell)
}

// State returns a snapshot of the current state.
func (b *Board) State() core.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Clone()
}

// Moves returns the number of moves made since the start or last Reset.
func (b *Board) Moves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.history)
}

// History returns the moves made so far, oldest first.
func (b *Board) History() []core.Move {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]core.Move, len(b.history))
	copy(out, b.history)
	return out
}

// RequestHint waits for the search over the current state, starting one if
// none is running. The board is not modified.
//
// An already solved board yields a Hint with OutcomeAlreadySolved and a nil
// error. If the board changes before the search finishes, ErrSuperseded is
// returned.
func (b *Board) RequestHint(ctx context.Context) (Hint, error) {
	h, _, err := b.awaitHint(ctx)
	return h, err
}

// Step applies the next move of the shortest plan and returns the hint it
// came from. On an already solved board nothing is applied.
func (b *Board) Step(ctx context.Context) (Hint, error) {
	h, gen, err := b.awaitHint(ctx)
	if err != nil || h.Outcome != solver.OutcomeSolved {
		return h, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		return Hint{}, ErrSuperseded
	}
	b.state.Swap(h.Next.Src, h.Next.Dst)
	b.history = append(b.history, h.Next)
	b.redo = b.redo[:0]
	b.changedLocked()
	return h, nil
}

// QueueSolution replaces the redo stack with the shortest plan so that
// repeated Redo calls play the solution.
func (b *Board) QueueSolution(ctx context.Context) (Hint, error) {
	h, gen, err := b.awaitHint(ctx)
	if err != nil || h.Outcome != solver.OutcomeSolved {
		return h, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		return Hint{}, ErrSuperseded
	}
	// Redo pops from the end.
	b.redo = b.redo[:0]
	for i := len(h.Plan) - 1; i >= 0; i-- {
		b.redo = append(b.redo, h.Plan[i])
	}
	return h, nil
}

// awaitHint returns the hint for the current generation together with that
// generation.
func (b *Board) awaitHint(ctx context.Context) (Hint, uint64, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Hint{}, 0, ErrClosed
	}
	s := b.search
	if s == nil {
		s = b.startSearchLocked()
	}
	b.mu.Unlock()

	select {
	case <-s.done:
	case <-ctx.Done():
		return Hint{}, 0, ctx.Err()
	}

	b.mu.Lock()
	closed := b.closed
	stale := b.gen != s.gen
	b.mu.Unlock()
	if closed {
		return Hint{}, 0, ErrClosed
	}

	if s.err != nil {
		if errors.Is(s.err, context.Canceled) {
			return Hint{}, 0, ErrSuperseded
		}
		return Hint{}, 0, s.err
	}
	if stale {
		return Hint{}, 0, ErrSuperseded
	}

	h := hintFrom(s.result)
	switch s.result.Outcome {
	case solver.OutcomeUnsolvable:
		return h, s.gen, ErrUnsolvable
	case solver.OutcomeLimitReached:
		return h, s.gen, ErrLimitReached
	}
	return h, s.gen, nil
}

// RedoLen returns the number of moves Redo can replay.
func (b *Board) RedoLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.redo)
}

// Subscribe registers fn to receive the result of every search that finishes
// while its generation is still current. fn runs on the search goroutine and
// should return quickly. The returned func removes the subscription.
func (b *Board) Subscribe(fn func(Hint)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Close cancels any running search. Moves still work afterwards but no new
// searches are started.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	b.cancelLocked()
}

func (b *Board) checkRange(m core.Move) error {
	n := b.topo.Cells()
	if m.Src < 0 || m.Src >= n || m.Dst < 0 || m.Dst >= n {
		return fmt.Errorf("%w: %s", ErrCellRange, m)
	}
	return nil
}

// changedLocked moves the board to a new generation after a mutation.
func (b *Board) changedLocked() {
	b.cancelLocked()
	if b.opts.autoHint && !b.closed {
		b.startSearchLocked()
	}
}

func (b *Board) cancelLocked() {
	b.gen++
	if b.search != nil {
		b.search.cancel()
		b.search = nil
	}
}

// startSearchLocked launches a search over a snapshot of the current state.
func (b *Board) startSearchLocked() *search {
	ctx, cancel := context.WithCancel(context.Background())
	s := &search{
		gen:    b.gen,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	b.search = s

	snapshot := b.state.Clone()
	go b.run(ctx, s, snapshot)
	return s
}

func (b *Board) run(ctx context.Context, s *search, snapshot core.State) {
	defer s.cancel()

	res, err := b.solve(ctx, b.topo, snapshot, b.winCell, b.opts.solverOpts...)
	s.result, s.err = res, err
	close(s.done)

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			b.logger.Error("hint search failed", "gen", s.gen, "err", err)
		}
		return
	}
	b.logger.Debug("hint search finished",
		"gen", s.gen,
		"outcome", res.Outcome,
		"moves", len(res.Moves),
		"explored", res.Explored,
	)

	b.mu.Lock()
	if b.gen != s.gen {
		b.mu.Unlock()
		return
	}
	subs := make([]func(Hint), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()

	h := hintFrom(res)
	for _, fn := range subs {
		fn(h)
	}
}

func hintFrom(res solver.Result) Hint {
	h := Hint{
		Outcome:   res.Outcome,
		Remaining: len(res.Moves),
		Explored:  res.Explored,
	}
	if len(res.Moves) > 0 {
		h.Next = res.Moves[0]
		h.Plan = append([]core.Move(nil), res.Moves...)
	}
	return h
}
