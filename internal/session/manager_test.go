package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
)

const linePack = `title: Line
shape: {kind: rect, rows: 1, cols: 5}
win: 4
levels:
  - board: "1 G, 1, 0, 1, 0"
  - board: "1 G, 0, 0, 0, 0"
`

type event struct {
	session string
	action  string
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Broadcast(sessionID, action string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{sessionID, action})
}

func (r *recorder) count(action string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.action == action {
			n++
		}
	}
	return n
}

type completions struct {
	mu    sync.Mutex
	moves []int
}

func (c *completions) RecordCompletion(_, _ string, moves int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves = append(c.moves, moves)
	return int64(len(c.moves)), nil
}

func newTestManager(t *testing.T, cfg Config) (*Manager, *recorder, *completions) {
	t.Helper()
	reg := levels.NewRegistry()
	fsys := fstest.MapFS{"line.yaml": {Data: []byte(linePack)}}
	if err := reg.LoadFS(fsys, "."); err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	m := NewManager(reg, cfg, nil)
	rec := &recorder{}
	saved := &completions{}
	m.SetBroadcaster(rec)
	m.SetCompletionSaver(saved)
	t.Cleanup(m.Stop)
	return m, rec, saved
}

func TestCreateGetDelete(t *testing.T) {
	m, rec, _ := newTestManager(t, Config{})

	s, err := m.Create("line-0")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID == "" || s.LevelID != "line-0" {
		t.Fatalf("unexpected session %+v", s)
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s {
		t.Fatal("Get should return the created session")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, expected 1", m.Len())
	}

	snap := s.Snapshot()
	if snap.Win != 4 || snap.Moves != 0 || snap.Solved || len(snap.Board) != 5 || snap.Board[0] != "1 G" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	if !m.Delete(s.ID) {
		t.Fatal("Delete should report an existing session")
	}
	if m.Delete(s.ID) {
		t.Error("second Delete should report false")
	}
	if _, ok := m.Get(s.ID); ok || m.Len() != 0 {
		t.Error("session should be gone")
	}
	if rec.count(ActionClosed) != 1 {
		t.Error("Delete should broadcast a closed event")
	}
	if _, err := s.Board.RequestHint(context.Background()); !errors.Is(err, disks.ErrClosed) {
		t.Errorf("board of a deleted session should be closed, got %v", err)
	}
}

func TestCreateUnknownLevel(t *testing.T) {
	m, _, _ := newTestManager(t, Config{})

	if _, err := m.Create("nope-0"); !errors.Is(err, levels.ErrNotFound) {
		t.Errorf("expected levels.ErrNotFound, got %v", err)
	}
}

func TestMoveRecordsCompletionOnce(t *testing.T) {
	m, rec, saved := newTestManager(t, Config{})
	s, _ := m.Create("line-0")

	if _, err := m.Move(s.ID, core.Move{Src: 1, Dst: 2}); !errors.Is(err, disks.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, err := m.Move("missing", core.Move{Src: 0, Dst: 2}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := m.Move(s.ID, core.Move{Src: 0, Dst: 2}); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	snap, err := m.Move(s.ID, core.Move{Src: 2, Dst: 4})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !snap.Solved || snap.Moves != 2 {
		t.Fatalf("expected solved after 2 moves, got %+v", snap)
	}

	// Undo and redo back into the solved state must not count twice
	if _, ok, _ := m.Undo(s.ID); !ok {
		t.Fatal("Undo should succeed")
	}
	if _, ok, _ := m.Redo(s.ID); !ok {
		t.Fatal("Redo should succeed")
	}

	if len(saved.moves) != 1 || saved.moves[0] != 2 {
		t.Errorf("completions = %v, expected [2]", saved.moves)
	}
	if rec.count(ActionSolved) != 1 || rec.count(ActionMove) != 2 || rec.count(ActionState) != 2 {
		t.Errorf("unexpected events %+v", rec.events)
	}

	// A reset allows the level to be completed again
	if _, err := m.Reset(s.ID); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	_, _ = m.Move(s.ID, core.Move{Src: 0, Dst: 2})
	_, _ = m.Move(s.ID, core.Move{Src: 2, Dst: 4})
	if len(saved.moves) != 2 {
		t.Errorf("expected a second completion after reset, got %v", saved.moves)
	}
}

func TestHintLevels(t *testing.T) {
	m, _, saved := newTestManager(t, Config{})
	ctx := context.Background()

	s, _ := m.Create("line-0")
	h, snap, err := m.Hint(ctx, s.ID, config.HintSmall)
	if err != nil {
		t.Fatalf("small hint failed: %v", err)
	}
	if h.Next != (core.Move{Src: 0, Dst: 2}) || h.Remaining != 2 || snap.Moves != 0 {
		t.Errorf("small hint = %+v, snapshot %+v", h, snap)
	}

	h, snap, err = m.Hint(ctx, s.ID, config.HintMedium)
	if err != nil {
		t.Fatalf("medium hint failed: %v", err)
	}
	if snap.Moves != 1 || snap.Board[2] != "1 G" {
		t.Errorf("medium hint should play %s, snapshot %+v", h.Next, snap)
	}

	_, snap, err = m.Hint(ctx, s.ID, config.HintLarge)
	if err != nil {
		t.Fatalf("large hint failed: %v", err)
	}
	if snap.Redo != 1 || snap.Moves != 1 {
		t.Errorf("large hint should queue 1 move, snapshot %+v", snap)
	}

	snap, ok, _ := m.Redo(s.ID)
	if !ok || !snap.Solved {
		t.Fatalf("redo of the queued plan should solve, snapshot %+v", snap)
	}
	if len(saved.moves) != 1 {
		t.Errorf("expected one completion, got %v", saved.moves)
	}

	h, _, err = m.Hint(ctx, s.ID, config.HintMedium)
	if err != nil || h.Outcome != solver.OutcomeAlreadySolved {
		t.Errorf("hint on solved board = %+v, %v", h, err)
	}
}

func TestHintUnsolvable(t *testing.T) {
	m, _, _ := newTestManager(t, Config{})
	s, _ := m.Create("line-1")

	if _, _, err := m.Hint(context.Background(), s.ID, config.HintSmall); !errors.Is(err, disks.ErrUnsolvable) {
		t.Errorf("expected ErrUnsolvable, got %v", err)
	}
	if _, _, err := m.Hint(context.Background(), "missing", config.HintSmall); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAutoHintIsBroadcast(t *testing.T) {
	m, rec, _ := newTestManager(t, Config{AutoHint: true})
	s, _ := m.Create("line-0")

	deadline := time.Now().Add(2 * time.Second)
	for rec.count(ActionHint) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no background hint broadcast")
		}
		time.Sleep(time.Millisecond)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		if e.action == ActionHint && e.session != s.ID {
			t.Errorf("hint broadcast to %q, expected %q", e.session, s.ID)
		}
	}
}

func TestCleanupExpired(t *testing.T) {
	m, rec, _ := newTestManager(t, Config{TTL: time.Minute})

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	idle, _ := m.Create("line-0")
	busy, _ := m.Create("line-0")

	now = now.Add(45 * time.Second)
	m.Get(busy.ID)

	now = now.Add(30 * time.Second)
	if n := m.cleanupExpired(); n != 1 {
		t.Fatalf("cleanupExpired = %d, expected 1", n)
	}
	if _, ok := m.Get(idle.ID); ok {
		t.Error("idle session should have expired")
	}
	if _, ok := m.Get(busy.ID); !ok {
		t.Error("recently used session should be kept")
	}
	if rec.count(ActionClosed) != 1 {
		t.Error("expiry should broadcast a closed event")
	}
}

func TestStopClosesSessions(t *testing.T) {
	m, _, _ := newTestManager(t, DefaultConfig())
	m.Start()

	s, _ := m.Create("line-0")
	m.Stop()

	if m.Len() != 0 {
		t.Errorf("Len after Stop = %d", m.Len())
	}
	if _, err := s.Board.RequestHint(context.Background()); !errors.Is(err, disks.ErrClosed) {
		t.Errorf("expected ErrClosed after Stop, got %v", err)
	}
}
