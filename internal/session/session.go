// Package session manages play sessions for the hint service.
// A session owns one board driver for one level and is addressed by a UUID.
package session

import (
	"sync"
	"time"

	"github.com/vovakirdan/disk-solitaire/internal/games/disks"
)

// Actions pushed to a Broadcaster.
const (
	ActionMove   = "move"   // A move was applied, data is a Snapshot
	ActionState  = "state"  // Undo, redo or reset, data is a Snapshot
	ActionHint   = "hint"   // Background hint for the current state, data is a disks.Hint
	ActionSolved = "solved" // The level was completed, data is a Snapshot
	ActionClosed = "closed" // The session expired or was deleted
)

// Broadcaster pushes session events to connected clients.
type Broadcaster interface {
	Broadcast(sessionID string, action string, data any)
}

// CompletionSaver persists finished levels.
// This allows the manager to save results without depending on the storage package.
type CompletionSaver interface {
	RecordCompletion(levelID, sessionID string, moves int) (int64, error)
}

// Session is one player working on one level.
type Session struct {
	ID        string
	LevelID   string
	Board     *disks.Board
	CreatedAt time.Time

	mu          sync.Mutex
	lastSeen    time.Time
	completed   bool
	unsubscribe func()
}

// Snapshot is the client view of a session.
type Snapshot struct {
	ID      string   `json:"id"`
	LevelID string   `json:"level_id"`
	Board   []string `json:"board"`
	Win     int      `json:"win"`
	Moves   int      `json:"moves"`
	Redo    int      `json:"redo"`
	Solved  bool     `json:"solved"`
}

// Snapshot returns the current client view.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:      s.ID,
		LevelID: s.LevelID,
		Board:   s.Board.State().Tokens(),
		Win:     s.Board.WinCell(),
		Moves:   s.Board.Moves(),
		Redo:    s.Board.RedoLen(),
		Solved:  s.Board.IsSolved(),
	}
}

// LastSeen returns the time of the last access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// markCompleted reports whether this call is the first to see the board solved.
func (s *Session) markCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed || !s.Board.IsSolved() {
		return false
	}
	s.completed = true
	return true
}

func (s *Session) clearCompleted() {
	s.mu.Lock()
	s.completed = false
	s.mu.Unlock()
}

func (s *Session) close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Board.Close()
}
