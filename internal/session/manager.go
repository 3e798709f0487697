package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/solver"
)

// ErrNotFound is returned for an unknown or expired session.
var ErrNotFound = errors.New("session not found")

// Config holds configuration for the manager.
type Config struct {
	TTL           time.Duration // Idle time before a session expires, 0 disables expiry
	CleanupPeriod time.Duration // How often to look for expired sessions
	AutoHint      bool          // Search in the background after every move
	MaxStates     int           // Solver state cap, 0 for unbounded
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL:           30 * time.Minute,
		CleanupPeriod: time.Minute,
		AutoHint:      true,
		MaxStates:     2_000_000,
	}
}

// Manager tracks active sessions.
// Thread-safe for concurrent access.
type Manager struct {
	config      Config
	levels      *levels.Registry
	logger      *log.Logger
	broadcaster Broadcaster     // Optional, can be nil
	saver       CompletionSaver // Optional, can be nil

	mu       sync.RWMutex
	sessions map[string]*Session

	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager serving levels from reg.
func NewManager(reg *levels.Registry, cfg Config, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		config:   cfg,
		levels:   reg,
		logger:   logger,
		sessions: make(map[string]*Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// SetBroadcaster sets the optional event broadcaster.
// Call it before the first Create.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// SetCompletionSaver sets the optional completion saver.
func (m *Manager) SetCompletionSaver(saver CompletionSaver) {
	m.saver = saver
}

// Levels returns the registry sessions are created from.
func (m *Manager) Levels() *levels.Registry {
	return m.levels
}

// Start begins expiring idle sessions in the background.
func (m *Manager) Start() {
	if m.config.TTL > 0 && m.config.CleanupPeriod > 0 {
		go m.cleanupLoop()
	}
}

// Stop shuts down the cleanup loop and closes every session.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// Create starts a session on a level.
func (m *Manager) Create(levelID string) (*Session, error) {
	lvl, err := m.levels.Level(levelID)
	if err != nil {
		return nil, err
	}
	topo, state, err := lvl.Build()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := m.logger.With("session", id[:8], "level", levelID)
	board, err := disks.NewBoard(topo, state, lvl.Win,
		disks.WithAutoHint(m.config.AutoHint),
		disks.WithSolverOptions(solver.WithMaxStates(m.config.MaxStates), solver.WithLogger(logger)),
		disks.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", levelID, err)
	}

	now := m.now()
	s := &Session{
		ID:        id,
		LevelID:   levelID,
		Board:     board,
		CreatedAt: now,
		lastSeen:  now,
	}
	s.unsubscribe = board.Subscribe(func(h disks.Hint) {
		m.broadcast(id, ActionHint, h)
	})

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session", id, "level", levelID)
	return s, nil
}

// Get retrieves a session by ID and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// Delete removes a session and closes its board.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.close()
	m.broadcast(id, ActionClosed, nil)
	m.logger.Info("session deleted", "session", id)
	return true
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Move applies a checked move.
func (m *Manager) Move(id string, mv core.Move) (Snapshot, error) {
	s, ok := m.Get(id)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.Board.TryMove(mv); err != nil {
		return Snapshot{}, err
	}

	snap := s.Snapshot()
	m.broadcast(id, ActionMove, snap)
	m.checkCompleted(s, snap)
	return snap, nil
}

// Undo reverts the last move. ok is false when there was nothing to undo.
func (m *Manager) Undo(id string) (snap Snapshot, ok bool, err error) {
	return m.edit(id, func(s *Session) bool { return s.Board.Undo() })
}

// Redo replays the last undone move.
func (m *Manager) Redo(id string) (snap Snapshot, ok bool, err error) {
	return m.edit(id, func(s *Session) bool { return s.Board.Redo() })
}

// Reset restores the level's initial board.
func (m *Manager) Reset(id string) (Snapshot, error) {
	snap, _, err := m.edit(id, func(s *Session) bool {
		s.Board.Reset()
		s.clearCompleted()
		return true
	})
	return snap, err
}

// Hint answers a hint request at the given level:
// small only reports the plan, medium also plays its next move and large
// queues the whole plan for Redo.
func (m *Manager) Hint(ctx context.Context, id string, level config.HintLevel) (disks.Hint, Snapshot, error) {
	s, ok := m.Get(id)
	if !ok {
		return disks.Hint{}, Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	var (
		h   disks.Hint
		err error
	)
	switch level {
	case config.HintMedium:
		h, err = s.Board.Step(ctx)
		if err == nil && h.Outcome == solver.OutcomeSolved {
			snap := s.Snapshot()
			m.broadcast(id, ActionMove, snap)
			m.checkCompleted(s, snap)
		}
	case config.HintLarge:
		h, err = s.Board.QueueSolution(ctx)
		if err == nil && h.Outcome == solver.OutcomeSolved {
			m.broadcast(id, ActionState, s.Snapshot())
		}
	default:
		h, err = s.Board.RequestHint(ctx)
	}
	return h, s.Snapshot(), err
}

func (m *Manager) edit(id string, fn func(*Session) bool) (Snapshot, bool, error) {
	s, ok := m.Get(id)
	if !ok {
		return Snapshot{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	changed := fn(s)
	snap := s.Snapshot()
	if changed {
		m.broadcast(id, ActionState, snap)
		m.checkCompleted(s, snap)
	}
	return snap, changed, nil
}

func (m *Manager) checkCompleted(s *Session, snap Snapshot) {
	if !s.markCompleted() {
		return
	}
	m.logger.Info("level completed", "session", s.ID, "level", s.LevelID, "moves", snap.Moves)
	m.broadcast(s.ID, ActionSolved, snap)

	if m.saver == nil {
		return
	}
	if _, err := m.saver.RecordCompletion(s.LevelID, s.ID, snap.Moves); err != nil {
		m.logger.Error("failed to record completion", "session", s.ID, "err", err)
	}
}

func (m *Manager) broadcast(id, action string, data any) {
	if m.broadcaster != nil {
		m.broadcaster.Broadcast(id, action, data)
	}
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.done:
			return
		}
	}
}

// cleanupExpired closes sessions idle for longer than the TTL.
func (m *Manager) cleanupExpired() int {
	if m.config.TTL <= 0 {
		return 0
	}
	now := m.now()

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.config.TTL {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		m.broadcast(s.ID, ActionClosed, nil)
		m.logger.Debug("session expired", "session", s.ID)
	}
	return len(expired)
}
