// Package ws pushes session events to websocket clients and accepts
// moves over the same connection.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/session"
)

// ActionError is sent to a single client whose request failed.
const ActionError = "error"

// defaultWriteWait bounds a single write so a stalled peer is dropped instead
// of holding up the session's broadcasts.
const defaultWriteWait = 10 * time.Second

// SessionManager is the part of session.Manager the hub drives.
type SessionManager interface {
	Get(id string) (*session.Session, bool)
	Move(id string, m core.Move) (session.Snapshot, error)
	Undo(id string) (session.Snapshot, bool, error)
	Redo(id string) (session.Snapshot, bool, error)
	Reset(id string) (session.Snapshot, error)
	Hint(ctx context.Context, id string, level config.HintLevel) (disks.Hint, session.Snapshot, error)
}

// Message is the envelope of every frame in both directions.
type Message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type outMessage struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

type moveData struct {
	Src int `json:"src"`
	Dst int `json:"dst"`
}

type hintData struct {
	Level config.HintLevel `json:"level"`
}

// client serializes writes to one connection.
type client struct {
	conn      *websocket.Conn
	writeWait time.Duration
	mu        sync.Mutex
}

func (c *client) send(action string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(outMessage{Action: action, Data: data})
}

// Hub tracks the connections of every session.
type Hub struct {
	sessions    SessionManager
	hintTimeout time.Duration
	hintLevel   config.HintLevel
	writeWait   time.Duration
	logger      *log.Logger

	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

// NewHub creates a hub over sessions.
func NewHub(sessions SessionManager, cfg config.Config, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		sessions:    sessions,
		hintTimeout: cfg.Server.HintTimeout,
		hintLevel:   cfg.Hints.Level,
		writeWait:   defaultWriteWait,
		logger:      logger,
		rooms:       make(map[string]map[*client]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// HandleWS upgrades GET /ws?session_id=... and serves the connection until
// the client goes away.
func (h *Hub) HandleWS(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session_id"})
		return
	}
	s, ok := h.sessions.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", "err", err)
		return
	}
	cl := &client{conn: conn, writeWait: h.writeWait}
	h.logger.Debug("websocket connected", "session", sessionID)

	h.mu.Lock()
	if _, ok := h.rooms[sessionID]; !ok {
		h.rooms[sessionID] = make(map[*client]struct{})
	}
	h.rooms[sessionID][cl] = struct{}{}
	h.mu.Unlock()

	defer h.remove(sessionID, cl)

	if err := cl.send(session.ActionState, s.Snapshot()); err != nil {
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read failed", "session", sessionID, "err", err)
			}
			return
		}
		h.handle(sessionID, cl, msg)
	}
}

// handle runs one client request. Results reach every client of the session
// through the manager's broadcasts; only failures are answered directly.
func (h *Hub) handle(sessionID string, cl *client, msg Message) {
	var err error
	switch msg.Action {
	case session.ActionMove:
		var mv moveData
		if err = json.Unmarshal(msg.Data, &mv); err == nil {
			_, err = h.sessions.Move(sessionID, core.Move{Src: mv.Src, Dst: mv.Dst})
		}
	case "undo":
		_, _, err = h.sessions.Undo(sessionID)
	case "redo":
		_, _, err = h.sessions.Redo(sessionID)
	case "reset":
		_, err = h.sessions.Reset(sessionID)
	case session.ActionHint:
		req := hintData{Level: h.hintLevel}
		if len(msg.Data) > 0 {
			if err = json.Unmarshal(msg.Data, &req); err != nil {
				break
			}
		}
		if !req.Level.Valid() {
			err = errors.New("level must be small, medium or large")
			break
		}
		go h.hint(sessionID, cl, req.Level)
		return
	default:
		err = errors.New("unknown action " + msg.Action)
	}

	if err != nil {
		h.replyError(cl, err)
	}
}

// hint waits for a hint without blocking the read loop and answers the
// requesting client.
func (h *Hub) hint(sessionID string, cl *client, level config.HintLevel) {
	ctx, cancel := context.WithTimeout(context.Background(), h.hintTimeout)
	defer cancel()

	hint, _, err := h.sessions.Hint(ctx, sessionID, level)
	if err != nil && !errors.Is(err, disks.ErrUnsolvable) && !errors.Is(err, disks.ErrLimitReached) {
		h.replyError(cl, err)
		return
	}
	if err := cl.send(session.ActionHint, hint); err != nil {
		h.logger.Debug("failed to send hint", "session", sessionID, "err", err)
	}
}

func (h *Hub) replyError(cl *client, err error) {
	if sendErr := cl.send(ActionError, gin.H{"error": err.Error()}); sendErr != nil {
		h.logger.Debug("failed to send error", "err", sendErr)
	}
}

// Broadcast sends an event to every client of a session.
// Implements session.Broadcaster.
func (h *Hub) Broadcast(sessionID string, action string, data any) {
	if h == nil {
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[sessionID]))
	for cl := range h.rooms[sessionID] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.send(action, data); err != nil {
			h.logger.Debug("failed to send message", "session", sessionID, "err", err)
			h.remove(sessionID, cl)
			continue
		}
		// Nothing more will arrive for a closed session
		if action == session.ActionClosed {
			h.remove(sessionID, cl)
		}
	}
}

// Clients returns the number of connections for a session.
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

func (h *Hub) remove(sessionID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	if _, ok := clients[cl]; !ok {
		return
	}
	delete(clients, cl)
	if len(clients) == 0 {
		delete(h.rooms, sessionID)
	}
	_ = cl.conn.Close()
}
