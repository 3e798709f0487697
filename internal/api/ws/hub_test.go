package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/core"
	"github.com/vovakirdan/disk-solitaire/internal/games/disks/levels"
	"github.com/vovakirdan/disk-solitaire/internal/session"
)

const linePack = `title: Line
shape: {kind: rect, rows: 1, cols: 5}
win: 4
levels:
  - board: "1 G, 1, 0, 1, 0"
`

type fixture struct {
	manager *session.Manager
	hub     *Hub
	server  *httptest.Server
}

func newFixture(t *testing.T, opts ...func(*Hub)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := levels.NewRegistry()
	if err := reg.LoadFS(fstest.MapFS{"line.yaml": {Data: []byte(linePack)}}, "."); err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	manager := session.NewManager(reg, session.Config{}, nil)
	hub := NewHub(manager, config.DefaultConfig(), nil)
	manager.SetBroadcaster(hub)
	for _, opt := range opts {
		opt(hub)
	}

	r := gin.New()
	r.GET("/ws", hub.HandleWS)
	server := httptest.NewServer(r)

	t.Cleanup(func() {
		server.Close()
		manager.Stop()
	})
	return &fixture{manager: manager, hub: hub, server: server}
}

func (f *fixture) dial(t *testing.T, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?session_id=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// next reads frames until one with the given action arrives.
func next(t *testing.T, conn *websocket.Conn, action string) json.RawMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", action, err)
		}
		if msg.Action == action {
			return msg.Data
		}
	}
}

func TestHandleWSRejectsBadSessions(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		query string
		code  int
	}{
		{"", http.StatusBadRequest},
		{"?session_id=missing", http.StatusNotFound},
	}
	for _, tc := range tests {
		resp, err := http.Get(f.server.URL + "/ws" + tc.query)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.code {
			t.Errorf("GET /ws%s = %d, expected %d", tc.query, resp.StatusCode, tc.code)
		}
	}
}

func TestMovesAreBroadcast(t *testing.T) {
	f := newFixture(t)
	s, err := f.manager.Create("line-0")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	player := f.dial(t, s.ID)
	watcher := f.dial(t, s.ID)

	var snap session.Snapshot
	if err := json.Unmarshal(next(t, player, session.ActionState), &snap); err != nil || snap.ID != s.ID {
		t.Fatalf("initial state = %+v, %v", snap, err)
	}
	next(t, watcher, session.ActionState)

	if err := player.WriteJSON(map[string]any{"action": "move", "data": map[string]int{"src": 0, "dst": 2}}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if err := json.Unmarshal(next(t, watcher, session.ActionMove), &snap); err != nil {
		t.Fatalf("bad move payload: %v", err)
	}
	if snap.Moves != 1 || snap.Board[2] != "1 G" {
		t.Errorf("unexpected snapshot after move %+v", snap)
	}
}

func TestIllegalMoveIsReportedToSender(t *testing.T) {
	f := newFixture(t)
	s, _ := f.manager.Create("line-0")
	conn := f.dial(t, s.ID)
	next(t, conn, session.ActionState)

	_ = conn.WriteJSON(map[string]any{"action": "move", "data": map[string]int{"src": 1, "dst": 2}})

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(next(t, conn, ActionError), &body); err != nil || !strings.Contains(body.Error, "illegal move") {
		t.Errorf("error payload = %+v, %v", body, err)
	}
}

func TestHintOverWebsocket(t *testing.T) {
	f := newFixture(t)
	s, _ := f.manager.Create("line-0")
	conn := f.dial(t, s.ID)
	next(t, conn, session.ActionState)

	_ = conn.WriteJSON(map[string]any{"action": "hint"})

	var hint struct {
		Outcome   string `json:"outcome"`
		Remaining int    `json:"remaining"`
		Next      struct {
			Src int `json:"src"`
			Dst int `json:"dst"`
		} `json:"next"`
	}
	if err := json.Unmarshal(next(t, conn, session.ActionHint), &hint); err != nil {
		t.Fatalf("bad hint payload: %v", err)
	}
	if hint.Outcome != "solved" || hint.Remaining != 2 || hint.Next.Src != 0 || hint.Next.Dst != 2 {
		t.Errorf("unexpected hint %+v", hint)
	}
}

func TestDeleteClosesConnections(t *testing.T) {
	f := newFixture(t)
	s, _ := f.manager.Create("line-0")
	conn := f.dial(t, s.ID)
	next(t, conn, session.ActionState)

	f.manager.Delete(s.ID)
	next(t, conn, session.ActionClosed)

	deadline := time.Now().Add(2 * time.Second)
	for f.hub.Clients(s.ID) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection was not removed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestUnknownHintLevelIsRejected(t *testing.T) {
	f := newFixture(t)
	s, _ := f.manager.Create("line-0")
	conn := f.dial(t, s.ID)
	next(t, conn, session.ActionState)

	_ = conn.WriteJSON(map[string]any{"action": "hint", "data": map[string]string{"level": "huge"}})

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(next(t, conn, ActionError), &body); err != nil || !strings.Contains(body.Error, "level must be") {
		t.Errorf("error payload = %+v, %v", body, err)
	}
	if snap := s.Snapshot(); snap.Moves != 0 || snap.Redo != 0 {
		t.Errorf("rejected hint changed the session: %+v", snap)
	}
}

func TestStalledClientIsDropped(t *testing.T) {
	f := newFixture(t, func(h *Hub) { h.writeWait = 50 * time.Millisecond })
	s, _ := f.manager.Create("line-0")

	// The client reads the greeting and then stops reading
	conn := f.dial(t, s.ID)
	next(t, conn, session.ActionState)

	payload := strings.Repeat("x", 1<<20)
	deadline := time.Now().Add(5 * time.Second)
	for f.hub.Clients(s.ID) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("stalled client was never dropped")
		}
		f.hub.Broadcast(s.ID, session.ActionState, payload)
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.manager.Move(s.ID, core.Move{Src: 0, Dst: 2})
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Move failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Move blocked after the stalled client was dropped")
	}
}
