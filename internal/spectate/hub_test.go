package spectate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ledgegame/ledge/internal/game"
)

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubAddRemoveClient(t *testing.T) {
	hub := NewHub(nil)

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}

	hub.addClient(client)

	if !hub.clients[client] {
		t.Error("Client was not registered")
	}
	if hub.ClientCount() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.ClientCount())
	}

	hub.removeClient(client)

	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 clients after removal, got %d", hub.ClientCount())
	}

	// Removing twice must not panic or close the channel again.
	hub.removeClient(client)
}

func TestHubBroadcastDelivers(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
	hub.register <- client

	hub.Broadcast(game.Snapshot{Tick: 7, State: "running", Level: "levels/start.yaml"})

	select {
	case data := <-client.send:
		var snap game.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			t.Fatalf("Failed to unmarshal snapshot: %v", err)
		}
		if snap.Tick != 7 {
			t.Errorf("Expected tick 7, got %d", snap.Tick)
		}
		if snap.State != "running" {
			t.Errorf("Expected state running, got %q", snap.State)
		}
		if snap.Level != "levels/start.yaml" {
			t.Errorf("Expected level levels/start.yaml, got %q", snap.Level)
		}

	case <-time.After(100 * time.Millisecond):
		t.Error("No snapshot received within timeout")
	}
}

func TestHubLastSnapshot(t *testing.T) {
	hub := NewHub(nil)

	if hub.LastSnapshot() != nil {
		t.Error("Expected no snapshot before the first broadcast")
	}

	hub.Broadcast(game.Snapshot{Tick: 3, State: "paused"})

	snap := hub.LastSnapshot()
	if snap == nil {
		t.Fatal("Expected a snapshot after broadcast")
	}
	if snap.Tick != 3 || snap.State != "paused" {
		t.Errorf("LastSnapshot = tick %d state %q", snap.Tick, snap.State)
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give some time for registration
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("Expected 1 viewer, got %d", hub.ClientCount())
	}

	conn.Close()

	// Give some time for unregistration
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("Expected 0 viewers after close, got %d", hub.ClientCount())
	}
}

func TestServerWatchStream(t *testing.T) {
	srv := NewServer(Config{Addr: "127.0.0.1:0"})
	hub := srv.Hub()
	go hub.Run()
	defer hub.Stop()

	// Drive the router directly; Start is not needed for the handler.
	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	// Broadcast before anyone is connected. A late viewer must still be
	// caught up with this frame.
	hub.Broadcast(game.Snapshot{Tick: 42, State: "running", Level: "a.yaml"})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read catch-up frame: %v", err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	if snap.Tick != 42 {
		t.Errorf("Expected catch-up tick 42, got %d", snap.Tick)
	}

	// A live broadcast reaches the connected viewer too.
	hub.Broadcast(game.Snapshot{Tick: 43, State: "running", Level: "a.yaml"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast frame: %v", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}
	if snap.Tick != 43 {
		t.Errorf("Expected tick 43, got %d", snap.Tick)
	}
}

func TestServerStatus(t *testing.T) {
	srv := NewServer(Config{Addr: "127.0.0.1:0"})

	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	// Before any broadcast the server reports it is waiting.
	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status failed: %v", err)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	resp.Body.Close()

	if status.State != "waiting" {
		t.Errorf("Expected state waiting, got %q", status.State)
	}
	if status.Viewers != 0 {
		t.Errorf("Expected 0 viewers, got %d", status.Viewers)
	}

	srv.Hub().Broadcast(game.Snapshot{Tick: 9, State: "paused", Level: "b.yaml"})

	resp, err = http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status failed: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	resp.Body.Close()

	if status.State != "paused" || status.Level != "b.yaml" || status.Tick != 9 {
		t.Errorf("Status = %+v", status)
	}
}

func TestServerIndexServesViewer(t *testing.T) {
	srv := NewServer(Config{Addr: "127.0.0.1:0"})

	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected text/html content type, got %q", ct)
	}
}
