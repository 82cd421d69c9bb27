package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, hub *Hub, accountID string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, accountID)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForJoin(t *testing.T, hub *Hub, accountID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount(accountID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never joined room")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesOwnRoomOnly(t *testing.T) {
	hub := NewHub()
	conn := dialRoom(t, hub, "acc-1")
	other := dialRoom(t, hub, "acc-2")
	waitForJoin(t, hub, "acc-1")
	waitForJoin(t, hub, "acc-2")

	hub.Publish("acc-1", "notification", map[string]string{"title": "Leave approved"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var got struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	if err := json.Unmarshal(message, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got.Event != "notification" || got.Data["title"] != "Leave approved" {
		t.Fatalf("unexpected message: %s", message)
	}

	_ = other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatal("event leaked into another account's room")
	}
}

func TestPublishToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	// Nobody connected; must not panic or block.
	hub.Publish("acc-9", "notification", map[string]string{"title": "x"})
}

func TestDisconnectLeavesRoom(t *testing.T) {
	hub := NewHub()
	conn := dialRoom(t, hub, "acc-1")
	waitForJoin(t, hub, "acc-1")

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount("acc-1") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("room not cleaned up after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
