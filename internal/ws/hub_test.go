package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"spellstorm/engine"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("spectator count never reached %d, at %d", want, hub.Count())
}

func TestBroadcastReachesSpectators(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()
	waitForCount(t, hub, 1)

	hub.Broadcast(42, []engine.EffectSnapshot{{ID: "eff-1", Kind: engine.EffectKindZone, SpellID: "ion-field"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg StateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "state" || msg.Tick != 42 {
		t.Fatalf("unexpected frame %+v", msg)
	}
	if len(msg.Effects) != 1 || msg.Effects[0].SpellID != "ion-field" {
		t.Fatalf("unexpected effects %+v", msg.Effects)
	}
}

func TestDisconnectedSpectatorsAreDropped(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dial(t, server)
	waitForCount(t, hub, 1)
	conn.Close()
	waitForCount(t, hub, 0)

	// Broadcasting to nobody must not panic.
	hub.Broadcast(1, nil)
}
