// Package ws exposes the simulation to read-only spectators over WebSocket.
// Spectators receive state snapshots; nothing they send influences the
// simulation, so the read loop exists only to detect disconnects.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"spellstorm/engine"
)

// StateMessage is one broadcast frame.
type StateMessage struct {
	Type    string                  `json:"type"`
	Tick    uint64                  `json:"tick"`
	Effects []engine.EffectSnapshot `json:"effects"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans simulation snapshots out to connected spectators.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	upgrader    websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler upgrades incoming requests and parks them as spectators until the
// connection drops.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws: upgrade failed: %v", err)
			return
		}
		id := h.nextID.Add(1)
		sub := &subscriber{conn: conn}

		h.mu.Lock()
		h.subscribers[id] = sub
		h.mu.Unlock()

		// Spectators are read-only; drain until the peer goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.drop(id)
	}
}

// Broadcast sends one snapshot to every spectator, dropping connections whose
// writes fail.
func (h *Hub) Broadcast(tick uint64, effects []engine.EffectSnapshot) {
	data, err := json.Marshal(StateMessage{Type: "state", Tick: tick, Effects: effects})
	if err != nil {
		log.Printf("ws: marshal snapshot: %v", err)
		return
	}

	h.mu.Lock()
	subs := make(map[uint64]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.send(data); err != nil {
			h.drop(id)
		}
	}
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[uint64]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.Close()
	}
}

func (h *Hub) drop(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}
