package wsbroadcast

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool
	// encounterID -> list of connections watching that encounter
	encounterConns map[string][]*Connection
}

func NewHub() *Hub {
	return &Hub{
		connections:    make(map[*Connection]bool),
		encounterConns: make(map[string][]*Connection),
	}
}

func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = true
}

func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, c)

	if c.EncounterID != "" {
		conns := h.encounterConns[c.EncounterID]
		for i, conn := range conns {
			if conn == c {
				h.encounterConns[c.EncounterID] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
	}
}

func (h *Hub) JoinEncounter(c *Connection, encounterID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.EncounterID != "" {
		h.removeLocked(c)
	}
	c.EncounterID = encounterID
	h.encounterConns[encounterID] = append(h.encounterConns[encounterID], c)
}

func (h *Hub) LeaveEncounter(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
	c.EncounterID = ""
}

// removeLocked drops c from its encounter list. Caller holds h.mu.
func (h *Hub) removeLocked(c *Connection) {
	if c.EncounterID == "" {
		return
	}
	conns := h.encounterConns[c.EncounterID]
	for i, conn := range conns {
		if conn == c {
			h.encounterConns[c.EncounterID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
}

// Broadcast sends a message to every connection watching an encounter.
func (h *Hub) Broadcast(encounterID string, msg any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, _ := json.Marshal(msg)
	for _, c := range h.encounterConns[encounterID] {
		_ = c.ws.WriteMessage(websocket.TextMessage, data)
	}
}
