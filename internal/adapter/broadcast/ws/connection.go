package wsbroadcast

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Connection represents a WebSocket connection to a spectating client.
type Connection struct {
	ws          *websocket.Conn
	hub         *Hub
	EncounterID string
}

type clientMessage struct {
	Type        string `json:"type"`
	EncounterID string `json:"encounter_id"`
}

// ServeWs handles WebSocket upgrade requests.
func ServeWs(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		c := &Connection{ws: conn, hub: hub}
		hub.Register(c)
		go c.readLoop()
	}
}

// readLoop reads subscribe/unsubscribe messages from the client.
func (c *Connection) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	for {
		_, msgBytes, err := c.ws.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			log.Println("bad client message:", err)
			continue
		}

		switch msg.Type {
		case "join":
			if msg.EncounterID != "" {
				c.hub.JoinEncounter(c, msg.EncounterID)
			}
		case "leave":
			c.hub.LeaveEncounter(c)
		}
	}
}
