package session

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"adgenius-server/modules/adgen"
)

// Message types
const (
	TypeStateUpdated = "state_updated"
	TypeRequestState = "request_state"
	TypeError        = "error"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message - WebSocket envelope
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	State     *adgen.Snapshot `json:"state,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Client - one WebSocket connection bound to a workspace
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// HandleWebSocket - GET /ws?session=<id>. The initial state is pushed right
// after the upgrade.
func (m *Manager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := requestSessionID(r)
	if sessionID == "" {
		log.Printf("⚠️  [Session] WebSocket request without session")
		http.Error(w, "missing session parameter", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Session] WebSocket upgrade failed: %v", err)
		return
	}

	ws := m.GetOrCreate(sessionID)
	client := &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	count := ws.addClient(client)
	total := m.countConnection()
	log.Printf("👤 [Session] Client %s joined workspace %s (Clients: %d, Total Connections: %d)", client.id, sessionID, count, total)

	client.sendState(ws)

	go client.writePump()
	go client.readPump(ws)
}

// sendState queues the current snapshot for this client only.
func (c *Client) sendState(ws *Workspace) {
	snap := ws.store.Snapshot()
	c.queue(ws, Message{Type: TypeStateUpdated, SessionID: ws.id, State: &snap})
}

func (c *Client) queue(ws *Workspace, message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ [Session] Error marshaling message: %v", err)
		return
	}

	ws.mutex.Lock()
	defer ws.mutex.Unlock()
	if _, ok := ws.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		close(c.send)
		delete(ws.clients, c.id)
	}
}

func (c *Client) readPump(ws *Workspace) {
	defer func() {
		ws.removeClient(c.id)
		c.conn.Close()
	}()

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️  [Session] WebSocket error: %v", err)
			}
			return
		}

		switch message.Type {
		case TypeRequestState:
			c.sendState(ws)
		default:
			log.Printf("⚠️  [Session] Client %s sent unsupported message type %q", c.id, message.Type)
			c.queue(ws, Message{Type: TypeError, SessionID: ws.id, Error: "unsupported message type"})
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("❌ [Session] WebSocket write error: %v", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
