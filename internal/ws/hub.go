package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client is one websocket connection bound to a user. Every connection only
// ever receives events for its own user's collections.
type Client struct {
	UserID string
	Conn   *websocket.Conn
}

// Hub fans mutation events out to the owning user's open connections. It is
// the push half of the persistence contract: every inventory, event or gift
// change is delivered to subscribers as a typed JSON payload.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Event

	clients map[string]map[*websocket.Conn]bool
	mutex   sync.Mutex
}

// Event is one broadcast unit, addressed to a single user.
type Event struct {
	UserID  string
	Payload interface{}
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Event),
		clients:    make(map[string]map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			conns := h.clients[client.UserID]
			if conns == nil {
				conns = make(map[*websocket.Conn]bool)
				h.clients[client.UserID] = conns
			}
			conns[client.Conn] = true
			h.mutex.Unlock()
			log.Println("New WS client connected for user", client.UserID)

		case client := <-h.Unregister:
			h.mutex.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if _, ok := conns[client.Conn]; ok {
					delete(conns, client.Conn)
					client.Conn.Close()
				}
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mutex.Unlock()

		case event := <-h.Broadcast:
			msg, err := json.Marshal(event.Payload)
			if err != nil {
				continue
			}
			h.mutex.Lock()
			for conn := range h.clients[event.UserID] {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients[event.UserID], conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Notify sends a payload to all of one user's connections without blocking
// the caller when the hub loop is busy.
func (h *Hub) Notify(userID string, payload interface{}) {
	go func() {
		h.Broadcast <- Event{UserID: userID, Payload: payload}
	}()
}
