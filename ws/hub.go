package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients map[*websocket.Conn]*Client
	Mutex   sync.RWMutex
}

var H = Hub{
	Clients: make(map[*websocket.Conn]*Client),
}

// BorrowEvent is pushed to every subscriber when a book changes
// lending state.
type BorrowEvent struct {
	Type     string `json:"type"` // requested | approved | returned | revoked | overdue
	BookID   uint   `json:"book_id"`
	BookName string `json:"book_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[conn] = client

	go h.readPump(conn)
	go h.writePump(conn)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.Clients[conn]; ok {
		close(client.Send)
		delete(h.Clients, conn)
	}
}

// Broadcast fans data out to every subscriber. Slow clients are
// skipped rather than blocking the sender.
func (h *Hub) Broadcast(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// PublishBorrowEvent serializes and broadcasts a lending transition.
// Fire-and-forget: handlers never wait on subscribers.
func PublishBorrowEvent(eventType string, bookID uint, bookName, message string) {
	event := BorrowEvent{
		Type:     eventType,
		BookID:   bookID,
		BookName: bookName,
		Message:  message,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(data)
}

func (h *Hub) readPump(conn *websocket.Conn) {
	defer func() {
		h.Unregister(conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn) {
	h.Mutex.RLock()
	client, ok := h.Clients[conn]
	h.Mutex.RUnlock()
	if !ok {
		return
	}

	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	conn.Close()
}
