// ABOUTME: Websocket hub that fans dashboard changes out to connected clients.
// ABOUTME: Each client gets a full snapshot on connect, then incremental messages.
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/oklog/ulid/v2"
)

// Message types for real-time updates
const (
	MessageTypeHabits        = "habits"
	MessageTypeMeals         = "meals"
	MessageTypeNotifications = "notifications"
	MessageTypeSnapshot      = "snapshot"
	MessageTypePong          = "pong"
)

// Message is one websocket frame.
type Message struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	Time int64       `json:"time"`
}

// NewMessage stamps a message with a fresh ulid and the current time.
func NewMessage(msgType string, data interface{}) Message {
	return Message{
		ID:   ulid.Make().String(),
		Type: msgType,
		Data: data,
		Time: time.Now().Unix(),
	}
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new websocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			// Taken on the hub loop: every broadcast processed after this
			// point reaches the client, and earlier ones are in the snapshot.
			if client.snapshot != nil {
				client.send <- NewMessage(MessageTypeSnapshot, client.snapshot())
			}
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Debug("live client registered", "client", client.id, "total", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Debug("live client unregistered", "client", client.id)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a message for every client. It never blocks; a full queue
// drops the message.
func (h *Hub) Publish(msgType string, data interface{}) {
	select {
	case h.broadcast <- NewMessage(msgType, data):
	default:
		logger.Warn("live broadcast queue full, dropping message", "type", msgType)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attach publishes every store change of a. It returns a detach function.
func (h *Hub) Attach(a *app.App) func() {
	unsubs := []func(){
		a.Habits.Subscribe(func(habits []models.Habit) {
			h.Publish(MessageTypeHabits, habits)
		}),
		a.Meals.Subscribe(func(meals []models.Meal) {
			h.Publish(MessageTypeMeals, meals)
		}),
		a.Notifications.Subscribe(func(s tracker.NotificationSnapshot) {
			h.Publish(MessageTypeNotifications, s)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served to the local device only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades requests to websockets. snapshot is sent to each new
// client before any broadcast.
func (h *Hub) Handler(snapshot func() interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "err", err)
			return
		}

		client := &Client{
			id:       ulid.Make().String(),
			hub:      h,
			conn:     conn,
			send:     make(chan Message, 256),
			pongs:    make(chan struct{}, 1),
			snapshot: snapshot,
		}

		select {
		case h.register <- client:
		case <-h.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}
