// Package websockets pushes work and vote events to connected listeners.
package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait     = 10 * time.Second
	broadcastSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketManager initializes a WebSocketManager
func NewWebSocketManager(logger *zap.Logger) *WebSocketManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan outbound, broadcastSize),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger.With(zap.String("component", "websockets")),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// closes every connection.
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			manager.mu.Lock()
			for conn := range manager.clients {
				_ = conn.Close()
				delete(manager.clients, conn)
			}
			manager.mu.Unlock()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client.Conn] = client
			manager.mu.Unlock()

		case conn := <-manager.unregister:
			manager.mu.Lock()
			if _, exists := manager.clients[conn]; exists {
				delete(manager.clients, conn)
				_ = conn.Close()
			}
			manager.mu.Unlock()

		case msg := <-manager.broadcast:
			manager.mu.Lock()
			for conn, client := range manager.clients {
				if !client.Wants(msg.category) {
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg.payload); err != nil {
					manager.logger.Debug("dropping websocket client", zap.Error(err))
					_ = conn.Close()
					delete(manager.clients, conn)
				}
			}
			manager.mu.Unlock()
		}
	}
}

// Clients returns the number of connected clients.
func (manager *WebSocketManager) Clients() int {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return len(manager.clients)
}

// Publish queues event for every interested client. It never blocks; when
// the queue is full the event is dropped.
func (manager *WebSocketManager) Publish(event model.Event) {
	payload, err := json.Marshal(Envelope{Type: MsgTypeEvent, Data: event})
	if err != nil {
		manager.logger.Error("encode websocket event", zap.Error(err))
		return
	}

	select {
	case manager.broadcast <- outbound{category: event.Category, payload: payload}:
	default:
		manager.logger.Warn("websocket queue full, dropping event", zap.String("type", event.Type))
	}
}

// HandleConnections upgrades HTTP requests to WebSocket connections
func (manager *WebSocketManager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		manager.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := &Client{Conn: conn}
	select {
	case manager.register <- client:
	case <-manager.done:
		_ = conn.Close()
		return
	}

	defer func() {
		select {
		case manager.unregister <- conn:
		case <-manager.done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err := json.Unmarshal(msg, &message); err != nil {
			manager.logger.Debug("invalid websocket message", zap.Error(err))
			continue
		}

		if message.Type == MsgTypeSubscribe {
			client.Subscribe(subscribedCategories(message.Categories))
		}
	}
}

func subscribedCategories(raw []string) []category.Category {
	cats := make([]category.Category, 0, len(raw))
	for _, r := range raw {
		if c, err := category.Normalize(r); err == nil {
			cats = append(cats, c)
		}
	}
	return cats
}
