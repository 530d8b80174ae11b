package websockets

import (
	"sync"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types
const (
	MsgTypeSubscribe = "subscribe"
	MsgTypeEvent     = "event"
)

// Client represents a connected WebSocket listener
type Client struct {
	Conn *websocket.Conn

	mu         sync.Mutex
	categories map[category.Category]bool
}

// Subscribe limits the client to cats. No categories means everything.
func (c *Client) Subscribe(cats []category.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = make(map[category.Category]bool, len(cats))
	for _, cat := range cats {
		c.categories[cat] = true
	}
}

// Wants reports whether the client listens to events in cat.
func (c *Client) Wants(cat category.Category) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.categories) == 0 || c.categories[cat]
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan outbound
	register   chan *Client
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
	logger     *zap.Logger
}

type outbound struct {
	category category.Category
	payload  []byte
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type       string   `json:"type"`
	Categories []string `json:"categories,omitempty"`
}

// Envelope wraps every message sent to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
