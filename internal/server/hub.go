package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/rs/zerolog/log"

	"gamehouse/internal/events"
)

type Client struct {
	conn     *websocket.Conn
	walletID string
	mu       sync.Mutex
}

// Hub fans settlement events out to connected websocket clients. It also
// satisfies events.Publisher so the settlement engine can treat the live
// feed like any other sink.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan interface{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan interface{}, 100),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Debug().Str("wallet_id", client.walletID).Int("total", total).Msg("ws client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
				log.Debug().Str("wallet_id", client.walletID).Int("total", len(h.clients)).Msg("ws client disconnected")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			jsonMessage, err := json.Marshal(message)
			if err != nil {
				log.Error().Err(err).Msg("ws broadcast marshal failed")
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				go client.send(jsonMessage) // Non-blocking send
			}
			h.mu.RUnlock()
		}
	}
}

// PublishRoundSettled implements events.Publisher by broadcasting the
// settlement to every connected client.
func (h *Hub) PublishRoundSettled(_ context.Context, ev events.RoundSettled) error {
	h.Broadcast(map[string]interface{}{
		"type": "round_settled",
		"data": ev,
	})
	return nil
}

// Close satisfies events.Publisher; client connections are owned by the
// fiber server and torn down with it.
func (h *Hub) Close() error { return nil }

func (h *Hub) Broadcast(message interface{}) {
	select {
	case h.broadcast <- message:
	default:
		log.Warn().Msg("ws broadcast channel full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) send(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		log.Warn().Err(err).Str("wallet_id", c.walletID).Msg("ws write failed")
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, walletID string) {
	h.register <- &Client{
		conn:     conn,
		walletID: walletID,
	}
}

func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mu.RLock()
	for client := range h.clients {
		if client.conn == conn {
			h.mu.RUnlock()
			h.unregister <- client
			return
		}
	}
	h.mu.RUnlock()
}
