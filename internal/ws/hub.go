// Package ws fans revealed rounds out to websocket spectators so an auditor
// can watch commitments and reveals in real time.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"fairdice/internal/logger"
)

type Hub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// BroadcastJSON sends v to every connected client. Write failures only get
// logged; the connection reaper in Handler cleans dead clients up.
func (h *Hub) BroadcastJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("ws marshal", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Log.Warn("ws write", zap.Error(err))
		}
	}
}

func (h *Hub) Handler(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.Close()
	}()

	// Spectator connections are read-only; pump reads until the peer leaves.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
