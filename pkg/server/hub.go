package server

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/vango-dev/retain/pkg/canvas"
)

// Hub fans canvas ops out to connected clients. It implements canvas.Sink
// and is subscribed to the Tap by New.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  *slog.Logger
	metrics *Metrics
}

func newHub(logger *slog.Logger, metrics *Metrics) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

// Record implements canvas.Sink. A client whose buffer is full is
// disconnected rather than blocking the loop.
func (h *Hub) Record(op canvas.Op) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}

	b, err := json.Marshal(Message{Type: TypeOp, Op: &op})
	if err != nil {
		h.logger.Error("encode op", "error", err, "seq", op.Seq)
		return
	}
	for c := range h.clients {
		select {
		case c.send <- b:
			h.metrics.messageSent()
		default:
			h.logger.Warn("client too slow, disconnecting", "client", c.id)
			h.metrics.clientDropped()
			h.removeLocked(c)
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.metrics.setClients(len(h.clients))
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	h.removeLocked(c)
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.metrics.setClients(len(h.clients))
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}
