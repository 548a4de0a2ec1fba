package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub fans status updates out to every connected client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	onAudience func(count int)
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// OnAudienceChange registers fn to be called with the client count whenever a
// client attaches or detaches. fn runs outside the hub lock.
func (h *Hub) OnAudienceChange(fn func(count int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAudience = fn
}

// Attach registers c for broadcasts.
func (h *Hub) Attach(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	fn := h.onAudience
	h.mu.Unlock()

	log.Debug().Int("clients", count).Msg("[StatusHub] Client attached")
	if fn != nil {
		fn(count)
	}
}

// Detach unregisters c and closes it. Detaching twice is a no-op.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	fn := h.onAudience
	h.mu.Unlock()

	c.close()
	log.Debug().Int("clients", count).Msg("[StatusHub] Client detached")
	if fn != nil {
		fn(count)
	}
}

// Count returns the number of attached clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v as JSON to every attached client.
func (h *Hub) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("[StatusHub] Broadcast marshal error")
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(data)
	}
}
