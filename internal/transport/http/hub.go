package http

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"resident-lockdown/internal/domain"
)

// Hub is the broadcast gateway between the game and open websocket connections. Every
// connection gets a buffered queue drained by its own writer; a full queue drops the event
// instead of stalling the game.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	buffer  int
	nextID  atomic.Uint64
}

type client struct {
	id   string
	send chan []byte
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{clients: make(map[string]*client), buffer: buffer}
}

func (h *Hub) attach() *client {
	c := &client{
		id:   "conn-" + strconv.FormatUint(h.nextID.Add(1), 10),
		send: make(chan []byte, h.buffer),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	return c
}

// detach removes the connection and closes its queue, which ends its writer.
func (h *Hub) detach(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
}

func (h *Hub) Broadcast(ev domain.Event) {
	data, err := domain.Encode(ev)
	if err != nil {
		log.Printf("encode %s: %v", ev.EventType(), err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.enqueue(data)
	}
}

// SendTo is a no-op for unknown or already closed connections.
func (h *Hub) SendTo(channelRef string, ev domain.Event) {
	if channelRef == "" {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[channelRef]
	if !ok {
		return
	}
	data, err := domain.Encode(ev)
	if err != nil {
		log.Printf("encode %s: %v", ev.EventType(), err)
		return
	}
	c.enqueue(data)
}

// Len reports the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Printf("ws %s: send queue full, dropping message", c.id)
	}
}
