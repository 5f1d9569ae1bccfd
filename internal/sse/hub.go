package sse

import (
	"context"
	"sync"

	"hero_store/internal/model"
)

type Client struct {
	Ch chan model.HeroEvent
}

// Hub fans hero change events out to connected observers. Observers re-read
// state themselves; events only tell them that something changed.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.HeroEvent
	clients    map[*Client]struct{}
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.HeroEvent, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Register and Unregister return immediately once Run has exited.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues an event. It drops the event instead of blocking the
// caller when the queue is full.
func (h *Hub) Broadcast(event model.HeroEvent) bool {
	select {
	case h.broadcast <- event:
		return true
	default:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.broadcastToClients(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) broadcastToClients(event model.HeroEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Ch <- event:
		default:
			// Drop if the client is too slow.
		}
	}
}
