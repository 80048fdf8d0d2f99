package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// Hub fans live events out to the websocket clients watching each section.
type Hub struct {
	clients    map[*Client]bool
	sections   map[string]map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		sections:   make(map[string]map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.broadcastToSection(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	if h.sections[client.section] == nil {
		h.sections[client.section] = make(map[*Client]bool)
	}
	h.sections[client.section][client] = true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		delete(h.sections[client.section], client)

		if len(h.sections[client.section]) == 0 {
			delete(h.sections, client.section)
		}

		close(client.send)
	}
}

func (h *Hub) broadcastToSection(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	// Collect slow clients under the read lock; eviction mutates the maps
	// and needs the write lock in removeClient.
	var slow []*Client

	h.mu.RLock()
	for client := range h.sections[event.Section] {
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.removeClient(client)
	}
}

// BroadcastToSection queues an event for every client watching the section.
// Drops the event when the broadcast buffer is full.
func (h *Hub) BroadcastToSection(section string, eventType EventType, data interface{}) {
	event := Event{
		Section:   section,
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- event:
	default:
	}
}

func (h *Hub) GetConnectedClients(section string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sections[section])
}
