package server

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/npezzotti/roomchat/internal/stats"
	"github.com/teris-io/shortid"
)

// Hub is the WebSocket Transport. It tracks open connections by id and the
// room groups they are subscribed to.
type Hub struct {
	log     *log.Logger
	stats   stats.StatsProvider
	clients map[string]*Client
	groups  map[string]map[string]*Client
	lock    sync.RWMutex
	wg      sync.WaitGroup
	newId   func() (string, error)
}

func NewHub(logger *log.Logger, su stats.StatsProvider) *Hub {
	su.RegisterMetric(stats.MetricConnections)

	return &Hub{
		log:     logger,
		stats:   su,
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]*Client),
		newId:   shortid.Generate,
	}
}

// Register assigns c a fresh connection id and starts tracking it.
func (h *Hub) Register(c *Client) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	for {
		id, err := h.newId()
		if err != nil {
			return fmt.Errorf("generate connection id: %w", err)
		}
		if _, taken := h.clients[id]; !taken {
			c.id = id
			break
		}
	}

	c.rooms = make(map[string]struct{})
	h.clients[c.id] = c
	h.wg.Add(1)
	h.stats.Incr(stats.MetricConnections)
	h.log.Printf("registered connection %q, total: %d", c.id, len(h.clients))

	return nil
}

// Unregister forgets c and removes it from every room group. It reports
// whether c was registered.
func (h *Hub) Unregister(c *Client) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return false
	}

	for room := range c.rooms {
		h.unsubscribeLocked(c.id, room)
	}
	delete(h.clients, c.id)
	h.wg.Done()
	h.stats.Decr(stats.MetricConnections)
	h.log.Printf("unregistered connection %q, total: %d", c.id, len(h.clients))

	return true
}

func (h *Hub) Subscribe(connId, room string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	c, ok := h.clients[connId]
	if !ok {
		h.log.Printf("subscribe: connection %q not found", connId)
		return
	}

	if h.groups[room] == nil {
		h.groups[room] = make(map[string]*Client)
	}
	h.groups[room][connId] = c
	c.rooms[room] = struct{}{}
}

func (h *Hub) Unsubscribe(connId, room string) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.unsubscribeLocked(connId, room)
}

func (h *Hub) unsubscribeLocked(connId, room string) {
	group, ok := h.groups[room]
	if !ok {
		return
	}

	if c, ok := group[connId]; ok {
		delete(c.rooms, room)
		delete(group, connId)
	}
	if len(group) == 0 {
		delete(h.groups, room)
	}
}

func (h *Hub) EmitTo(connId, event string, payload any) {
	frame, err := serializeFrame(event, payload)
	if err != nil {
		h.log.Println("emit:", err)
		return
	}

	h.lock.RLock()
	c, ok := h.clients[connId]
	h.lock.RUnlock()
	if !ok {
		h.log.Printf("emit %s: connection %q not found", event, connId)
		return
	}

	c.queueMessage(frame)
}

func (h *Hub) EmitToRoom(room, event string, payload any, exclude string) {
	frame, err := serializeFrame(event, payload)
	if err != nil {
		h.log.Println("emit:", err)
		return
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	for id, c := range h.groups[room] {
		if id == exclude {
			continue
		}

		c.queueMessage(frame)
	}
}

func (h *Hub) Len() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.groups[room])
}

// Shutdown stops every open connection and waits until all of them have
// unregistered or ctx expires.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.lock.RLock()
	h.log.Printf("closing %d connections", len(h.clients))
	for _, c := range h.clients {
		c.stopClient()
	}
	h.lock.RUnlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
