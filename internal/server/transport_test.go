package server

import (
	"slices"
	"sync"
)

type emission struct {
	Event   string
	Payload any
}

// fakeTransport records what every connection would receive.
type fakeTransport struct {
	mu       sync.Mutex
	groups   map[string][]string
	received map[string][]emission
	unsubs   []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		groups:   make(map[string][]string),
		received: make(map[string][]emission),
	}
}

func (f *fakeTransport) EmitTo(connId, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received[connId] = append(f.received[connId], emission{Event: event, Payload: payload})
}

func (f *fakeTransport) EmitToRoom(room, event string, payload any, exclude string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.groups[room] {
		if id == exclude {
			continue
		}
		f.received[id] = append(f.received[id], emission{Event: event, Payload: payload})
	}
}

func (f *fakeTransport) Subscribe(connId, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(f.groups[room], connId) {
		f.groups[room] = append(f.groups[room], connId)
	}
}

func (f *fakeTransport) Unsubscribe(connId, room string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubs = append(f.unsubs, connId+"@"+room)
	f.removeLocked(connId, room)
}

// drop mimics the hub forgetting a closed connection.
func (f *fakeTransport) drop(connId string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for room := range f.groups {
		f.removeLocked(connId, room)
	}
}

func (f *fakeTransport) removeLocked(connId, room string) {
	if i := slices.Index(f.groups[room], connId); i >= 0 {
		f.groups[room] = slices.Delete(f.groups[room], i, i+1)
	}
}

func (f *fakeTransport) of(connId, event string) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payloads []any
	for _, e := range f.received[connId] {
		if e.Event == event {
			payloads = append(payloads, e.Payload)
		}
	}
	return payloads
}

func (f *fakeTransport) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.received {
		n += len(r)
	}
	return n
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = make(map[string][]emission)
}
