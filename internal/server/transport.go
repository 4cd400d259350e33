package server

// Transport delivers outbound events to connections. Delivery is best
// effort; implementations must not block the caller.
type Transport interface {
	EmitTo(connId, event string, payload any)
	// EmitToRoom sends to every connection subscribed to room except
	// exclude. An empty exclude reaches the whole room.
	EmitToRoom(room, event string, payload any, exclude string)
	Subscribe(connId, room string)
	Unsubscribe(connId, room string)
}

// Dispatcher receives inbound connection events.
type Dispatcher interface {
	Dispatch(ev Event) bool
}
