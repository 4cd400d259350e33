package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound event names.
const (
	EventJoinRoom    = "joinRoom"
	EventChatMessage = "chatMessage"
	EventLeaveRoom   = "leaveRoom"
)

// Outbound event names.
const (
	EventMessage   = "message"
	EventRoomUsers = "roomUsers"
	EventError     = "error"
)

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrUnknownEvent   = errors.New("unknown event")
	ErrMissingField   = errors.New("missing required field")
)

type EventKind int

const (
	KindConnect EventKind = iota
	KindDisconnect
	KindJoinRoom
	KindChatMessage
	KindLeaveRoom
)

func (k EventKind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindDisconnect:
		return "disconnect"
	case KindJoinRoom:
		return EventJoinRoom
	case KindChatMessage:
		return EventChatMessage
	case KindLeaveRoom:
		return EventLeaveRoom
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is an inbound notification for a single connection.
type Event struct {
	Kind   EventKind
	ConnId string
	Data   json.RawMessage
}

// Frame is the JSON envelope of every WebSocket text message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinRoom struct {
	Username *string `json:"username"`
	Room     *string `json:"room"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// parseFrame decodes a raw client frame into an Event for connId.
func parseFrame(connId string, raw []byte) (Event, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	ev := Event{ConnId: connId, Data: f.Data}
	switch f.Event {
	case EventJoinRoom:
		ev.Kind = KindJoinRoom
	case EventChatMessage:
		ev.Kind = KindChatMessage
	case EventLeaveRoom:
		ev.Kind = KindLeaveRoom
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, f.Event)
	}

	return ev, nil
}

func decodeJoin(data json.RawMessage) (username, room string, err error) {
	var req JoinRoom
	if len(data) == 0 {
		return "", "", fmt.Errorf("%w: username", ErrMissingField)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if req.Username == nil {
		return "", "", fmt.Errorf("%w: username", ErrMissingField)
	}
	if req.Room == nil {
		return "", "", fmt.Errorf("%w: room", ErrMissingField)
	}

	return *req.Username, *req.Room, nil
}

func decodeChat(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: text", ErrMissingField)
	}

	var text *string
	if err := json.Unmarshal(data, &text); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if text == nil {
		return "", fmt.Errorf("%w: text", ErrMissingField)
	}

	return *text, nil
}

func serializeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}

	return json.Marshal(Frame{Event: event, Data: data})
}
