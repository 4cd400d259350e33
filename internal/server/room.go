package server

import (
	"fmt"

	"github.com/npezzotti/roomchat/internal/stats"
	"github.com/npezzotti/roomchat/internal/types"
)

func (e *Engine) handleJoin(ev Event) {
	username, room, err := decodeJoin(ev.Data)
	if err != nil {
		e.log.Printf("join from %q: %v", ev.ConnId, err)
		e.transport.EmitTo(ev.ConnId, EventError, ErrorPayload{Error: err.Error()})
		return
	}

	e.join(ev.ConnId, username, room)
}

func (e *Engine) join(connId, username, room string) {
	// a connection switching rooms leaves its previous room first
	if prev, ok := e.directory.Get(connId); ok {
		e.log.Printf("%q switching from room %q to %q", prev.Username, prev.Room, room)
		e.leave(connId, true)
	}

	user := e.directory.Add(connId, username, room)
	e.transport.Subscribe(connId, user.Room)
	e.stats.Incr(stats.MetricJoinedUsers)
	e.log.Printf("%q joined room %q", user.Username, user.Room)

	e.transport.EmitTo(connId, EventMessage, e.formatter.Format(e.botName, e.welcome))
	e.transport.EmitToRoom(user.Room, EventMessage,
		e.formatter.Format(e.botName, fmt.Sprintf("%s has joined the chat", user.Username)), connId)
	e.transport.EmitToRoom(user.Room, EventRoomUsers, e.roomUsers(user.Room), "")
}

func (e *Engine) handleMessage(ev Event) {
	user, ok := e.directory.Get(ev.ConnId)
	if !ok {
		e.log.Printf("dropping message from %q: not in a room", ev.ConnId)
		return
	}

	text, err := decodeChat(ev.Data)
	if err != nil {
		e.log.Printf("message from %q: %v", ev.ConnId, err)
		e.transport.EmitTo(ev.ConnId, EventError, ErrorPayload{Error: err.Error()})
		return
	}

	e.transport.EmitToRoom(user.Room, EventMessage, e.formatter.Format(user.Username, text), "")
	e.stats.Incr(stats.MetricMessagesRelayed)
}

// leave removes connId from the directory and notifies the rest of its room.
// unsubscribe also drops the connection from the room's multicast group, for
// connections that stay open.
func (e *Engine) leave(connId string, unsubscribe bool) {
	user, ok := e.directory.Remove(connId)
	if !ok {
		return
	}

	if unsubscribe {
		e.transport.Unsubscribe(connId, user.Room)
	}
	e.stats.Decr(stats.MetricJoinedUsers)
	e.log.Printf("%q left room %q", user.Username, user.Room)

	e.transport.EmitToRoom(user.Room, EventMessage,
		e.formatter.Format(e.botName, fmt.Sprintf("%s has left the chat", user.Username)), "")
	e.transport.EmitToRoom(user.Room, EventRoomUsers, e.roomUsers(user.Room), "")
}

func (e *Engine) roomUsers(room string) types.RoomUsers {
	return types.RoomUsers{
		Room:  room,
		Users: e.directory.ListByRoom(room),
	}
}
