package server

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16 << 10
	sendBufferSize = 256
)

// Client is one WebSocket connection. Read feeds inbound frames to the
// dispatcher and Write drains queued outbound frames.
type Client struct {
	id         string
	conn       *websocket.Conn
	hub        *Hub
	dispatcher Dispatcher
	log        *log.Logger
	send       chan []byte
	// rooms is guarded by the hub lock
	rooms    map[string]struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub, d Dispatcher, l *log.Logger) *Client {
	return &Client{
		conn:       conn,
		hub:        hub,
		dispatcher: d,
		log:        l,
		send:       make(chan []byte, sendBufferSize),
		rooms:      make(map[string]struct{}),
		stop:       make(chan struct{}),
	}
}

func (c *Client) Id() string {
	return c.id
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			if !c.sendMessage(websocket.TextMessage, frame) {
				return
			}
		case <-c.stop:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
	}()

	c.dispatcher.Dispatch(Event{Kind: KindConnect, ConnId: c.id})

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read %q: %v", c.id, err)
			}
			break
		}

		ev, err := parseFrame(c.id, raw)
		if err != nil {
			c.log.Printf("connection %q: %v", c.id, err)
			c.queueError(err)
			continue
		}

		if !c.dispatcher.Dispatch(ev) {
			return
		}
	}
}

func (c *Client) queueError(err error) {
	msg := ErrInvalidMessage.Error()
	if errors.Is(err, ErrUnknownEvent) {
		msg = err.Error()
	}

	frame, serr := serializeFrame(EventError, ErrorPayload{Error: msg})
	if serr != nil {
		c.log.Println("serialize error frame:", serr)
		return
	}
	c.queueMessage(frame)
}

// queueMessage hands frame to the write loop without blocking. A full
// buffer drops the frame for this client only.
func (c *Client) queueMessage(frame []byte) bool {
	select {
	case c.send <- frame:
	default:
		c.log.Printf("send buffer full for %q, dropping message", c.id)
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// cleanup runs once the read loop exits. The connection leaves every room
// group before the disconnect event is handled, so leave notices only reach
// the remaining members.
func (c *Client) cleanup() {
	if c.hub.Unregister(c) {
		c.dispatcher.Dispatch(Event{Kind: KindDisconnect, ConnId: c.id})
	}
	c.stopClient()
}
