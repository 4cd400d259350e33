package server

import (
	"context"
	"log"
	"sync"

	"github.com/npezzotti/roomchat/internal/config"
	"github.com/npezzotti/roomchat/internal/messages"
	"github.com/npezzotti/roomchat/internal/presence"
	"github.com/npezzotti/roomchat/internal/stats"
)

const eventQueueSize = 256

// Engine drives join, message and leave events for every connection. All
// events are handled one at a time on the goroutine running Run, which is
// the only goroutine touching the presence directory.
type Engine struct {
	log       *log.Logger
	transport Transport
	directory *presence.Directory
	formatter *messages.Formatter
	stats     stats.StatsProvider
	botName   string
	welcome   string
	events    chan Event
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

func NewEngine(logger *log.Logger, cfg *config.Config, t Transport, f *messages.Formatter, su stats.StatsProvider) *Engine {
	su.RegisterMetric(stats.MetricJoinedUsers)
	su.RegisterMetric(stats.MetricMessagesRelayed)

	return &Engine{
		log:       logger,
		transport: t,
		directory: presence.NewDirectory(),
		formatter: f,
		stats:     su,
		botName:   cfg.BotName,
		welcome:   cfg.WelcomeMessage,
		events:    make(chan Event, eventQueueSize),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Dispatch queues ev for the event loop. It blocks while the queue is full
// and returns false once the engine has stopped.
func (e *Engine) Dispatch(ev Event) bool {
	select {
	case <-e.stop:
		return false
	default:
	}

	select {
	case e.events <- ev:
		return true
	case <-e.stop:
		return false
	}
}

func (e *Engine) Run() {
	defer close(e.done)

	e.log.Println("engine started")
	for {
		select {
		case ev := <-e.events:
			e.handleEvent(ev)
		case <-e.stop:
			e.log.Printf("engine stopping, %d users joined", e.directory.Len())
			return
		}
	}
}

func (e *Engine) handleEvent(ev Event) {
	switch ev.Kind {
	case KindConnect:
		e.log.Printf("connection %q opened", ev.ConnId)
	case KindDisconnect:
		e.log.Printf("connection %q closed", ev.ConnId)
		e.leave(ev.ConnId, false)
	case KindJoinRoom:
		e.handleJoin(ev)
	case KindChatMessage:
		e.handleMessage(ev)
	case KindLeaveRoom:
		e.leave(ev.ConnId, true)
	default:
		e.log.Printf("unhandled event %s from %q", ev.Kind, ev.ConnId)
	}
}

func (e *Engine) Shutdown(ctx context.Context) error {
	e.stopOnce.Do(func() { close(e.stop) })

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
