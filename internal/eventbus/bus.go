// Package eventbus provides an in-process pub/sub event bus for model edit
// events. The repository records events after commit; subscribers process
// them asynchronously on a single consumer goroutine.
package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/matthewbaird/umlgen/internal/event"
	"github.com/matthewbaird/umlgen/internal/logger"
)

// Handler processes a domain event.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.DomainEvent) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.DomainEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.DomainEvent) error {
	return f(ctx, evt)
}

// Bus is a simple in-process event bus. Events are published to a buffered
// channel and dispatched to all subscribers in order, one event at a time.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan event.DomainEvent
	done        chan struct{}
	stopOnce    sync.Once
	published   atomic.Uint64
	dropped     atomic.Uint64
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a new Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan event.DomainEvent, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish sends an event to the bus. Non-blocking: if the buffer is full
// the event is dropped and a warning is logged.
func (b *Bus) Publish(_ context.Context, evt event.DomainEvent) {
	select {
	case b.events <- evt:
		b.published.Add(1)
	default:
		b.dropped.Add(1)
		logger.Logger.Warnw("eventbus: buffer full, dropping event", "event_type", evt.EventType, "event_id", evt.ID)
	}
}

// Start begins the consumer goroutine. It processes events until the
// context is cancelled or Stop is called, draining what is buffered.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt, ok := <-b.events:
				if !ok {
					return
				}
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				for {
					select {
					case evt, ok := <-b.events:
						if !ok {
							return
						}
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop closes the bus and waits for the consumer goroutine to finish.
// Publish must not be called after Stop.
func (b *Bus) Stop() {
	b.stopOnce.Do(func() { close(b.events) })
	<-b.done
	logger.Logger.Debugw("eventbus: stopped", "published", b.published.Load(), "dropped", b.dropped.Load())
}

// Cap is the size of the publish buffer.
func (b *Bus) Cap() int { return cap(b.events) }

// Stats returns how many events were queued and how many were dropped.
func (b *Bus) Stats() (published, dropped uint64) {
	return b.published.Load(), b.dropped.Load()
}

func (b *Bus) dispatch(ctx context.Context, evt event.DomainEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			logger.Logger.Warnw("eventbus: handler error", "handler", s.name, "event_type", evt.EventType, "error", err)
		}
	}
}
