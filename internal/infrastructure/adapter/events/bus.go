package events

import (
	"sync"

	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
)

const subscriberBuffer = 16

// Bus is the in-process event fanout. Subscribers get a buffered channel;
// a subscriber that stops draining loses events instead of blocking the core.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan coreport.Event
	logger      coreport.Logger
}

// NewBus creates a new Bus
func NewBus(logger coreport.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a new subscriber and returns its event channel
func (b *Bus) Subscribe() <-chan coreport.Event {
	ch := make(chan coreport.Event, subscriberBuffer)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Publish fans the event out without blocking the caller
func (b *Bus) Publish(event coreport.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Event dropped, subscriber not draining", map[string]any{
				"kind": string(event.Kind),
			})
		}
	}
}

// Tee forwards every published event to the extra sinks as well
type Tee struct {
	sinks []coreport.EventSink
}

// NewTee creates a sink that fans out to all given sinks
func NewTee(sinks ...coreport.EventSink) *Tee {
	return &Tee{sinks: sinks}
}

// Publish delivers the event to every sink
func (t *Tee) Publish(event coreport.Event) {
	for _, sink := range t.sinks {
		sink.Publish(event)
	}
}
