// Package event is the in-process pub/sub glue between the match service and
// the audit/broadcast consumers.
package event

import "sync"

type Handler func(payload interface{})

type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[event] = append(b.handlers[event], handler)
}

// Publish delivers the payload to every subscriber in order, synchronously.
// Round records must hit the audit log before the response that references
// them goes out, so handlers run on the caller's goroutine.
func (b *Bus) Publish(event string, payload interface{}) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}
