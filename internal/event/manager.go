// internal/event/manager.go
package event

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/bethropolis/tidelist/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed, which stops delivery to later handlers.
type Handler func(e Event) bool

// SubscriptionID identifies one Subscribe call.
type SubscriptionID = uuid.UUID

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription // Map event types to a list of handlers
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler function for a specific event type and returns
// an id for Unsubscribe.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Event Manager: Handler %s subscribed to %v", id, eventType)
	return id
}

// Unsubscribe removes the handler registered under id. It reports whether it was found.
func (m *Manager) Unsubscribe(id SubscriptionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for t, subs := range m.handlers {
		for i, s := range subs {
			if s.id == id {
				m.handlers[t] = slices.Delete(subs, i, i+1)
				logger.DebugTagf("event", "Event Manager: Handler %s unsubscribed from %v", id, t)
				return true
			}
		}
	}
	return false
}

// HandlerCount returns the number of handlers subscribed to eventType.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}

// Dispatch sends an event to all registered handlers for its type, in
// subscription order, synchronously. It reports whether a handler consumed it.
func (m *Manager) Dispatch(eventType Type, data any) bool {
	e := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	// Copy so a handler can unsubscribe itself during dispatch.
	handlers := slices.Clone(m.handlers[eventType])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return false
	}

	logger.DebugTagf("event", "Event Manager: Dispatching %v to %d handler(s)", eventType, len(handlers))
	for _, s := range handlers {
		if s.handler(e) {
			return true
		}
	}
	return false
}
