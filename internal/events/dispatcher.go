package events

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// EventHandler handles a dispatched event.
type EventHandler func(context.Context, Event) error

// UnknownEventError is returned for events without a registered handler.
type UnknownEventError struct {
	Type EventType
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("no handler for event %q", e.Type)
}

// Dispatcher is an event-to-action table. Each event type has exactly one action.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
	Register(eventType EventType, handler EventHandler)
	Handles(eventType EventType) bool
	Types() []EventType
}

type tableDispatcher struct {
	mu      sync.RWMutex
	actions map[EventType]EventHandler
}

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() Dispatcher {
	return &tableDispatcher{
		actions: make(map[EventType]EventHandler),
	}
}

// Dispatch runs the action registered for the event type.
func (d *tableDispatcher) Dispatch(ctx context.Context, event Event) error {
	d.mu.RLock()
	handler, ok := d.actions[event.Type]
	d.mu.RUnlock()

	if !ok {
		return &UnknownEventError{Type: event.Type}
	}
	return handler(ctx, event)
}

// Register binds handler to the event type, replacing any previous binding.
func (d *tableDispatcher) Register(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions[eventType] = handler
}

// Handles reports whether an action is registered for the type.
func (d *tableDispatcher) Handles(eventType EventType) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.actions[eventType]
	return ok
}

// Types lists registered event types in sorted order.
func (d *tableDispatcher) Types() []EventType {
	d.mu.RLock()
	defer d.mu.RUnlock()
	types := make([]EventType, 0, len(d.actions))
	for t := range d.actions {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
