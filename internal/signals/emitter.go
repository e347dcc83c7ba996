// Package signals provides typed, named notifications and a registry that
// tears a batch of subscriptions down together.
package signals

import "slices"

// HandlerID identifies one connected handler on a Source.
type HandlerID uint64

// Source is anything handlers can be connected to.
type Source[T any] interface {
	Connect(name string, fn func(T)) HandlerID
	Disconnect(id HandlerID) bool
}

type handler[T any] struct {
	id   HandlerID
	name string
	fn   func(T)
}

// Emitter keeps a list of handlers per notification name and calls them in
// connection order. The zero value is ready to use. It is not safe for
// concurrent use; callers deliver notifications from a single goroutine.
type Emitter[T any] struct {
	next     HandlerID
	handlers []handler[T]
}

// Connect registers fn for notifications called name.
func (e *Emitter[T]) Connect(name string, fn func(T)) HandlerID {
	e.next++
	e.handlers = append(e.handlers, handler[T]{id: e.next, name: name, fn: fn})
	return e.next
}

// Disconnect removes a handler. It reports false if id was not connected.
func (e *Emitter[T]) Disconnect(id HandlerID) bool {
	i := slices.IndexFunc(e.handlers, func(h handler[T]) bool { return h.id == id })
	if i < 0 {
		return false
	}
	e.handlers = slices.Delete(e.handlers, i, i+1)
	return true
}

func (e *Emitter[T]) connected(id HandlerID) bool {
	return slices.ContainsFunc(e.handlers, func(h handler[T]) bool { return h.id == id })
}

// Emit calls every handler connected to name. The handler list is
// snapshotted first: handlers connected during emission are not called for
// this emission, handlers disconnected during emission are skipped.
func (e *Emitter[T]) Emit(name string, payload T) {
	var targets []handler[T]
	for _, h := range e.handlers {
		if h.name == name {
			targets = append(targets, h)
		}
	}
	for _, h := range targets {
		if !e.connected(h.id) {
			continue
		}
		h.fn(payload)
	}
}

// Count returns the number of connected handlers across all names.
func (e *Emitter[T]) Count() int {
	return len(e.handlers)
}

// CountFor returns the number of handlers connected to name.
func (e *Emitter[T]) CountFor(name string) int {
	n := 0
	for _, h := range e.handlers {
		if h.name == name {
			n++
		}
	}
	return n
}
