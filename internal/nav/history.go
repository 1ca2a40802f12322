package nav

import "sync"

// Navigator performs navigation side effects.
type Navigator interface {
	// Push adds a new history entry.
	Push(route Route)
	// Replace swaps the current entry so back-navigation cannot return to it.
	Replace(route Route)
	// HardRedirect discards the whole history and every mounted screen.
	HardRedirect(route Route)
}

// EventKind describes how the current route changed.
type EventKind int

// Navigation event kinds.
const (
	EventPush EventKind = iota
	EventReplace
	EventHardRedirect
	EventBack
)

// Event is delivered to history subscribers after each change.
type Event struct {
	Route Route
	Kind  EventKind
}

// History is a concurrency-safe navigation stack.
type History struct {
	listeners map[int]func(Event)
	entries   []Route
	reloads   uint64
	nextSub   int
	mu        sync.Mutex
}

// NewHistory creates a history positioned at start.
func NewHistory(start Route) *History {
	return &History{
		entries:   []Route{start},
		listeners: make(map[int]func(Event)),
	}
}

// Current returns the route at the top of the stack.
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Route, len(h.entries))
	copy(out, h.entries)
	return out
}

// Reloads counts hard redirects; screens mounted before a reload are stale.
func (h *History) Reloads() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reloads
}

// Push implements Navigator.
func (h *History) Push(route Route) {
	h.mu.Lock()
	if h.entries[len(h.entries)-1] == route {
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries, route)
	h.mu.Unlock()

	h.emit(Event{Kind: EventPush, Route: route})
}

// Replace implements Navigator.
func (h *History) Replace(route Route) {
	h.mu.Lock()
	h.entries[len(h.entries)-1] = route
	h.mu.Unlock()

	h.emit(Event{Kind: EventReplace, Route: route})
}

// HardRedirect implements Navigator.
func (h *History) HardRedirect(route Route) {
	h.mu.Lock()
	h.entries = []Route{route}
	h.reloads++
	h.mu.Unlock()

	h.emit(Event{Kind: EventHardRedirect, Route: route})
}

// Back pops the current entry. It reports false when already at the root.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.entries) == 1 {
		h.mu.Unlock()
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	route := h.entries[len(h.entries)-1]
	h.mu.Unlock()

	h.emit(Event{Kind: EventBack, Route: route})
	return true
}

// Subscribe registers fn for every navigation event.
func (h *History) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSub
	h.nextSub++
	h.listeners[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *History) emit(ev Event) {
	h.mu.Lock()
	listeners := make([]func(Event), 0, len(h.listeners))
	for _, fn := range h.listeners {
		listeners = append(listeners, fn)
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}
