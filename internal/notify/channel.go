// Package notify implements the transient, auto-expiring user notifications
// shown on top of every screen.
package notify

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/stackbank/internal/clock"
)

// DefaultDuration is how long a notification stays visible unless dismissed.
const DefaultDuration = 3500 * time.Millisecond

// Severity is the visual weight of a notification.
type Severity string

// Notification severities.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a single message in the channel.
type Notification struct {
	CreatedAt time.Time
	Message   string
	Severity  Severity
	ID        uint64
}

// Publisher is the producer side of the channel.
type Publisher interface {
	Publish(message string, severity Severity)
}

// Channel holds the live notifications in insertion order. Each one owns an
// independent expiry timer.
type Channel struct {
	scheduler clock.Scheduler
	timers    map[uint64]clock.Timer
	listeners map[int]func()
	items     []Notification
	duration  time.Duration
	nextID    uint64
	nextSub   int
	mu        sync.Mutex
	closed    bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithScheduler sets the scheduler used for expiry timers.
func WithScheduler(s clock.Scheduler) Option {
	return func(c *Channel) {
		c.scheduler = s
	}
}

// WithDefaultDuration overrides DefaultDuration.
func WithDefaultDuration(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.duration = d
		}
	}
}

// NewChannel creates an empty channel.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		scheduler: clock.Real{},
		duration:  DefaultDuration,
		timers:    make(map[uint64]clock.Timer),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish appends a notification that expires after the default duration.
func (c *Channel) Publish(message string, severity Severity) {
	c.PublishFor(message, severity, c.duration)
}

// PublishFor appends a notification that expires after d.
func (c *Channel) PublishFor(message string, severity Severity, d time.Duration) {
	if severity == "" {
		severity = SeverityInfo
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	id := c.nextID
	c.nextID++
	c.items = append(c.items, Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: c.scheduler.Now(),
	})
	c.timers[id] = c.scheduler.AfterFunc(d, func() {
		c.remove(id)
	})
	listeners := c.listenersLocked()
	c.mu.Unlock()

	slog.Debug("Notification published", "id", id, "severity", severity)
	notifyAll(listeners)
}

// Dismiss removes the notification with the given id. Unknown ids are ignored.
func (c *Channel) Dismiss(id uint64) {
	c.mu.Lock()
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
	}
	c.mu.Unlock()

	c.remove(id)
}

// List returns the live notifications in insertion order.
func (c *Channel) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Subscribe registers fn to be called after every change. The returned
// function removes the subscription.
func (c *Channel) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// Close stops every pending expiry timer. Publishing after Close is a no-op.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.closed = true
}

func (c *Channel) remove(id uint64) {
	c.mu.Lock()
	delete(c.timers, id)

	idx := -1
	for i, n := range c.items {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return
	}

	c.items = slices.Delete(c.items, idx, idx+1)
	listeners := c.listenersLocked()
	c.mu.Unlock()

	notifyAll(listeners)
}

func (c *Channel) listenersLocked() []func() {
	out := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func notifyAll(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
