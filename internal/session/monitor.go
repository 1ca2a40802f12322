package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/stackbank/internal/clock"
	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/notify"
)

// DefaultIdleTimeout is the inactivity budget before a forced logout.
const DefaultIdleTimeout = 15 * time.Minute

// ExpiredMessage is published when the monitor ends a session.
const ExpiredMessage = "Session expired. Please log in again."

// ActivityKind is a class of user input that counts as activity.
type ActivityKind int

// Activity kinds that reset the countdown.
const (
	ActivityPointerMove ActivityKind = iota
	ActivityKeyPress
	ActivityPointerPress
	ActivityTouchStart
)

func (k ActivityKind) String() string {
	switch k {
	case ActivityPointerMove:
		return "pointer_move"
	case ActivityKeyPress:
		return "key_press"
	case ActivityPointerPress:
		return "pointer_press"
	case ActivityTouchStart:
		return "touch_start"
	default:
		return "unknown"
	}
}

// Clearer is the write side of the session store used on expiry.
type Clearer interface {
	Clear() bool
}

// Monitor ends the session after a period without user input. It is either
// armed (countdown running) or disarmed.
type Monitor struct {
	scheduler  clock.Scheduler
	session    Clearer
	notifier   notify.Publisher
	navigator  nav.Navigator
	timer      clock.Timer
	timeout    time.Duration
	generation uint64
	mu         sync.Mutex
	armed      bool
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithIdleTimeout sets the inactivity budget.
func WithIdleTimeout(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithMonitorScheduler sets the scheduler for the countdown.
func WithMonitorScheduler(s clock.Scheduler) MonitorOption {
	return func(m *Monitor) {
		m.scheduler = s
	}
}

// NewMonitor creates a disarmed monitor.
func NewMonitor(session Clearer, notifier notify.Publisher, navigator nav.Navigator, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		scheduler: clock.Real{},
		session:   session,
		notifier:  notifier,
		navigator: navigator,
		timeout:   DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bind arms the monitor whenever store becomes active and disarms it when
// the session is lost by any path. The current state is applied at once.
func (m *Monitor) Bind(store *Store) func() {
	unsubscribe := store.Subscribe(func(active bool) {
		if active {
			m.Arm()
		} else {
			m.Disarm()
		}
	})
	if store.IsActive() {
		m.Arm()
	}
	return unsubscribe
}

// Arm starts a full countdown, cancelling any countdown already pending.
func (m *Monitor) Arm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.restartLocked()
	m.armed = true
}

// Touch records user activity. It restarts the countdown when armed and is
// ignored otherwise.
func (m *Monitor) Touch(kind ActivityKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.armed {
		return
	}
	m.restartLocked()
	slog.Debug("Activity observed", "kind", kind)
}

// Disarm cancels the countdown. A callback already racing to fire is
// discarded by the generation check in expire.
func (m *Monitor) Disarm() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopLocked()
	m.armed = false
}

// Armed reports whether a countdown is running.
func (m *Monitor) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed
}

// Timeout returns the configured inactivity budget.
func (m *Monitor) Timeout() time.Duration {
	return m.timeout
}

func (m *Monitor) restartLocked() {
	m.stopLocked()
	gen := m.generation
	m.timer = m.scheduler.AfterFunc(m.timeout, func() {
		m.expire(gen)
	})
}

func (m *Monitor) stopLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++
}

func (m *Monitor) expire(gen uint64) {
	m.mu.Lock()
	if !m.armed || gen != m.generation {
		m.mu.Unlock()
		return
	}
	m.armed = false
	m.timer = nil
	m.generation++
	m.mu.Unlock()

	slog.Info("Session expired after inactivity", "timeout", m.timeout)

	m.session.Clear()
	m.notifier.Publish(ExpiredMessage, notify.SeverityError)
	m.navigator.HardRedirect(nav.EntryRoute)
}
