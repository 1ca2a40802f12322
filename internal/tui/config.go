package tui

import (
	"time"

	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/notify"
	"github.com/Veraticus/stackbank/internal/session"
	"github.com/Veraticus/stackbank/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Backend      Backend
	Session      *session.Store
	Monitor      *session.Monitor
	Notifier     *notify.Channel
	History      *nav.History
	Now          func() time.Time
	KeyMap       KeyMap
	ExportDir    string
	Width        int
	Height       int
	Animations   bool
	MouseSupport bool
	ShowHelp     bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		KeyMap:       DefaultKeyMap(),
		Now:          time.Now,
		ExportDir:    ".",
		Width:        80,
		Height:       24,
		Animations:   true,
		MouseSupport: true,
	}
}

// WithBackend sets the account service client.
func WithBackend(backend Backend) Option {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithSession sets the session store, its inactivity monitor, and the
// navigation history they drive.
func WithSession(store *session.Store, monitor *session.Monitor, history *nav.History) Option {
	return func(c *Config) {
		c.Session = store
		c.Monitor = monitor
		c.History = history
	}
}

// WithNotifier sets the notification channel rendered as toasts.
func WithNotifier(ch *notify.Channel) Option {
	return func(c *Config) {
		c.Notifier = ch
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithExportDir sets the directory CSV exports are written to.
func WithExportDir(dir string) Option {
	return func(c *Config) {
		c.ExportDir = dir
	}
}

// WithClock sets the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithFeatures configures UI features.
func WithFeatures(animations, mouse bool) Option {
	return func(c *Config) {
		c.Animations = animations
		c.MouseSupport = mouse
	}
}
