package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/stackbank/internal/common"
	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/notify"
	"github.com/Veraticus/stackbank/internal/session"
	"github.com/Veraticus/stackbank/internal/tui/themes"
)

// Model holds the main TUI state. The mounted screen always matches the
// gate's resolution of the current history entry; it is remounted with a
// fresh visit id whenever the route or the reload count changes.
type Model struct {
	ctx      context.Context
	backend  Backend
	screen   screen
	store    *session.Store
	monitor  *session.Monitor
	notifier *notify.Channel
	history  *nav.History
	gate     *nav.Gate
	config   Config
	keymap   KeyMap
	theme    themes.Theme
	email    string
	route    nav.Route
	help     help.Model
	visit    uint64
	reloads  uint64
	epoch    uint64
	width    int
	height   int
	active   bool
	quitting bool
}

// New creates the application model.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.Backend == nil:
		return Model{}, errors.New("backend is required")
	case cfg.Session == nil || cfg.Monitor == nil || cfg.History == nil:
		return Model{}, errors.New("session, monitor and history are required")
	case cfg.Notifier == nil:
		return Model{}, errors.New("notifier is required")
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp
	h.Width = cfg.Width

	return Model{
		ctx:      ctx,
		backend:  cfg.Backend,
		store:    cfg.Session,
		monitor:  cfg.Monitor,
		notifier: cfg.Notifier,
		history:  cfg.History,
		gate:     nav.NewGate(cfg.Session),
		config:   cfg,
		keymap:   cfg.KeyMap,
		theme:    cfg.Theme,
		help:     h,
		width:    cfg.Width,
		height:   cfg.Height,
	}, nil
}

// Init mounts the first screen on the first update.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return routeChangedMsg{} }
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Navigation and session changes made outside the loop apply first so
	// a result for a screen that lost its session is never delivered.
	cmds := []tea.Cmd{m.sync()}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		m.monitor.Touch(session.ActivityKeyPress)
		if cmd, handled := m.handleGlobalKeys(msg); handled {
			cmds = append(cmds, cmd, m.sync())
			return m, tea.Batch(cmds...)
		}

	case tea.MouseMsg:
		m.touchPointer(msg)
		return m, tea.Batch(cmds...)

	case routeChangedMsg, sessionChangedMsg, notificationsChangedMsg:
		return m, tea.Batch(cmds...)

	case avatarLoadedMsg:
		if msg.epoch != m.epoch {
			return m, tea.Batch(cmds...)
		}
		if msg.err != nil {
			if !silent(msg.err) {
				common.LogDebug("Avatar profile fetch failed", common.Fields{"error": msg.err.Error()})
			}
			return m, tea.Batch(cmds...)
		}
		m.email = msg.email
		return m, tea.Batch(cmds...)

	case emailChangedMsg:
		m.email = msg.email
		return m, tea.Batch(cmds...)
	}

	if v, ok := msg.(visited); ok && v.visitID() != m.visit {
		slog.Debug("Dropping result for unmounted screen",
			"visit", v.visitID(),
			"current", m.visit)
		return m, tea.Batch(cmds...)
	}

	if m.screen != nil {
		var cmd tea.Cmd
		m.screen, cmd = m.screen.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// sync reconciles the model with the session store and the history.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	if active := m.store.IsActive(); active != m.active {
		m.active = active
		m.epoch++
		m.email = ""
		if active {
			cmds = append(cmds, loadAvatar(m.ctx, m.backend, m.epoch))
		}
	}

	requested := m.history.Current()
	resolved := m.gate.Resolve(requested)
	if resolved != requested {
		slog.Debug("Redirecting", "from", requested, "to", resolved)
		m.history.Replace(resolved)
	}

	if reloads := m.history.Reloads(); m.screen == nil || resolved != m.route || reloads != m.reloads {
		m.route = resolved
		m.reloads = reloads
		cmds = append(cmds, m.mount())
	}

	return tea.Batch(cmds...)
}

// mount replaces the current screen with a fresh instance for m.route.
func (m *Model) mount() tea.Cmd {
	m.visit++
	e := env{
		ctx:       m.ctx,
		backend:   m.backend,
		notifier:  m.notifier,
		navigator: m.history,
		now:       m.config.Now,
		theme:     m.theme,
		keys:      m.keymap,
		exportDir: m.config.ExportDir,
		visit:     m.visit,
		animate:   m.config.Animations,
	}

	switch m.route {
	case nav.RouteRegister:
		m.screen = newRegisterScreen(e)
	case nav.RouteDashboard:
		m.screen = newDashboardScreen(e)
	case nav.RouteTransfer:
		m.screen = newTransferScreen(e)
	case nav.RouteHistory:
		m.screen = newHistoryScreen(e)
	case nav.RouteProfile:
		m.screen = newProfileScreen(e)
	default:
		m.screen = newLoginScreen(e)
	}

	slog.Debug("Mounted screen", "route", m.route, "visit", m.visit)
	return m.screen.Init()
}

// handleGlobalKeys handles keys that work on every screen.
func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil, true
	case key.Matches(msg, m.keymap.Dismiss):
		if items := m.notifier.List(); len(items) > 0 {
			m.notifier.Dismiss(items[len(items)-1].ID)
		}
		return nil, true
	}

	if !m.active {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keymap.Dashboard):
		m.history.Push(nav.RouteDashboard)
	case key.Matches(msg, m.keymap.Transfer):
		m.history.Push(nav.RouteTransfer)
	case key.Matches(msg, m.keymap.History):
		m.history.Push(nav.RouteHistory)
	case key.Matches(msg, m.keymap.Profile):
		m.history.Push(nav.RouteProfile)
	case key.Matches(msg, m.keymap.Logout):
		m.logout()
	default:
		return nil, false
	}
	return nil, true
}

// logout clears the session and returns to the login screen.
func (m *Model) logout() {
	if m.store.Clear() {
		slog.Info("Logged out")
	}
	m.history.Push(nav.RouteLogin)
}

// touchPointer records pointer activity. A left click on a toast dismisses it.
func (m *Model) touchPointer(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionMotion:
		m.monitor.Touch(session.ActivityPointerMove)
	case tea.MouseActionPress:
		m.monitor.Touch(session.ActivityPointerPress)
		if msg.Button == tea.MouseButtonLeft {
			if id, ok := m.toastAt(msg.Y); ok {
				m.notifier.Dismiss(id)
			}
		}
	}
}

// Route returns the mounted route.
func (m Model) Route() nav.Route {
	return m.route
}

// Visit returns the id of the current screen mount.
func (m Model) Visit() uint64 {
	return m.visit
}
