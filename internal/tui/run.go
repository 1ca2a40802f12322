package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/stackbank/internal/nav"
)

// Run starts the interactive application and blocks until it exits. The
// inactivity monitor is bound to the session for the lifetime of the program.
func Run(ctx context.Context, opts ...Option) error {
	m, err := New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	if m.config.MouseSupport {
		programOpts = append(programOpts, tea.WithMouseAllMotion())
	}
	p := tea.NewProgram(m, programOpts...)

	unbind := m.monitor.Bind(m.store)
	unsubscribe := m.listen(p)
	defer func() {
		unsubscribe()
		unbind()
		m.monitor.Disarm()
	}()

	slog.Info("Starting interactive client", "route", m.history.Current())
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// listen wakes the program when history, session or notifications change on
// another goroutine. Sends are asynchronous since listeners also fire from
// inside Update.
func (m Model) listen(p *tea.Program) func() {
	send := func(msg tea.Msg) {
		go p.Send(msg)
	}

	stops := []func(){
		m.history.Subscribe(func(ev nav.Event) {
			send(routeChangedMsg{event: ev})
		}),
		m.store.Subscribe(func(active bool) {
			send(sessionChangedMsg{active: active})
		}),
		m.notifier.Subscribe(func() {
			send(notificationsChangedMsg{})
		}),
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
