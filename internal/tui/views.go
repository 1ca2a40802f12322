package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/notify"
)

const appTitle = "StackBank"

// View renders the whole application.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	if m.screen != nil {
		sections = append(sections, lipgloss.NewStyle().Padding(1, 2).Render(m.screen.View()))
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title and, when signed in, the navigation bar.
func (m Model) renderHeader() string {
	title := m.theme.Title.MarginBottom(0).Render(appTitle)
	if !m.active {
		return title
	}

	items := make([]string, 0, len(nav.ProtectedRoutes)+1)
	for _, r := range nav.ProtectedRoutes {
		style := m.theme.NavItem
		if r == m.route {
			style = m.theme.NavActive
		}
		items = append(items, style.Render(r.Title()))
	}
	items = append(items, m.theme.NavItem.Render("Logout"))

	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.Avatar.Render(model.Initials(m.email)),
		strings.Join(items, " "),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, bar)
}

// renderToasts renders live notifications, oldest first.
func (m Model) renderToasts() string {
	_, toasts := m.toastViews()
	if len(toasts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

// toastViews returns the live notifications and their rendered boxes.
func (m Model) toastViews() ([]notify.Notification, []string) {
	items := m.notifier.List()
	toasts := make([]string, 0, len(items))
	for _, n := range items {
		style := m.theme.ToastInfo
		switch n.Severity {
		case notify.SeveritySuccess:
			style = m.theme.ToastOK
		case notify.SeverityError:
			style = m.theme.ToastError
		}
		toasts = append(toasts, style.Render(n.Message))
	}
	return items, toasts
}

// toastAt returns the notification drawn on screen row y. Toasts sit
// directly under the header, one box per notification.
func (m Model) toastAt(y int) (uint64, bool) {
	items, toasts := m.toastViews()
	top := lipgloss.Height(m.renderHeader())
	for i, view := range toasts {
		bottom := top + lipgloss.Height(view)
		if y >= top && y < bottom {
			return items[i].ID, true
		}
		top = bottom
	}
	return 0, false
}

// renderFooter renders the key help.
func (m Model) renderFooter() string {
	return m.theme.Help.Render(m.help.View(m.keymap))
}
