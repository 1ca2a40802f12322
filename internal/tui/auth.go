package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/nav"
)

// authScreen is the login or register form. Errors stay inline.
type authScreen struct {
	env      env
	err      string
	form     form
	load     loader
	register bool
}

func newLoginScreen(e env) *authScreen {
	return &authScreen{
		env: e,
		form: newForm(
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", secret: true},
		),
		load: newLoader(e),
	}
}

func newRegisterScreen(e env) *authScreen {
	return &authScreen{
		env: e,
		form: newForm(
			field{label: "Email", placeholder: "you@example.com"},
			field{label: "Password", secret: true},
			field{label: "Confirm Password", secret: true},
		),
		load:     newLoader(e),
		register: true,
	}
}

func (s *authScreen) Init() tea.Cmd {
	return nil
}

func (s *authScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.env.keys.Submit):
			return s, s.submit()
		case key.Matches(msg, s.env.keys.SwitchAuth):
			if s.register {
				s.env.navigator.Push(nav.RouteLogin)
			} else {
				s.env.navigator.Push(nav.RouteRegister)
			}
			return s, nil
		}
		if s.form.HandleKey(s.env.keys, msg) {
			return s, nil
		}
		return s, s.form.Update(msg)

	case authResultMsg:
		s.load.Stop()
		if msg.err != nil {
			if !silent(msg.err) {
				s.err = api.UserMessage(msg.err, s.fallback())
			}
			return s, nil
		}
		s.env.navigator.Push(nav.RouteDashboard)
		return s, nil
	}

	return s, s.load.Update(msg)
}

func (s *authScreen) fallback() string {
	if s.register {
		return api.MsgRegisterFailed
	}
	return api.MsgLoginFailed
}

func (s *authScreen) submit() tea.Cmd {
	if s.load.active {
		return nil
	}

	email := strings.TrimSpace(s.form.Value(0))
	password := s.form.Value(1)

	if s.register {
		confirm := s.form.Value(2)
		if err := api.ValidateRegister(email, password, confirm); err != nil {
			s.err = api.UserMessage(err, api.MsgFillAllFields)
			return nil
		}
		s.err = ""
		return tea.Batch(s.load.Start(), registerCmd(s.env, email, password, confirm))
	}

	if err := api.ValidateLogin(email, password); err != nil {
		s.err = api.UserMessage(err, api.MsgLoginMissing)
		return nil
	}
	s.err = ""
	return tea.Batch(s.load.Start(), loginCmd(s.env, email, password))
}

func (s *authScreen) View() string {
	t := s.env.theme

	title, switchHint := "Login", "Don't have an account? Ctrl+N to register"
	if s.register {
		title, switchHint = "Register", "Already have an account? Ctrl+N to log in"
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(s.form.View(t))
	if busy := s.load.View("Signing in..."); busy != "" {
		b.WriteString("\n" + busy + "\n")
	}
	if fb := feedback(t, "", s.err); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	b.WriteString("\n")
	b.WriteString(t.Help.Render(switchHint))
	return t.Box.Render(b.String())
}
