package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/notify"
)

type profileAction int

const (
	actionEmail profileAction = iota
	actionPassword
)

// Profile form fields. Submitting from the email field updates the email,
// from either password field changes the password.
const (
	fieldNewEmail = iota
	fieldOldPassword
	fieldNewPassword
)

// profileScreen shows the profile and edits the email and password.
type profileScreen struct {
	profile *model.Profile
	message string
	err     string
	env     env
	form    form
	load    loader
	save    loader
	pending profileAction
}

func newProfileScreen(e env) *profileScreen {
	return &profileScreen{
		env: e,
		form: newForm(
			field{label: "New Email", placeholder: "new@example.com"},
			field{label: "Current Password", secret: true},
			field{label: "New Password", secret: true},
		),
		load: newLoader(e),
		save: newLoader(e),
	}
}

func (s *profileScreen) Init() tea.Cmd {
	return tea.Batch(s.load.Start(), loadProfile(s.env))
}

func (s *profileScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, s.env.keys.Submit) {
			return s, s.submit()
		}
		if s.form.HandleKey(s.env.keys, msg) {
			return s, nil
		}
		return s, s.form.Update(msg)

	case profileLoadedMsg:
		s.load.Stop()
		if msg.err != nil {
			if !silent(msg.err) {
				s.err = api.UserMessage(msg.err, api.MsgProfileLoadFailed)
			}
			return s, nil
		}
		s.profile = msg.profile
		return s, nil

	case profileUpdatedMsg:
		return s, s.updated(msg)
	}

	return s, tea.Batch(s.load.Update(msg), s.save.Update(msg))
}

func (s *profileScreen) updated(msg profileUpdatedMsg) tea.Cmd {
	s.save.Stop()
	if msg.err != nil {
		if silent(msg.err) {
			return nil
		}
		fallback := api.MsgEmailUpdateFailed
		if msg.action == actionPassword {
			fallback = api.MsgPasswordChangeFailed
		}
		s.err = api.UserMessage(msg.err, fallback)
		s.env.notifier.Publish(s.err, notify.SeverityError)
		return nil
	}

	if msg.action == actionPassword {
		s.message = api.MsgPasswordChanged
		s.env.notifier.Publish(s.message, notify.SeveritySuccess)
		s.form.ClearField(fieldOldPassword)
		s.form.ClearField(fieldNewPassword)
		return nil
	}

	s.message = api.MsgEmailUpdated
	s.env.notifier.Publish(s.message, notify.SeveritySuccess)
	s.form.ClearField(fieldNewEmail)
	email := msg.email
	return tea.Batch(
		loadProfile(s.env),
		func() tea.Msg { return emailChangedMsg{email: email} },
	)
}

func (s *profileScreen) submit() tea.Cmd {
	if s.save.active {
		return nil
	}
	s.message, s.err = "", ""

	if s.form.Focused() == fieldNewEmail {
		email := strings.TrimSpace(s.form.Value(fieldNewEmail))
		if err := api.ValidateEmailUpdate(email); err != nil {
			s.err = api.UserMessage(err, api.MsgEmailMissing)
			return nil
		}
		s.pending = actionEmail
		return tea.Batch(s.save.Start(), updateEmailCmd(s.env, email))
	}

	oldPassword, newPassword := s.form.Value(fieldOldPassword), s.form.Value(fieldNewPassword)
	if err := api.ValidatePasswordChange(oldPassword, newPassword); err != nil {
		s.err = api.UserMessage(err, api.MsgPasswordMissing)
		return nil
	}
	s.pending = actionPassword
	return tea.Batch(s.save.Start(), changePasswordCmd(s.env, oldPassword, newPassword))
}

func (s *profileScreen) View() string {
	t := s.env.theme

	var b strings.Builder
	b.WriteString(t.Title.Render("Profile"))
	b.WriteString("\n")

	if busy := s.load.View("Loading profile..."); busy != "" {
		b.WriteString(busy + "\n")
	}

	if s.profile != nil {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
			t.Avatar.Render(model.Initials(s.profile.Email)),
			t.Bold.Render(s.profile.Email)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			t.Label.Render("Account Number"), t.Normal.Render(s.profile.AccountNumber)))
		b.WriteString("\n\n")
	}

	b.WriteString(t.Subtitle.Render("Update Email / Change Password"))
	b.WriteString("\n")
	b.WriteString(s.form.View(t))
	if busy := s.save.View(s.savingLabel()); busy != "" {
		b.WriteString("\n" + busy + "\n")
	}
	if fb := feedback(t, s.message, s.err); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	return b.String()
}

func (s *profileScreen) savingLabel() string {
	if s.pending == actionPassword {
		return "Changing password..."
	}
	return "Saving email..."
}
