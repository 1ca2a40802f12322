package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/notify"
)

// paymentKind selects the tab of the transfer screen.
type paymentKind int

const (
	paymentTransfer paymentKind = iota
	paymentBill
)

func (k paymentKind) String() string {
	if k == paymentBill {
		return "Pay Bill"
	}
	return "Transfer"
}

func (k paymentKind) success() string {
	if k == paymentBill {
		return api.MsgBillSuccess
	}
	return api.MsgTransferSuccess
}

func (k paymentKind) fallback() string {
	if k == paymentBill {
		return api.MsgBillFailed
	}
	return api.MsgTransferFailed
}

// transferScreen holds the transfer and bill payment tabs. Outcomes are shown
// inline and published as notifications.
type transferScreen struct {
	message string
	err     string
	env     env
	forms   [2]form
	load    loader
	tab     paymentKind
}

func newTransferScreen(e env) *transferScreen {
	return &transferScreen{
		env: e,
		forms: [2]form{
			paymentTransfer: newForm(
				field{label: "Recipient Account", placeholder: "account number"},
				field{label: "Amount", placeholder: "0.00"},
			),
			paymentBill: newForm(
				field{label: "Biller", placeholder: "e.g. Electric Co"},
				field{label: "Amount", placeholder: "0.00"},
			),
		},
		load: newLoader(e),
	}
}

func (s *transferScreen) Init() tea.Cmd {
	return nil
}

func (s *transferScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.env.keys.Submit):
			return s, s.submit()
		case key.Matches(msg, s.env.keys.SwitchTab):
			s.tab = 1 - s.tab
			s.message, s.err = "", ""
			return s, nil
		}
		f := &s.forms[s.tab]
		if f.HandleKey(s.env.keys, msg) {
			return s, nil
		}
		return s, f.Update(msg)

	case paymentResultMsg:
		s.load.Stop()
		if msg.err != nil {
			if silent(msg.err) {
				return s, nil
			}
			s.err = api.UserMessage(msg.err, msg.kind.fallback())
			s.env.notifier.Publish(s.err, notify.SeverityError)
			return s, nil
		}
		s.message = msg.kind.success()
		s.env.notifier.Publish(s.message, notify.SeveritySuccess)
		s.forms[msg.kind].Reset()
		return s, nil
	}

	return s, s.load.Update(msg)
}

func (s *transferScreen) submit() tea.Cmd {
	if s.load.active {
		return nil
	}
	s.message, s.err = "", ""

	f := s.forms[s.tab]
	target, amount := strings.TrimSpace(f.Value(0)), strings.TrimSpace(f.Value(1))
	if _, err := api.ParseAmount(target, amount); err != nil {
		s.err = api.UserMessage(err, api.MsgFillAllFields)
		return nil
	}
	return tea.Batch(s.load.Start(), paymentCmd(s.env, s.tab, target, amount))
}

func (s *transferScreen) View() string {
	t := s.env.theme

	tabs := make([]string, 0, 2)
	for _, k := range []paymentKind{paymentTransfer, paymentBill} {
		style := t.Tab
		if k == s.tab {
			style = t.TabActive
		}
		tabs = append(tabs, style.Render(k.String()))
	}

	var b strings.Builder
	b.WriteString(t.Title.Render("Transfer & Payments"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))
	b.WriteString("\n\n")
	b.WriteString(s.forms[s.tab].View(t))
	if busy := s.load.View("Sending..."); busy != "" {
		b.WriteString("\n" + busy + "\n")
	}
	if fb := feedback(t, s.message, s.err); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	return b.String()
}
