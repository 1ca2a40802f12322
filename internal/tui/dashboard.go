package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/model"
	"github.com/Veraticus/stackbank/internal/tui/themes"
)

// dashboardScreen shows the account summary. It loads on every mount.
type dashboardScreen struct {
	summary *api.AccountSummary
	err     string
	env     env
	table   table.Model
	load    loader
}

func newDashboardScreen(e env) *dashboardScreen {
	return &dashboardScreen{
		env:   e,
		table: newLedgerTable(e.theme, 8),
		load:  newLoader(e),
	}
}

func (s *dashboardScreen) Init() tea.Cmd {
	return s.reload()
}

func (s *dashboardScreen) reload() tea.Cmd {
	if s.load.active {
		return nil
	}
	s.err = ""
	return tea.Batch(s.load.Start(), loadAccount(s.env))
}

func (s *dashboardScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, s.env.keys.Refresh) {
			return s, s.reload()
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd

	case accountLoadedMsg:
		s.load.Stop()
		if msg.err != nil {
			if !silent(msg.err) {
				s.err = api.UserMessage(msg.err, api.MsgAccountLoadFailed)
			}
			return s, nil
		}
		s.summary = msg.summary
		s.table.SetRows(ledgerRows(msg.summary.Transactions))
		return s, nil
	}

	return s, s.load.Update(msg)
}

func (s *dashboardScreen) View() string {
	t := s.env.theme

	var b strings.Builder
	b.WriteString(t.Title.Render("Dashboard"))
	b.WriteString("\n")

	if busy := s.load.View("Loading account..."); busy != "" && s.summary == nil {
		b.WriteString(busy + "\n")
	}
	if s.err != "" {
		b.WriteString(feedback(t, "", s.err) + "\n")
	}

	if s.summary != nil {
		acct := s.summary.Account
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			t.Label.Render("Account Number"), t.Bold.Render(acct.AccountNumber)))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			t.Label.Render("Balance"), t.Amount.Render(money(acct.Balance.StringFixed(2)))))
		b.WriteString("\n\n")
		b.WriteString(t.Subtitle.Render("Recent Transactions"))
		b.WriteString("\n")
		if len(s.summary.Transactions) == 0 {
			b.WriteString(t.Help.Render("No recent transactions."))
		} else {
			b.WriteString(s.table.View())
		}
	}

	return b.String()
}

func money(amount string) string {
	if strings.HasPrefix(amount, "-") {
		return "-$" + strings.TrimPrefix(amount, "-")
	}
	return "$" + amount
}

// newLedgerTable builds the transaction table shared by the dashboard and
// history screens.
func newLedgerTable(theme themes.Theme, height int) table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(theme.Foreground).
		Background(theme.Primary)

	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Type", Width: 14},
			{Title: "Amount", Width: 12},
			{Title: "Date", Width: 12},
			{Title: "Details", Width: 24},
		}),
		table.WithHeight(height),
		table.WithWidth(72),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
}

func ledgerRows(records []model.TransactionRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			string(r.Type),
			money(r.Amount.StringFixed(2)),
			r.Date,
			r.Counterparty(),
		})
	}
	return rows
}
