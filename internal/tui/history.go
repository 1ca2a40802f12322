package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/ledger"
	"github.com/Veraticus/stackbank/internal/notify"
)

const allTypesLabel = "All Types"

// historyScreen lists the full history with search, type filter and CSV
// export of the visible records. The filter starts empty on every mount.
type historyScreen struct {
	vm        *ledger.ViewModel
	err       string
	message   string
	env       env
	search    textinput.Model
	table     table.Model
	load      loader
	loaded    bool
	exporting bool
}

func newHistoryScreen(e env) *historyScreen {
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "type, biller or account"
	search.CharLimit = 128
	search.Width = 32
	search.Cursor.SetMode(cursor.CursorStatic)
	search.Focus()

	return &historyScreen{
		env:    e,
		vm:     ledger.NewViewModel(nil),
		search: search,
		table:  newLedgerTable(e.theme, 12),
		load:   newLoader(e),
	}
}

func (s *historyScreen) Init() tea.Cmd {
	return s.reload()
}

func (s *historyScreen) reload() tea.Cmd {
	if s.load.active {
		return nil
	}
	s.err = ""
	return tea.Batch(s.load.Start(), loadHistory(s.env))
}

func (s *historyScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case historyLoadedMsg:
		s.load.Stop()
		if msg.err != nil {
			if !silent(msg.err) {
				s.err = api.UserMessage(msg.err, api.MsgHistoryLoadFailed)
			}
			return s, nil
		}
		s.loaded = true
		s.vm.SetRecords(msg.records)
		s.refreshRows()
		return s, nil

	case exportResultMsg:
		s.exporting = false
		if msg.err != nil {
			s.err = fmt.Sprintf("Export failed: %v", msg.err)
			s.env.notifier.Publish(s.err, notify.SeverityError)
			return s, nil
		}
		s.message = fmt.Sprintf("%s %d rows written to %s", api.MsgExportSuccess, msg.count, msg.path)
		s.env.notifier.Publish(api.MsgExportSuccess, notify.SeveritySuccess)
		return s, nil
	}

	return s, s.load.Update(msg)
}

func (s *historyScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.env.keys
	switch {
	case key.Matches(msg, keys.Refresh):
		return s.reload()
	case key.Matches(msg, keys.CycleType):
		s.vm.CycleType()
		s.refreshRows()
		return nil
	case key.Matches(msg, keys.ClearFilter):
		s.vm.Reset()
		s.search.Reset()
		s.refreshRows()
		return nil
	case key.Matches(msg, keys.Export):
		return s.export()
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != s.vm.Filter().Search {
		s.vm.SetSearch(s.search.Value())
		s.refreshRows()
	}
	return cmd
}

func (s *historyScreen) export() tea.Cmd {
	if s.exporting || !s.vm.CanExport() {
		return nil
	}
	s.exporting = true
	s.message, s.err = "", ""
	return exportCmd(s.env, s.vm.Visible())
}

func (s *historyScreen) refreshRows() {
	s.table.SetRows(ledgerRows(s.vm.Visible()))
	s.table.GotoTop()
}

func (s *historyScreen) View() string {
	t := s.env.theme

	typeLabel := allTypesLabel
	if f := s.vm.Filter(); f.Type != "" {
		typeLabel = string(f.Type)
	}

	exportHint := t.Disabled.Render("Export CSV")
	if s.vm.CanExport() {
		exportHint = t.Help.Render(s.env.keys.Export.Help().Key + " export CSV")
	}

	var b strings.Builder
	b.WriteString(t.Title.Render("Transaction History"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Label.Render("Search"), s.search.View()))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, t.Label.Render("Type"), t.Normal.Render(typeLabel)))
	b.WriteString("   ")
	b.WriteString(exportHint)
	b.WriteString("\n\n")

	switch {
	case s.load.active && !s.loaded:
		b.WriteString(s.load.View("Loading history...") + "\n")
	case len(s.vm.Visible()) == 0 && s.loaded:
		b.WriteString(t.Help.Render("No transactions found.") + "\n")
	case s.loaded:
		b.WriteString(s.table.View() + "\n")
	}

	if fb := feedback(t, s.message, s.err); fb != "" {
		b.WriteString("\n" + fb + "\n")
	}
	return b.String()
}
