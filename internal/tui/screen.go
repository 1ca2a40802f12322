package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/stackbank/internal/api"
	"github.com/Veraticus/stackbank/internal/nav"
	"github.com/Veraticus/stackbank/internal/notify"
	"github.com/Veraticus/stackbank/internal/tui/themes"
)

// screen is one mounted route.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// env is what a screen mount receives. It is copied per mount so the visit
// id is fixed for the lifetime of the screen.
type env struct {
	ctx       context.Context
	backend   Backend
	notifier  notify.Publisher
	navigator nav.Navigator
	now       func() time.Time
	theme     themes.Theme
	keys      KeyMap
	exportDir string
	visit     uint64
	animate   bool
}

func (e env) tag() visitTag {
	return visitTag{visit: e.visit}
}

// silent reports errors that need no feedback on the screen: a 401 has
// already redirected to the entry route and a cancelled context means the
// program is exiting.
func silent(err error) bool {
	return errors.Is(err, api.ErrUnauthorized) || errors.Is(err, context.Canceled)
}

// loader tracks an in-flight request and renders its spinner. While active
// it doubles as the submit guard.
type loader struct {
	spinner spinner.Model
	active  bool
	animate bool
}

func newLoader(e env) loader {
	return loader{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(e.theme.Primary)),
		),
		animate: e.animate,
	}
}

func (l *loader) Start() tea.Cmd {
	l.active = true
	if !l.animate {
		return nil
	}
	return l.spinner.Tick
}

func (l *loader) Stop() {
	l.active = false
}

func (l *loader) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok || !l.active || !l.animate {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

func (l loader) View(label string) string {
	if !l.active {
		return ""
	}
	if l.animate {
		return l.spinner.View() + " " + label
	}
	return label
}

// field describes one text input of a form.
type field struct {
	label       string
	placeholder string
	secret      bool
}

// form is an ordered group of text inputs with a single focused field.
type form struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

func newForm(fields ...field) form {
	f := form{
		inputs: make([]textinput.Model, 0, len(fields)),
		labels: make([]string, 0, len(fields)),
	}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fd.placeholder
		ti.CharLimit = 256
		ti.Width = 32
		ti.Cursor.SetMode(cursor.CursorStatic)
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, ti)
		f.labels = append(f.labels, fd.label)
	}
	f.SetFocus(0)
	return f
}

// SetFocus focuses field i and blurs the others.
func (f *form) SetFocus(i int) {
	if len(f.inputs) == 0 {
		return
	}
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// Focused returns the index of the focused field.
func (f form) Focused() int {
	return f.focus
}

// HandleKey moves focus between fields. It reports whether msg was used.
func (f *form) HandleKey(keys KeyMap, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, keys.NextField), key.Matches(msg, keys.Down):
		f.SetFocus(f.focus + 1)
		return true
	case key.Matches(msg, keys.PrevField), key.Matches(msg, keys.Up):
		f.SetFocus(f.focus - 1)
		return true
	}
	return false
}

// Update forwards msg to the focused field.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// Value returns the text of field i.
func (f form) Value(i int) string {
	return f.inputs[i].Value()
}

// ClearField empties field i.
func (f *form) ClearField(i int) {
	f.inputs[i].Reset()
}

// Reset empties every field and focuses the first one.
func (f *form) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.SetFocus(0)
}

func (f form) View(theme themes.Theme) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := theme.Label.Render(f.labels[i])
		if i == f.focus {
			label = theme.Label.Foreground(theme.Primary).Render(f.labels[i])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, in.View()))
		b.WriteString("\n")
	}
	return b.String()
}

// feedback renders the inline message and error of a screen.
func feedback(theme themes.Theme, message, errText string) string {
	var lines []string
	if message != "" {
		lines = append(lines, theme.InlineOK.Render(message))
	}
	if errText != "" {
		lines = append(lines, theme.InlineError.Render(errText))
	}
	return strings.Join(lines, "\n")
}
