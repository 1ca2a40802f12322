package themes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Label       lipgloss.Style
	Amount      lipgloss.Style
	Help        lipgloss.Style
	NavItem     lipgloss.Style
	NavActive   lipgloss.Style
	Avatar      lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Box         lipgloss.Style
	InlineError lipgloss.Style
	InlineOK    lipgloss.Style
	ToastInfo   lipgloss.Style
	ToastOK     lipgloss.Style
	ToastError  lipgloss.Style
	Disabled    lipgloss.Style
	Primary     lipgloss.Color
	Muted       lipgloss.Color
	Border      lipgloss.Color
	Foreground  lipgloss.Color
	Error       lipgloss.Color
	Success     lipgloss.Color
	Info        lipgloss.Color
}

func build(primary, muted, border, fg, errColor, success, info lipgloss.Color) Theme {
	toast := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	return Theme{
		Primary:    primary,
		Muted:      muted,
		Border:     border,
		Foreground: fg,
		Error:      errColor,
		Success:    success,
		Info:       info,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1),
		Normal: lipgloss.NewStyle().
			Foreground(fg),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg),
		Label: lipgloss.NewStyle().
			Foreground(muted).
			Width(18),
		Amount: lipgloss.NewStyle().
			Bold(true).
			Foreground(success),
		Help: lipgloss.NewStyle().
			Foreground(muted),

		NavItem: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		NavActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(primary).
			Padding(0, 1),
		Avatar: lipgloss.NewStyle().
			Bold(true).
			Foreground(fg).
			Background(primary).
			Padding(0, 1).
			MarginRight(1),

		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(border),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Padding(0, 2).
			Border(lipgloss.ThickBorder(), false, false, true, false).
			BorderForeground(primary),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),

		InlineError: lipgloss.NewStyle().
			Foreground(errColor),
		InlineOK: lipgloss.NewStyle().
			Foreground(success),

		ToastInfo:  toast.BorderForeground(info).Foreground(info),
		ToastOK:    toast.BorderForeground(success).Foreground(success),
		ToastError: toast.BorderForeground(errColor).Foreground(errColor),

		Disabled: lipgloss.NewStyle().
			Foreground(muted).
			Strikethrough(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#2563eb"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#3b82f6"),
)

// CatppuccinMocha is based on the Catppuccin Mocha palette.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#89b4fa"),
)

// Names lists the selectable theme names.
var Names = []string{"default", "catppuccin"}

// ByName returns a theme by name, falling back to Default.
func ByName(name string) Theme {
	switch strings.ToLower(name) {
	case "catppuccin", "mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
