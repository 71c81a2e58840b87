package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the browser.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles holds the Lipgloss styles derived from a theme.
type Styles struct {
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Row       lipgloss.Style
	RowDir    lipgloss.Style
	Selected  lipgloss.Style
	Preview   lipgloss.Style
	Muted     lipgloss.Style
	Faint     lipgloss.Style
	Accent    lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	HelpTitle lipgloss.Style
	HelpKey   lipgloss.Style
	Pane      lipgloss.Style
	PaneFocus lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Row: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		RowDir: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Preview: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Faint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
		HelpTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
		PaneFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)),
	}
}

var themes = []Theme{
	{
		Name:          "Dracula",
		Background:    "#282a36",
		Surface:       "#343746",
		SelectionBg:   "#44475a",
		SelectionText: "#f8f8f2",
		Border:        "#6272a4",
		BorderFocus:   "#bd93f9",
		Text:          "#f8f8f2",
		Muted:         "#6272a4",
		Faint:         "#7b7f8b",
		Accent:        "#bd93f9",
		Success:       "#50fa7b",
		Warning:       "#f1fa8c",
		Danger:        "#ff5555",
	},
	{
		Name:          "Nord",
		Background:    "#2e3440",
		Surface:       "#3b4252",
		SelectionBg:   "#434c5e",
		SelectionText: "#eceff4",
		Border:        "#4c566a",
		BorderFocus:   "#88c0d0",
		Text:          "#e5e9f0",
		Muted:         "#616e88",
		Faint:         "#7b88a1",
		Accent:        "#88c0d0",
		Success:       "#a3be8c",
		Warning:       "#ebcb8b",
		Danger:        "#bf616a",
	},
}

// getTheme returns the theme with the given name, defaulting to the
// first theme when unknown.
func getTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// nextTheme cycles to the theme after the named one.
func nextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
