package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a colour palette. Every field is a lipgloss colour string.
type Theme struct {
	Name string

	Background string // behind modals
	Surface    string // header and footer bars
	Raised     string // grabbed card

	Selection     string
	SelectionText string
	Border        string
	BorderFocus   string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles is the set of lipgloss styles the views draw with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Logo    lipgloss.Style
	KeyHint lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardGrabbed  lipgloss.Style

	Modal       lipgloss.Style
	DangerModal lipgloss.Style

	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
}

const labelWidth = 18

// Styles builds the styles for t.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	card := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	modal := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Logo:    fg(t.Accent).Bold(true),
		KeyHint: fg(t.Warning),

		Card: card.BorderForeground(lipgloss.Color(t.Border)),
		CardSelected: card.
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Background(lipgloss.Color(t.Selection)).
			Foreground(lipgloss.Color(t.SelectionText)),
		CardGrabbed: card.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(t.Warning)).
			Background(lipgloss.Color(t.Raised)).
			Foreground(lipgloss.Color(t.Text)),

		Modal:       modal.BorderForeground(lipgloss.Color(t.Accent)),
		DangerModal: modal.BorderForeground(lipgloss.Color(t.Danger)),

		Label:        fg(t.Muted).Width(labelWidth),
		FocusedLabel: fg(t.Accent).Bold(true).Width(labelWidth),
	}
}

// LevelStyle picks the style for a zap level name in the log view.
func (s Styles) LevelStyle(level string) lipgloss.Style {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return s.DangerText
	case "WARN":
		return s.WarningText
	case "INFO":
		return s.SuccessText
	case "DEBUG":
		return s.InfoText
	}
	return s.MutedText
}

var themeList = []Theme{
	{
		// Catppuccin Mocha
		Name:          "Mocha",
		Background:    "#11111b",
		Surface:       "#181825",
		Raised:        "#313244",
		Selection:     "#45475a",
		SelectionText: "#cdd6f4",
		Border:        "#585b70",
		BorderFocus:   "#89b4fa",
		Text:          "#cdd6f4",
		Muted:         "#a6adc8",
		Faint:         "#6c7086",
		Accent:        "#cba6f7",
		Success:       "#a6e3a1",
		Warning:       "#f9e2af",
		Danger:        "#f38ba8",
		Info:          "#94e2d5",
	},
	{
		Name:          "Gruvbox",
		Background:    "#1d2021",
		Surface:       "#282828",
		Raised:        "#3c3836",
		Selection:     "#504945",
		SelectionText: "#fbf1c7",
		Border:        "#665c54",
		BorderFocus:   "#83a598",
		Text:          "#ebdbb2",
		Muted:         "#a89984",
		Faint:         "#928374",
		Accent:        "#fe8019",
		Success:       "#b8bb26",
		Warning:       "#fabd2f",
		Danger:        "#fb4934",
		Info:          "#8ec07c",
	},
	{
		// Solarized light, for judging photos on a bright background.
		Name:          "Paper",
		Background:    "#fdf6e3",
		Surface:       "#eee8d5",
		Raised:        "#eee8d5",
		Selection:     "#93a1a1",
		SelectionText: "#002b36",
		Border:        "#93a1a1",
		BorderFocus:   "#268bd2",
		Text:          "#586e75",
		Muted:         "#657b83",
		Faint:         "#839496",
		Accent:        "#268bd2",
		Success:       "#859900",
		Warning:       "#b58900",
		Danger:        "#dc322f",
		Info:          "#2aa198",
	},
}

// GetTheme returns the named theme, or the first one when name is unknown.
func GetTheme(name string) Theme {
	for _, t := range themeList {
		if t.Name == name {
			return t
		}
	}
	return themeList[0]
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current string) string {
	for i, t := range themeList {
		if t.Name == current {
			return themeList[(i+1)%len(themeList)].Name
		}
	}
	return themeList[0].Name
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themeList))
	for i, t := range themeList {
		names[i] = t.Name
	}
	return names
}
