package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[string]palette{
	"dark": {
		primary:   "#6C63FF",
		secondary: "#2EC4B6",
		accent:    "#FF6B6B",
		muted:     "#666666",
		success:   "#2ECC71",
		warning:   "#F39C12",
		err:       "#E74C3C",
		fg:        "#C0CAF5",
		subtle:    "#414868",
		highlight: "#7AA2F7",
	},
	"light": {
		primary:   "#4B44D6",
		secondary: "#138A80",
		accent:    "#D64545",
		muted:     "#8A8A8A",
		success:   "#1E8E4E",
		warning:   "#B8740A",
		err:       "#B83227",
		fg:        "#24283B",
		subtle:    "#C8CCD8",
		highlight: "#2E5FD1",
	},
}

// Color palette
var (
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	bigNumberStyle    lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

var currentTheme string

func init() {
	applyTheme("dark")
}

// applyTheme rebuilds every style from the named palette. Unknown names
// fall back to dark.
func applyTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		name, p = "dark", palettes["dark"]
	}
	currentTheme = name

	colorPrimary = p.primary
	colorSecondary = p.secondary
	colorAccent = p.accent
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	// Tabs
	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	bigNumberStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary)

	// Text
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	accentStyle = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(colorFg)
}
