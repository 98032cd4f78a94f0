package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the quiz and the result tables.
const (
	ColorHeader    = lipgloss.Color("42")
	ColorBorder    = lipgloss.Color("240")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("212")
	ColorOK        = lipgloss.Color("78")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("196")
	ColorSpinner   = lipgloss.Color("69")
)

// Glyphs used in rendered output.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
	IconCursor     = "›"
	IconLeaf       = "🌱"
)

//nolint:gochecknoglobals // Shared render styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle     = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	highlightStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	helpStyle      = lipgloss.NewStyle().Foreground(ColorMuted)
)
