package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/aletheia/internal/model"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorHigh      = lipgloss.Color("78")  // Green
	colorMedium    = lipgloss.Color("214") // Amber
	colorLow       = lipgloss.Color("196") // Red
)

// TitleStyle for the application banner.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 2)

// TaglineStyle for the line under the banner.
var TaglineStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Italic(true)

// InputBox frames the query input.
var InputBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// ModeActive and ModeInactive style the mode toggle.
var (
	ModeActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(colorHighlight).
			Padding(0, 1)

	ModeInactive = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Padding(0, 1)
)

// SectionHeader style for report and landing section titles.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1)

// SelectedItem style for the highlighted trending article.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236"))

// MutedText for secondary information.
var MutedText = lipgloss.NewStyle().
	Foreground(colorMuted)

// BodyText for paragraphs in the report.
var BodyText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// WarningText for manipulation techniques.
var WarningText = lipgloss.NewStyle().
	Foreground(colorMedium)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorLow).
	Bold(true)

// LoadingTitle for the "preparing report" label.
var LoadingTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// scoreStyle colors a score by band
func scoreStyle(score int) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch model.BandFor(score) {
	case model.BandHigh:
		return s.Foreground(colorHigh)
	case model.BandMedium:
		return s.Foreground(colorMedium)
	default:
		return s.Foreground(colorLow)
	}
}
