package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	AccentColor    = lipgloss.Color("#F59E0B") // Amber

	// Outcome colors
	ProfitColor  = lipgloss.Color("#10B981") // Green
	LossColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	// Background colors
	BackgroundColor  = lipgloss.Color("#1F2937")
	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#7C3AED")

	// Text colors
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#374151"))
)

// Text styles
var (
	ProfitStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ProfitColor)

	LossStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(LossColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	PhaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	// Chat transcript roles
	StudentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	SupplierStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)
)

// Input styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(FocusBorderColor).
				Bold(true)

	OptionStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedOptionStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#374151")).
				Padding(0, 1)

	SubmitStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	FocusedSubmitStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor).
				Bold(true).
				Padding(0, 1)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Background(BackgroundColor).
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor)
)

// RenderTitle renders a panel title bar.
func RenderTitle(title string, focused bool) string {
	style := TitleStyle
	if focused {
		style = style.Foreground(FocusBorderColor)
	}
	return style.Render(title)
}

// Money formats a monetary amount with a sign-aware color.
func Money(v float64) string {
	s := fmt.Sprintf("$%.2f", v)
	if v < 0 {
		return LossStyle.Render(s)
	}
	return ProfitStyle.Render(s)
}
