package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette, regenerated by SetTheme
var (
	ColorPrimary     color.Color = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary   color.Color = lipgloss.Color("#06B6D4") // Cyan
	ColorText        color.Color = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   color.Color = lipgloss.Color("#9CA3AF") // Muted text
	ColorTextInverse color.Color = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorSuccess     color.Color = lipgloss.Color("#10B981") // Green
	ColorWarning     color.Color = lipgloss.Color("#F59E0B") // Amber
	ColorError       color.Color = lipgloss.Color("#EF4444") // Red
)

// Report styles
var (
	BannerStyle  lipgloss.Style
	HeadingStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	LabelStyle   lipgloss.Style
)

// Status line styles
var (
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

func init() {
	buildStyles()
}

func buildStyles() {
	BannerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	HeadingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSecondary)

	MutedStyle = lipgloss.NewStyle().
		Foreground(ColorTextMuted)

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorText)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorError)
}

// ReportTheme styles the resume report with the active palette.
type ReportTheme struct{}

func (ReportTheme) Banner(s string) string  { return BannerStyle.Render(s) }
func (ReportTheme) Heading(s string) string { return HeadingStyle.Render(s) }
func (ReportTheme) Muted(s string) string   { return MutedStyle.Render(s) }
