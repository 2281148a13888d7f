package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorAccent  = lipgloss.Color("#F2B134")
	ColorSuccess = lipgloss.Color("#43BF6D")
	ColorDanger  = lipgloss.Color("#E5534B")
	ColorMuted   = lipgloss.Color("#8B8B8B")
	ColorBorder  = lipgloss.Color("#5A5A5A")
)

// Base styles
var (
	TitleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(ColorPrimary).Padding(0, 1)
	SubtitleStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	TabStyle            = lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
	ActiveTabStyle      = TabStyle.Bold(true).Foreground(ColorPrimary).Underline(true)
	StatusBarStyle      = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
	StatusKeyStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	BorderStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorBorder).Padding(1, 2)
	MetricLabelStyle    = lipgloss.NewStyle().Foreground(ColorMuted).Width(26)
	MetricValueStyle    = lipgloss.NewStyle().Bold(true)
	MetricPositiveStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	TableHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SelectedRowStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	ErrorStyle          = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
	WarningStyle        = lipgloss.NewStyle().Foreground(ColorAccent)
)
