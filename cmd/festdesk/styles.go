package main

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan    = lipgloss.Color("#00FFFF")
	colorGreen   = lipgloss.Color("#00FF00")
	colorYellow  = lipgloss.Color("#FFFF00")
	colorMagenta = lipgloss.Color("#FF00FF")
	colorRed     = lipgloss.Color("#FF0000")
	colorGray    = lipgloss.Color("#666666")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	assistantLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)

	transcriptStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorYellow)

	listeningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	thinkingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMagenta)

	speakingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	idleStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	footerKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)
