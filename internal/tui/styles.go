package tui

import (
	"chanakya/internal/render"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title           lipgloss.Style
	statusText      lipgloss.Style
	dotReady        lipgloss.Style
	dotListening    lipgloss.Style
	avatarIdle      lipgloss.Style
	avatarActive    lipgloss.Style
	button          lipgloss.Style
	buttonListening lipgloss.Style
	waves           lipgloss.Style
	responseBox     lipgloss.Style
	greeting        lipgloss.Style
	command         lipgloss.Style
	response        lipgloss.Style
	help            lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("#7c5cff")
	live := lipgloss.Color("#ff4d6d")
	ready := lipgloss.Color("#2ecc71")
	muted := lipgloss.Color("#8a8fb5")

	return styles{
		title:        lipgloss.NewStyle().Bold(true).Foreground(accent),
		statusText:   lipgloss.NewStyle().Foreground(muted),
		dotReady:     lipgloss.NewStyle().Foreground(ready),
		dotListening: lipgloss.NewStyle().Foreground(live).Bold(true),
		avatarIdle:   lipgloss.NewStyle().Foreground(accent).Padding(0, 1),
		avatarActive: lipgloss.NewStyle().Foreground(live).Bold(true).Padding(0, 1),
		button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(accent).
			Padding(0, 2),
		buttonListening: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(live).
			Padding(0, 2),
		waves: lipgloss.NewStyle().Foreground(live),
		responseBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginTop(1),
		greeting: lipgloss.NewStyle().Italic(true).Foreground(muted),
		command:  lipgloss.NewStyle().Foreground(muted),
		response: lipgloss.NewStyle().Bold(true),
		help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}

func (s styles) avatar(listening bool) lipgloss.Style {
	if listening {
		return s.avatarActive
	}
	return s.avatarIdle
}

func (s styles) line(class string) lipgloss.Style {
	switch class {
	case render.ClassGreeting:
		return s.greeting
	case render.ClassCommand:
		return s.command
	default:
		return s.response
	}
}
