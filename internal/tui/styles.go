package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kiwari-pos/pricebook/internal/theme"
)

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	name      lipgloss.Style
	price     lipgloss.Style
	muted     lipgloss.Style
	err       lipgloss.Style
}

func stylesFor(name string) styles {
	p := theme.PaletteFor(name)
	accent := lipgloss.Color(p.Accent)
	text := lipgloss.Color(p.Text)
	muted := lipgloss.Color(p.Muted)

	return styles{
		title:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		tab:       lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		activeTab: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Background)).Background(accent).Bold(true).Padding(0, 1),
		name:      lipgloss.NewStyle().Foreground(text),
		price:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")),
	}
}
