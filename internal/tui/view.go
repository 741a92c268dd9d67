package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	priceWidth   = 10
	defaultWidth = 80
	chromeHeight = 6
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("pricebook"))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.err.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	case len(m.matches) == 0:
		b.WriteString(m.styles.muted.Render("no matches"))
		b.WriteString("\n")
	default:
		b.WriteString(m.rows())
	}

	footer := fmt.Sprintf("%d items · tab/shift+tab switch · esc quit", len(m.matches))
	if m.status != "" {
		footer = m.status + " · " + footer
	}
	b.WriteString(m.styles.muted.Render(footer))
	return b.String()
}

func (m Model) tabs() string {
	parts := make([]string, len(m.collections))
	for i, name := range m.collections {
		if i == m.active {
			parts[i] = m.styles.activeTab.Render(name)
		} else {
			parts[i] = m.styles.tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) rows() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	nameWidth := width - priceWidth - 2
	if nameWidth < 10 {
		nameWidth = 10
	}

	limit := len(m.matches)
	if m.height > chromeHeight && limit > m.height-chromeHeight {
		limit = m.height - chromeHeight
	}

	var b strings.Builder
	for _, match := range m.matches[:limit] {
		name := truncate.StringWithTail(match.Name, uint(nameWidth), "…")
		pad := nameWidth - lipgloss.Width(name)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(m.styles.name.Render(name))
		b.WriteString(strings.Repeat(" ", pad+2))
		b.WriteString(m.styles.price.Render(fmt.Sprintf("%*s", priceWidth, "$"+match.FinalPrice.StringFixed(0))))
		b.WriteString("\n")
	}
	return b.String()
}
