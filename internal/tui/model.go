// Package tui is the terminal catalog browser. Every keystroke re-renders the
// active collection against the current query.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kiwari-pos/pricebook/internal/catalog"
	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/remote"
)

// Backend is the part of a client session the browser drives.
// Satisfied by *client.Session; narrow interface for testability.
type Backend interface {
	Render(collection, query string) ([]catalog.Match, error)
	Collections() []string
	Theme() string
	Reload() error
	Fetch(ctx context.Context) remote.Result
	ApplyPatch(ctx context.Context, p pricing.Patch)
}

// ReloadMsg asks the browser to re-read the catalog file.
type ReloadMsg struct{}

// RefreshMsg asks the browser to fetch the remote configuration.
type RefreshMsg struct{}

// remoteMsg carries a finished fetch back to the update loop.
type remoteMsg struct {
	result remote.Result
}

type Model struct {
	backend     Backend
	input       textinput.Model
	collections []string
	active      int
	matches     []catalog.Match
	status      string
	err         error
	width       int
	height      int
	styles      styles
}

func New(b Backend) Model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "› "
	ti.CharLimit = 120
	ti.Focus()

	m := Model{
		backend:     b,
		input:       ti,
		collections: b.Collections(),
		styles:      stylesFor(b.Theme()),
	}
	m.render()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.switchCollection(1)
			return m, nil
		case tea.KeyShiftTab:
			m.switchCollection(-1)
			return m, nil
		}

	case ReloadMsg:
		if err := m.backend.Reload(); err != nil {
			m.status = ""
			m.err = err
			return m, nil
		}
		m.collections = m.backend.Collections()
		if m.active >= len(m.collections) {
			m.active = 0
		}
		m.status = "catalog reloaded"
		m.render()
		return m, nil

	case RefreshMsg:
		b := m.backend
		return m, func() tea.Msg {
			return remoteMsg{result: b.Fetch(context.Background())}
		}

	case remoteMsg:
		if !msg.result.OK() {
			m.status = "remote config unavailable"
			return m, nil
		}
		m.backend.ApplyPatch(context.Background(), msg.result.Patch)
		m.styles = stylesFor(m.backend.Theme())
		m.status = "config updated from " + msg.result.Source
		m.render()
		return m, nil
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.render()
	}
	return m, cmd
}

func (m *Model) switchCollection(step int) {
	if len(m.collections) == 0 {
		return
	}
	m.active = (m.active + step + len(m.collections)) % len(m.collections)
	m.render()
}

func (m Model) activeCollection() string {
	if len(m.collections) == 0 {
		return ""
	}
	return m.collections[m.active]
}

// render recomputes matches for the active collection and query.
func (m *Model) render() {
	name := m.activeCollection()
	if name == "" {
		m.matches = nil
		return
	}
	matches, err := m.backend.Render(name, m.input.Value())
	m.matches, m.err = matches, err
}
