package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/kiwari-pos/pricebook/internal/catalog"
	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/remote"
)

type fakeBackend struct {
	engine    *catalog.Engine
	cfg       pricing.Config
	theme     string
	reloadErr error
	next      catalog.Catalog
	fetch     remote.Result
	applied   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		engine: catalog.NewEngine(catalog.Catalog{Collections: []catalog.Collection{
			{Name: "Phones", Items: []catalog.Item{
				{ID: "1", Name: "iPhone 15 Pro", BasePrice: 1000},
				{ID: "2", Name: "Pixel 8", BasePrice: 80},
			}},
			{Name: "Tablets", Items: []catalog.Item{
				{ID: "3", Name: "iPad Air", BasePrice: 500},
			}},
		}}),
		cfg:   pricing.DefaultConfig(),
		theme: "midnight-glass",
	}
}

func (f *fakeBackend) Render(collection, query string) ([]catalog.Match, error) {
	return f.engine.Render(collection, query, f.cfg)
}

func (f *fakeBackend) Collections() []string { return f.engine.Collections() }

func (f *fakeBackend) Theme() string { return f.theme }

func (f *fakeBackend) Reload() error {
	if f.reloadErr != nil {
		return f.reloadErr
	}
	f.engine.Reload(f.next)
	return nil
}

func (f *fakeBackend) Fetch(context.Context) remote.Result { return f.fetch }

func (f *fakeBackend) ApplyPatch(_ context.Context, p pricing.Patch) {
	f.applied++
	f.cfg = p.Apply(f.cfg)
	if p.Theme != "" {
		f.theme = p.Theme
	}
}

func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNewRendersFirstCollection(t *testing.T) {
	m := New(newFakeBackend())
	if len(m.matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(m.matches))
	}
	if m.matches[0].ID != "1" {
		t.Errorf("first match = %q, want 1", m.matches[0].ID)
	}
}

func TestTypingFiltersEveryKeystroke(t *testing.T) {
	var tm tea.Model = New(newFakeBackend())
	tm = typeText(tm, "pix")

	m := tm.(Model)
	if len(m.matches) != 1 || m.matches[0].ID != "2" {
		t.Errorf("matches = %+v, want only Pixel", m.matches)
	}
	if !strings.Contains(m.View(), "Pixel 8") {
		t.Error("view should list Pixel 8")
	}
}

func TestTabSwitchesCollection(t *testing.T) {
	var tm tea.Model = New(newFakeBackend())
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyTab})

	m := tm.(Model)
	if m.activeCollection() != "Tablets" {
		t.Fatalf("active = %q, want Tablets", m.activeCollection())
	}
	if len(m.matches) != 1 || m.matches[0].ID != "3" {
		t.Errorf("matches = %+v", m.matches)
	}

	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := tm.(Model).activeCollection(); got != "Phones" {
		t.Errorf("active = %q, want Phones", got)
	}
}

func TestReloadMsg(t *testing.T) {
	b := newFakeBackend()
	b.next = catalog.Catalog{Collections: []catalog.Collection{
		{Name: "Watches", Items: []catalog.Item{{ID: "w", Name: "Apple Watch", BasePrice: 300}}},
	}}

	var tm tea.Model = New(b)
	tm, _ = tm.Update(ReloadMsg{})

	m := tm.(Model)
	if m.activeCollection() != "Watches" {
		t.Errorf("active = %q, want Watches", m.activeCollection())
	}
	if len(m.matches) != 1 {
		t.Errorf("matches = %d, want 1", len(m.matches))
	}
}

func TestReloadErrorShown(t *testing.T) {
	b := newFakeBackend()
	b.reloadErr = errors.New("bad file")

	var tm tea.Model = New(b)
	tm, _ = tm.Update(ReloadMsg{})

	if !strings.Contains(tm.View(), "bad file") {
		t.Error("view should show reload error")
	}
}

func TestRefreshAppliesRemotePatch(t *testing.T) {
	b := newFakeBackend()
	b.fetch = remote.Result{Source: "host", Patch: pricing.Patch{
		Defaults: map[string]pricing.Rule{"1-100": pricing.PercentRule(decimal.Zero)},
		Theme:    "aurora",
	}}

	var tm tea.Model = New(b)
	tm, cmd := tm.Update(RefreshMsg{})
	if cmd == nil {
		t.Fatal("RefreshMsg should return a fetch command")
	}
	tm, _ = tm.Update(cmd())

	m := tm.(Model)
	if b.applied != 1 {
		t.Errorf("applied = %d, want 1", b.applied)
	}
	if b.theme != "aurora" {
		t.Errorf("theme = %q, want aurora", b.theme)
	}
	// Pixel 8 at 80 is now undiscounted.
	if !m.matches[1].FinalPrice.Equal(decimal.NewFromInt(80)) {
		t.Errorf("pixel price = %s, want 80", m.matches[1].FinalPrice)
	}
}

func TestRefreshFailureKeepsConfig(t *testing.T) {
	b := newFakeBackend()
	b.fetch = remote.Result{Source: "host", Err: errors.New("offline")}

	var tm tea.Model = New(b)
	tm, cmd := tm.Update(RefreshMsg{})
	tm, _ = tm.Update(cmd())

	if b.applied != 0 {
		t.Errorf("applied = %d, want 0", b.applied)
	}
	if !strings.Contains(tm.View(), "remote config unavailable") {
		t.Error("view should report the failed fetch")
	}
}

func TestEscQuits(t *testing.T) {
	tm := New(newFakeBackend())
	_, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}
