// Package client assembles the local side of pricebook: persisted state, the
// optional remote configuration, and the catalog engine.
package client

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kiwari-pos/pricebook/internal/catalog"
	"github.com/kiwari-pos/pricebook/internal/ingest"
	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/remote"
	"github.com/kiwari-pos/pricebook/internal/store"
	"github.com/kiwari-pos/pricebook/internal/theme"
)

// DefaultFetchTimeout bounds the remote configuration fetch at startup.
const DefaultFetchTimeout = 3 * time.Second

type Options struct {
	// CatalogPath is a .csv, .yaml, .yml, or .json catalog file.
	CatalogPath string
	// StateDir holds the Pebble state store. Empty keeps state in memory.
	StateDir string
	// Sources are tried in order for a remote configuration document.
	Sources      []remote.Source
	FetchTimeout time.Duration
}

// Session is a bootstrapped client. Like the engine it wraps, it is not safe
// for concurrent use.
type Session struct {
	kv      store.KV
	configs *store.ConfigStore
	engine  *catalog.Engine
	cfg     pricing.Config
	theme   string
	opts    Options
}

// Bootstrap opens local state, loads the stored configuration, applies a
// remote document if one arrives within the fetch timeout, and only then
// builds the engine over the catalog.
func Bootstrap(ctx context.Context, opts Options) (*Session, error) {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}

	kv, err := store.Open(ctx, "", opts.StateDir)
	if err != nil {
		return nil, err
	}
	s := &Session{kv: kv, configs: store.NewConfigStore(kv), opts: opts}
	s.cfg = s.configs.Load(ctx)
	s.theme = s.configs.Theme(ctx)

	if len(opts.Sources) > 0 {
		s.Refresh(ctx)
	}

	c, err := ingest.Load(opts.CatalogPath)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s.engine = catalog.NewEngine(c)
	return s, nil
}

// Refresh fetches the remote configuration and, on success, applies it. It
// reports whether a document was applied.
func (s *Session) Refresh(ctx context.Context) bool {
	res := s.Fetch(ctx)
	if !res.OK() {
		return false
	}
	s.ApplyPatch(ctx, res.Patch)
	return true
}

// Fetch tries the remote sources within the fetch timeout. It reads no
// session state beyond the options, so it may run off the UI loop.
func (s *Session) Fetch(ctx context.Context) remote.Result {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	res, attempts := remote.TryInOrder(ctx, s.opts.Sources...)
	if !res.OK() {
		for _, a := range attempts {
			log.Printf("WARN: remote config %s: %v", a.Source, a.Err)
		}
	}
	return res
}

// ApplyPatch merges p over the current configuration, persists the result,
// and applies the patch's theme if it names one.
func (s *Session) ApplyPatch(ctx context.Context, p pricing.Patch) {
	s.cfg = p.Apply(s.cfg)
	if err := s.configs.Save(ctx, s.cfg); err != nil {
		log.Printf("WARN: persist remote config: %v", err)
	}
	if p.Theme != "" {
		if _, err := s.SetTheme(ctx, p.Theme); err != nil {
			log.Printf("WARN: persist remote theme: %v", err)
		}
	}
}

// Render prices and ranks one collection against query.
func (s *Session) Render(collection, query string) ([]catalog.Match, error) {
	return s.engine.Render(collection, query, s.cfg)
}

func (s *Session) Collections() []string { return s.engine.Collections() }

func (s *Session) Config() pricing.Config { return s.cfg.Clone() }

func (s *Session) Theme() string { return s.theme }

// SaveConfig persists cfg and makes it current. The next Render uses it.
func (s *Session) SaveConfig(ctx context.Context, cfg pricing.Config) error {
	if err := s.configs.Save(ctx, cfg); err != nil {
		return err
	}
	s.cfg = cfg.Clone()
	return nil
}

// ResetConfig discards the stored configuration in favour of the defaults.
func (s *Session) ResetConfig(ctx context.Context) error {
	cfg, err := s.configs.Reset(ctx)
	if err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// SetTheme stores a theme, falling back to the default for unknown names,
// and returns the applied name.
func (s *Session) SetTheme(ctx context.Context, name string) (string, error) {
	applied, err := s.configs.SaveTheme(ctx, name)
	if err != nil {
		return theme.Default, err
	}
	s.theme = applied
	return applied, nil
}

// Reload re-reads the catalog file and rebuilds the search corpus.
func (s *Session) Reload() error {
	c, err := ingest.Load(s.opts.CatalogPath)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	s.engine.Reload(c)
	return nil
}

// Export renders the current configuration document with the theme.
func (s *Session) Export() ([]byte, error) {
	return pricing.EncodeConfig(s.cfg, s.theme)
}

func (s *Session) Close() error {
	return s.kv.Close()
}
