package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/theme"
)

// Keys under which the configuration document and theme are stored.
const (
	ConfigKey = "engineConfigV1"
	ThemeKey  = "uiThemeV1"
)

// ConfigStore loads and saves the pricing configuration and theme choice.
// Load never fails: a missing or unreadable document yields defaults.
type ConfigStore struct {
	kv KV
}

func NewConfigStore(kv KV) *ConfigStore {
	return &ConfigStore{kv: kv}
}

// Load returns the stored configuration, or the compiled-in defaults when
// nothing usable is stored.
func (s *ConfigStore) Load(ctx context.Context) pricing.Config {
	data, err := s.kv.Get(ctx, ConfigKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("WARN: load config: %v", err)
		}
		return pricing.DefaultConfig()
	}
	return pricing.DecodeConfig(data)
}

// Save stores cfg as the current configuration.
func (s *ConfigStore) Save(ctx context.Context, cfg pricing.Config) error {
	data, err := pricing.EncodeConfig(cfg, "")
	if err != nil {
		return err
	}
	if err := s.kv.Put(ctx, ConfigKey, data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Reset removes the stored configuration and returns the defaults that now
// apply.
func (s *ConfigStore) Reset(ctx context.Context) (pricing.Config, error) {
	if err := s.kv.Delete(ctx, ConfigKey); err != nil {
		return pricing.Config{}, fmt.Errorf("reset config: %w", err)
	}
	return pricing.DefaultConfig(), nil
}

// Theme returns the stored theme name, or theme.Default.
func (s *ConfigStore) Theme(ctx context.Context) string {
	data, err := s.kv.Get(ctx, ThemeKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("WARN: load theme: %v", err)
		}
		return theme.Default
	}
	return theme.Resolve(string(data))
}

// SaveTheme stores name, replacing unknown names with theme.Default. It
// returns the name actually stored.
func (s *ConfigStore) SaveTheme(ctx context.Context, name string) (string, error) {
	resolved := theme.Resolve(name)
	if err := s.kv.Put(ctx, ThemeKey, []byte(resolved)); err != nil {
		return "", fmt.Errorf("save theme: %w", err)
	}
	return resolved, nil
}

// Document renders the current configuration with the theme, as served to
// clients.
func (s *ConfigStore) Document(ctx context.Context) ([]byte, error) {
	return pricing.EncodeConfig(s.Load(ctx), s.Theme(ctx))
}
