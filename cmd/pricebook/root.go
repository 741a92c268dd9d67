package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiwari-pos/pricebook/internal/client"
	"github.com/kiwari-pos/pricebook/internal/config"
	"github.com/kiwari-pos/pricebook/internal/remote"
	"github.com/kiwari-pos/pricebook/internal/store"
)

// newRootCmd builds the command tree. Every setting can come from a flag or
// the matching environment variable (CATALOG_PATH, STATE_DIR, CONFIG_URL, ...).
func newRootCmd() *cobra.Command {
	v := config.New()
	if v.GetString("state_dir") == "" {
		v.SetDefault("state_dir", defaultStateDir())
	}

	root := &cobra.Command{
		Use:   "pricebook",
		Short: "Search and price a device catalog",
		Long: `pricebook loads a catalog of devices grouped into collections, prices
every item through the configured buckets and discount rules, and ranks
matches for a fuzzy query.

The pricing configuration is kept in a local state directory and can be
refreshed from a remote document at startup.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("catalog", v.GetString("catalog_path"), "catalog file (.csv, .yaml, .yml, .json)")
	flags.String("state-dir", v.GetString("state_dir"), "directory holding saved configuration")
	flags.String("config-url", v.GetString("config_url"), "remote configuration document")
	flags.String("config-fallback-url", v.GetString("config_fallback_url"), "fallback remote configuration document")
	flags.Duration("config-timeout", v.GetDuration("config_timeout"), "time allowed for the remote fetch")
	flags.String("build-id", v.GetString("build_id"), "cache-busting build identifier sent to the remote")

	v.BindPFlag("catalog_path", flags.Lookup("catalog"))
	v.BindPFlag("state_dir", flags.Lookup("state-dir"))
	v.BindPFlag("config_url", flags.Lookup("config-url"))
	v.BindPFlag("config_fallback_url", flags.Lookup("config-fallback-url"))
	v.BindPFlag("config_timeout", flags.Lookup("config-timeout"))
	v.BindPFlag("build_id", flags.Lookup("build-id"))

	root.AddCommand(newSearchCmd(v))
	root.AddCommand(newBrowseCmd(v))
	root.AddCommand(newConfigCmd(v))
	root.AddCommand(newThemeCmd(v))
	return root
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pricebook")
}

// openSession bootstraps a client session from the current settings.
func openSession(ctx context.Context, v *viper.Viper) (*client.Session, error) {
	cfg := config.FromViper(v)
	return client.Bootstrap(ctx, client.Options{
		CatalogPath:  cfg.CatalogPath,
		StateDir:     cfg.StateDir,
		Sources:      remote.HTTPSources(cfg.BuildID, &http.Client{}, cfg.ConfigURL, cfg.ConfigFallbackURL),
		FetchTimeout: cfg.ConfigTimeout,
	})
}

// openConfigs opens the saved configuration without loading a catalog or
// contacting the remote.
func openConfigs(ctx context.Context, v *viper.Viper) (*store.ConfigStore, func() error, error) {
	kv, err := store.Open(ctx, "", v.GetString("state_dir"))
	if err != nil {
		return nil, nil, err
	}
	return store.NewConfigStore(kv), kv.Close, nil
}
