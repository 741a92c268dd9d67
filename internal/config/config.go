package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	EnginePIN   string

	// Remote configuration document, primary then fallback.
	ConfigURL         string
	ConfigFallbackURL string
	ConfigTimeout     time.Duration
	BuildID           string

	CatalogPath    string
	StateDir       string
	LiveURL        string
	AllowedOrigins []string
}

// Defaults registers every setting's default on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("port", "8081")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", "dev-secret-change-in-production")
	v.SetDefault("engine_pin", "1337")
	v.SetDefault("config_url", "")
	v.SetDefault("config_fallback_url", "")
	v.SetDefault("config_timeout", 3*time.Second)
	v.SetDefault("build_id", "")
	v.SetDefault("catalog_path", "catalog.csv")
	v.SetDefault("state_dir", "")
	v.SetDefault("live_url", "")
	v.SetDefault("allowed_origins", "*")
}

// Load reads settings from the environment (PORT, DATABASE_URL, ...).
func Load() *Config {
	return FromViper(New())
}

// New returns a viper instance with defaults set and environment binding on.
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from v, which may also carry bound CLI flags.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Port:              v.GetString("port"),
		DatabaseURL:       v.GetString("database_url"),
		JWTSecret:         v.GetString("jwt_secret"),
		EnginePIN:         v.GetString("engine_pin"),
		ConfigURL:         v.GetString("config_url"),
		ConfigFallbackURL: v.GetString("config_fallback_url"),
		ConfigTimeout:     v.GetDuration("config_timeout"),
		BuildID:           v.GetString("build_id"),
		CatalogPath:       v.GetString("catalog_path"),
		StateDir:          v.GetString("state_dir"),
		LiveURL:           v.GetString("live_url"),
		AllowedOrigins:    splitList(v.GetString("allowed_origins")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
