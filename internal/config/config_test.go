package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENGINE_PIN", "")

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.EnginePIN != "1337" {
		t.Errorf("EnginePIN = %q, want 1337", cfg.EnginePIN)
	}
	if cfg.ConfigTimeout != 3*time.Second {
		t.Errorf("ConfigTimeout = %v, want 3s", cfg.ConfigTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENGINE_PIN", "4242")
	t.Setenv("CONFIG_TIMEOUT", "500ms")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.EnginePIN != "4242" {
		t.Errorf("EnginePIN = %q, want 4242", cfg.EnginePIN)
	}
	if cfg.ConfigTimeout != 500*time.Millisecond {
		t.Errorf("ConfigTimeout = %v, want 500ms", cfg.ConfigTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %q, want %q", cfg.AllowedOrigins, want)
	}
}
