package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":8090" {
			t.Errorf("HTTPAddr = %q, want :8090", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if cfg.SettingsPath != "./settings.json" {
			t.Errorf("SettingsPath = %q, want ./settings.json", cfg.SettingsPath)
		}
		if cfg.MaxAudioBytes != 33554432 {
			t.Errorf("MaxAudioBytes = %d, want 33554432", cfg.MaxAudioBytes)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		os.Setenv("HTTP_ADDR", ":7000")
		defer os.Unsetenv("HTTP_ADDR")

		cfg, err := Load(Overrides{
			EnvFile:      "nonexistent.env",
			HTTPAddr:     ":9090",
			LogLevel:     "debug",
			SettingsPath: "/tmp/settings.json",
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":9090" {
			t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.SettingsPath != "/tmp/settings.json" {
			t.Errorf("SettingsPath = %q, want /tmp/settings.json", cfg.SettingsPath)
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		os.Setenv("AUTH_TOKEN", "secret")
		defer os.Unsetenv("AUTH_TOKEN")

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.AuthToken != "secret" {
			t.Errorf("AuthToken = %q, want secret", cfg.AuthToken)
		}
	})
}
