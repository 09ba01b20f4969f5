package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-radius/raddecode/internal/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "raddecoded.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	if cfg.Listen.Addr != ":1812" {
		t.Fatalf("Listen.Addr = %q, want :1812", cfg.Listen.Addr)
	}
	if cfg.Decoder.DictionaryPath == "" {
		t.Fatalf("DictionaryPath must not be empty by default")
	}
	if cfg.Decoder.TunnelPasswordZeros {
		t.Fatalf("TunnelPasswordZeros should default to false")
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
listen:
  addr: ":11812"
decoder:
  dictionary_path: "/opt/raddecoded/dictionary.yaml"
  tunnel_password_zeros: true
clients:
  - addr: "10.0.0.1"
    secret: "s3cr3t"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen.Addr != ":11812" {
		t.Fatalf("Listen.Addr = %q, want :11812", cfg.Listen.Addr)
	}
	if cfg.Decoder.DictionaryPath != "/opt/raddecoded/dictionary.yaml" {
		t.Fatalf("DictionaryPath = %q", cfg.Decoder.DictionaryPath)
	}
	if !cfg.Decoder.TunnelPasswordZeros {
		t.Fatalf("TunnelPasswordZeros should be true")
	}
	// Unset fields still inherit defaults.
	if cfg.Metrics.Addr != ":9100" {
		t.Fatalf("Metrics.Addr = %q, want default :9100", cfg.Metrics.Addr)
	}
	if len(cfg.Clients) != 1 || cfg.Clients[0].Addr != "10.0.0.1" {
		t.Fatalf("Clients = %+v", cfg.Clients)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
listen:
  addr: ":11812"
`)

	t.Setenv("RADDECODED_LISTEN_ADDR", ":21812")
	t.Setenv("RADDECODED_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen.Addr != ":21812" {
		t.Fatalf("Listen.Addr = %q, want env override :21812", cfg.Listen.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidateRejectsEmptyListenAddr(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Listen.Addr = ""
	if err := config.Validate(cfg); !errors.Is(err, config.ErrEmptyListenAddr) {
		t.Fatalf("Validate err = %v, want ErrEmptyListenAddr", err)
	}
}

func TestValidateRejectsEmptyDictionaryPath(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Decoder.DictionaryPath = ""
	if err := config.Validate(cfg); !errors.Is(err, config.ErrEmptyDictionaryPath) {
		t.Fatalf("Validate err = %v, want ErrEmptyDictionaryPath", err)
	}
}

func TestValidateClients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		clients []config.ClientConfig
		wantErr error
	}{
		{
			name:    "missing address",
			clients: []config.ClientConfig{{Secret: "x"}},
			wantErr: config.ErrInvalidClientAddr,
		},
		{
			name:    "missing secret",
			clients: []config.ClientConfig{{Addr: "10.0.0.1"}},
			wantErr: config.ErrEmptyClientSecret,
		},
		{
			name: "duplicate address",
			clients: []config.ClientConfig{
				{Addr: "10.0.0.1", Secret: "a"},
				{Addr: "10.0.0.1", Secret: "b"},
			},
			wantErr: config.ErrDuplicateClientKey,
		},
		{
			name: "valid",
			clients: []config.ClientConfig{
				{Addr: "10.0.0.1", Secret: "a"},
				{Addr: "10.0.0.2", Secret: "b"},
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.DefaultConfig()
			cfg.Clients = tt.clients
			err := config.Validate(cfg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := config.ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
