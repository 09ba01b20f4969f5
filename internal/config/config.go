// Package config manages raddecoded daemon configuration using koanf/v2.
//
// Supports YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete raddecoded configuration.
type Config struct {
	Listen   ListenConfig   `koanf:"listen"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Log      LogConfig      `koanf:"log"`
	Decoder  DecoderConfig  `koanf:"decoder"`
	Clients  []ClientConfig `koanf:"clients"`
}

// ListenConfig holds the UDP listener configuration the daemon accepts
// RADIUS packets on.
type ListenConfig struct {
	// Addr is the UDP listen address (e.g., ":1812").
	Addr string `koanf:"addr"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// DecoderConfig holds the decoder's deployment-wide behavior knobs.
type DecoderConfig struct {
	// DictionaryPath is the path to the YAML attribute dictionary loaded
	// at startup by internal/dictionary.
	DictionaryPath string `koanf:"dictionary_path"`

	// TunnelPasswordZeros requires the padding bytes following a decoded
	// Tunnel-Password's embedded length to be all zero, rejecting the
	// value otherwise (RFC 2868 Section 3.5 encoder guidance).
	TunnelPasswordZeros bool `koanf:"tunnel_password_zeros"`
}

// ClientConfig describes one RADIUS client the daemon accepts packets
// from, identified by source address, and the shared secret used to
// de-obfuscate its attributes.
type ClientConfig struct {
	// Addr is the client's source IP address.
	Addr string `koanf:"addr"`

	// Secret is the shared secret configured for this client.
	Secret string `koanf:"secret"`
}

// ClientKey returns a unique identifier for the client based on its
// address. Used by Validate to reject duplicate client entries.
func (cc ClientConfig) ClientKey() string {
	return cc.Addr
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen: ListenConfig{
			Addr: ":1812",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Decoder: DecoderConfig{
			DictionaryPath:      "/etc/raddecoded/dictionary.yaml",
			TunnelPasswordZeros: false,
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for raddecoded configuration.
// Variables are named RADDECODED_<section>_<key>, e.g., RADDECODED_LISTEN_ADDR.
const envPrefix = "RADDECODED_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (RADDECODED_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults.
//
// Environment variable mapping:
//
//	RADDECODED_LISTEN_ADDR          -> listen.addr
//	RADDECODED_METRICS_ADDR         -> metrics.addr
//	RADDECODED_METRICS_PATH         -> metrics.path
//	RADDECODED_LOG_LEVEL            -> log.level
//	RADDECODED_LOG_FORMAT           -> log.format
//	RADDECODED_DECODER_DICTIONARY_PATH -> decoder.dictionary_path
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms RADDECODED_LISTEN_ADDR -> listen.addr.
// Strips the RADDECODED_ prefix, lowercases, and replaces the first _
// (the section separator) with ., so multi-word keys such as
// RADDECODED_DECODER_DICTIONARY_PATH map to decoder.dictionary_path.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.Replace(s, "_", ".", 1)
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"listen.addr":                  defaults.Listen.Addr,
		"metrics.addr":                 defaults.Metrics.Addr,
		"metrics.path":                 defaults.Metrics.Path,
		"log.level":                    defaults.Log.Level,
		"log.format":                   defaults.Log.Format,
		"decoder.dictionary_path":      defaults.Decoder.DictionaryPath,
		"decoder.tunnel_password_zeros": defaults.Decoder.TunnelPasswordZeros,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyListenAddr indicates the UDP listen address is empty.
	ErrEmptyListenAddr = errors.New("listen.addr must not be empty")

	// ErrEmptyDictionaryPath indicates no dictionary path was configured.
	ErrEmptyDictionaryPath = errors.New("decoder.dictionary_path must not be empty")

	// ErrInvalidClientAddr indicates a client entry has an empty address.
	ErrInvalidClientAddr = errors.New("client address must not be empty")

	// ErrEmptyClientSecret indicates a client entry has no shared secret.
	ErrEmptyClientSecret = errors.New("client secret must not be empty")

	// ErrDuplicateClientKey indicates two clients share the same address.
	ErrDuplicateClientKey = errors.New("duplicate client address")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Listen.Addr == "" {
		return ErrEmptyListenAddr
	}

	if cfg.Decoder.DictionaryPath == "" {
		return ErrEmptyDictionaryPath
	}

	if err := validateClients(cfg.Clients); err != nil {
		return err
	}

	return nil
}

// validateClients checks each declarative client entry for correctness.
func validateClients(clients []ClientConfig) error {
	seen := make(map[string]struct{}, len(clients))

	for i, cc := range clients {
		if cc.Addr == "" {
			return fmt.Errorf("clients[%d]: %w", i, ErrInvalidClientAddr)
		}
		if cc.Secret == "" {
			return fmt.Errorf("clients[%d]: %w", i, ErrEmptyClientSecret)
		}

		key := cc.ClientKey()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("clients[%d] key %q: %w", i, key, ErrDuplicateClientKey)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
