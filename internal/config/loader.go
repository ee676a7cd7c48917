package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/zenml-io/mcp-zenml/pkg/logging"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Load builds the effective configuration: defaults, overlaid by an optional
// config.yaml in configPath (skipped when configPath is empty), overlaid by
// environment variables. Environment variables always win so that a
// `zenml login` shell works without any file on disk.
func Load(configPath string) (Config, error) {
	cfg := GetDefaultConfig()

	if configPath != "" {
		configFilePath := filepath.Join(configPath, configFileName)
		data, err := os.ReadFile(configFilePath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
		case err != nil:
			return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
			}
			logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStoreURL); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv(EnvStoreAPIKey); v != "" {
		cfg.Store.APIKey = v
	}
	if v := os.Getenv(EnvActiveProjectID); v != "" {
		cfg.Store.ActiveProjectID = v
	}
}

// LogLevelFromEnv returns the diagnostic log level configured via LOGLEVEL.
// The level only affects the diagnostic channel, never protocol responses.
func LogLevelFromEnv() logging.LogLevel {
	return logging.ParseLevel(os.Getenv(EnvLogLevel), logging.LevelWarn)
}

// RedactURL reduces a URL to scheme and host for safe logging and
// diagnostics. Paths, query strings and userinfo may embed tokens and are
// never emitted.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "<invalid-url>"
	}
	if parsed.Scheme == "" {
		return parsed.Hostname()
	}
	return fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Hostname())
}
