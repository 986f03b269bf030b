package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/game-picker/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envMappings maps environment variables (lowercased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	"host":             "server.host",
	"port":             "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"rate_limit_rpm":   "server.rate_limit_rpm",

	"cache_driver":      "cache.driver",
	"cache_key_prefix":  "cache.key_prefix",
	"cache_memory_size": "cache.memory_size",
	"redis_url":         "cache.redis_url",
	"redis_password":    "cache.redis_password",
	"redis_db":          "cache.redis_db",

	"store_driver":       "store.driver",
	"database_url":       "store.database_url",
	"store_auto_migrate": "store.auto_migrate",

	"free_games_api_url":       "catalog.base_url",
	"user_agent":               "catalog.user_agent",
	"catalog_timeout":          "catalog.timeout",
	"catalog_breaker_failures": "catalog.breaker_failures",
	"catalog_breaker_timeout":  "catalog.breaker_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// Load builds the configuration: defaults, then the config file (if any),
// then environment variables. The result is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Cache.Driver = strings.ToLower(strings.TrimSpace(cfg.Cache.Driver))
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
