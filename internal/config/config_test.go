package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if cfg.Server != want.Server {
		t.Errorf("Server = %+v, want %+v", cfg.Server, want.Server)
	}
	if cfg.Cache != want.Cache {
		t.Errorf("Cache = %+v, want %+v", cfg.Cache, want.Cache)
	}
	if cfg.Catalog != want.Catalog {
		t.Errorf("Catalog = %+v, want %+v", cfg.Catalog, want.Catalog)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_DRIVER", "Memory")
	t.Setenv("CACHE_MEMORY_SIZE", "500")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("STORE_AUTO_MIGRATE", "false")
	t.Setenv("FREE_GAMES_API_URL", "http://catalog.local")
	t.Setenv("CATALOG_TIMEOUT", "3s")
	t.Setenv("CATALOG_BREAKER_FAILURES", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_DB", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Cache.Driver != CacheDriverMemory || cfg.Cache.MemorySize != 500 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.RedisDB != 4 {
		t.Errorf("RedisDB = %d, want 4", cfg.Cache.RedisDB)
	}
	if cfg.Store.Driver != StoreDriverMemory || cfg.Store.AutoMigrate {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Catalog.BaseURL != "http://catalog.local" || cfg.Catalog.Timeout != 3*time.Second || cfg.Catalog.BreakerFailures != 2 {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 7000
  rate_limit_rpm: 30
cache:
  driver: none
logging:
  format: console
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RATE_LIMIT_RPM", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Server.RateLimitRPM != 60 {
		t.Errorf("RateLimitRPM = %d, want 60 from env", cfg.Server.RateLimitRPM)
	}
	if cfg.Cache.Driver != CacheDriverNone {
		t.Errorf("Cache.Driver = %q, want none", cfg.Cache.Driver)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoad_InvalidFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("STORE_DRIVER", "sqlserver")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "STORE_DRIVER") {
		t.Errorf("Load() error = %v, want STORE_DRIVER validation failure", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitRPM = -1 }, "RATE_LIMIT_RPM"},
		{"unknown cache driver", func(c *Config) { c.Cache.Driver = "memcached" }, "CACHE_DRIVER"},
		{"redis without url", func(c *Config) { c.Cache.RedisURL = "" }, "REDIS_URL"},
		{"memory cache size", func(c *Config) { c.Cache.Driver = CacheDriverMemory; c.Cache.MemorySize = 0 }, "CACHE_MEMORY_SIZE"},
		{"postgres without url", func(c *Config) { c.Store.DatabaseURL = "" }, "DATABASE_URL"},
		{"memory store needs no url", func(c *Config) { c.Store.Driver = StoreDriverMemory; c.Store.DatabaseURL = "" }, ""},
		{"empty catalog url", func(c *Config) { c.Catalog.BaseURL = "" }, "FREE_GAMES_API_URL"},
		{"empty user agent", func(c *Config) { c.Catalog.UserAgent = "" }, "USER_AGENT"},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, "CATALOG_TIMEOUT"},
		{"zero breaker failures", func(c *Config) { c.Catalog.BreakerFailures = 0 }, "CATALOG_BREAKER_FAILURES"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.contains == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.contains)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"PORT":               "server.port",
		"REDIS_URL":          "cache.redis_url",
		"FREE_GAMES_API_URL": "catalog.base_url",
		"LOG_FORMAT":         "logging.format",
		"HOME":               "",
		"PATH":               "",
	}

	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}
