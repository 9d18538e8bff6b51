package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stylekey/pkg/cache"
)

// isolate points the default config path at an empty directory and clears
// every override.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{
		EnvAddr, EnvReadTimeout, EnvWriteTimeout, EnvCORSOrigins,
		EnvCacheBackend, EnvCacheDir, EnvCacheTTL,
		EnvRedisAddr, EnvRedisPassword, EnvRedisDB,
		EnvLogLevel, EnvLogFile, EnvLogMaxSizeMB, EnvLogMaxAgeDays,
		EnvLayerName, EnvStyleName,
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Defaults()
	if cfg.Server.Addr != want.Server.Addr || cfg.Cache.Backend != "file" || cfg.Log.MaxSizeMB != 500 || cfg.Log.MaxAgeDays != 7 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
	if cfg.Log.File != filepath.Join("logs", "api.log") {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
	if cfg.Style.DefaultLayer != "layer" || cfg.Style.StyleName != "generated_style" {
		t.Errorf("Style = %+v", cfg.Style)
	}
}

func TestLoadUserFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "stylekey", "config.toml"), `
[server]
addr = "127.0.0.1:9000"
read_timeout = "5s"
cors_origins = ["https://maps.example.org"]

[cache]
backend = "memory"
ttl = "1h"

[style]
default_layer = "roads"
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want default kept", cfg.Server.WriteTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://maps.example.org" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Style.DefaultLayer != "roads" || cfg.Style.StyleName != "generated_style" {
		t.Errorf("Style = %+v", cfg.Style)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[log]\nlevel = \"debug\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing explicit path) should fail")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "typo.toml")
	writeFile(t, path, "[cache]\nbackned = \"redis\"\n")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "cache.backned") {
		t.Errorf("Load() error = %v, want unknown key cache.backned", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[server\naddr = 1\n")

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "stylekey", "config.toml"), "[server]\naddr = \":7000\"\n")

	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvCORSOrigins, "https://a.example, https://b.example,")
	t.Setenv(EnvCacheBackend, "redis")
	t.Setenv(EnvRedisAddr, "cache:6380")
	t.Setenv(EnvRedisDB, "3")
	t.Setenv(EnvCacheTTL, "90m")
	t.Setenv(EnvLogMaxAgeDays, "14")
	t.Setenv(EnvStyleName, "roads_style")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want env to win over file", cfg.Server.Addr)
	}
	if got := cfg.Server.CORSOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("Server.CORSOrigins = %v", got)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache:6380" || cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Log.MaxAgeDays != 14 {
		t.Errorf("Log.MaxAgeDays = %d", cfg.Log.MaxAgeDays)
	}
	if cfg.Style.StyleName != "roads_style" {
		t.Errorf("Style.StyleName = %q", cfg.Style.StyleName)
	}
}

func TestEnvOverridesInvalid(t *testing.T) {
	tests := []struct{ key, value string }{
		{EnvReadTimeout, "soon"},
		{EnvRedisDB, "zero"},
		{EnvLogMaxSizeMB, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
		{"log size", func(c *Config) { c.Log.MaxSizeMB = -1 }},
		{"layer", func(c *Config) { c.Style.DefaultLayer = "" }},
		{"style", func(c *Config) { c.Style.StyleName = "../escape" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if err := Defaults().Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
}

func TestCacheOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Cache.Backend = "REDIS"
	cfg.Cache.RedisPassword = "secret"

	opts := cfg.CacheOptions("/tmp/fallback")
	if opts.Backend != cache.BackendRedis {
		t.Errorf("Backend = %q", opts.Backend)
	}
	if opts.Dir != "/tmp/fallback" {
		t.Errorf("Dir = %q, want fallback", opts.Dir)
	}
	if opts.Redis.Addr != "localhost:6379" || opts.Redis.Password != "secret" {
		t.Errorf("Redis = %+v", opts.Redis)
	}

	cfg.Cache.Dir = "/var/cache/stylekey"
	if got := cfg.CacheOptions("/tmp/fallback").Dir; got != "/var/cache/stylekey" {
		t.Errorf("Dir = %q, want configured dir", got)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/xdg", "stylekey", "config.toml") {
		t.Errorf("Path() = %q", p)
	}
}
