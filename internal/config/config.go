// Package config loads stylekey settings from an optional TOML file and
// STYLEKEY_* environment variables. Environment values win over the file,
// and the file wins over the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/stylekey/pkg/cache"
	skerrors "github.com/matzehuels/stylekey/pkg/errors"
	"github.com/matzehuels/stylekey/pkg/project"
)

const appName = "stylekey"

// Config is the full settings tree.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
	Style  StyleConfig  `toml:"style"`
}

type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	CORSOrigins  []string      `toml:"cors_origins"`
}

type CacheConfig struct {
	// Backend is one of none, memory, file or redis.
	Backend string `toml:"backend"`
	// Dir is the file backend's root. Empty means the XDG cache directory.
	Dir string `toml:"dir"`
	// TTL bounds rendered artifacts.
	TTL time.Duration `toml:"ttl"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// File receives a rotated copy of the server log. Empty disables it.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type StyleConfig struct {
	DefaultLayer string `toml:"default_layer"`
	StyleName    string `toml:"style_name"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  []string{"*"},
		},
		Cache: CacheConfig{
			Backend:   string(cache.BackendFile),
			TTL:       cache.ArtifactTTL,
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level:      "info",
			File:       filepath.Join("logs", "api.log"),
			MaxSizeMB:  500,
			MaxAgeDays: 7,
		},
		Style: StyleConfig{
			DefaultLayer: project.DefaultLayerName,
			StyleName:    project.DefaultStyleName,
		},
	}
}

// Environment variables read by Load.
const (
	EnvAddr          = "STYLEKEY_ADDR"
	EnvReadTimeout   = "STYLEKEY_READ_TIMEOUT"
	EnvWriteTimeout  = "STYLEKEY_WRITE_TIMEOUT"
	EnvCORSOrigins   = "STYLEKEY_CORS_ORIGINS"
	EnvCacheBackend  = "STYLEKEY_CACHE_BACKEND"
	EnvCacheDir      = "STYLEKEY_CACHE_DIR"
	EnvCacheTTL      = "STYLEKEY_CACHE_TTL"
	EnvRedisAddr     = "STYLEKEY_REDIS_ADDR"
	EnvRedisPassword = "STYLEKEY_REDIS_PASSWORD"
	EnvRedisDB       = "STYLEKEY_REDIS_DB"
	EnvLogLevel      = "STYLEKEY_LOG_LEVEL"
	EnvLogFile       = "STYLEKEY_LOG_FILE"
	EnvLogMaxSizeMB  = "STYLEKEY_LOG_MAX_SIZE_MB"
	EnvLogMaxAgeDays = "STYLEKEY_LOG_MAX_AGE_DAYS"
	EnvLayerName     = "STYLEKEY_LAYER_NAME"
	EnvStyleName     = "STYLEKEY_STYLE_NAME"
)

// Path returns the per-user config file, $XDG_CONFIG_HOME/stylekey/config.toml
// or ~/.config/stylekey/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the effective configuration. An explicit path must exist; the
// default path is optional.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	err := decodeFile(path, &cfg)
	if err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return cfg, err
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decodeFile overlays the keys present in path onto cfg. Unknown keys are
// rejected so typos do not pass silently.
func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("parse %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	num := func(key string, dst *int) error {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str(EnvAddr, &cfg.Server.Addr)
	if v := strings.TrimSpace(os.Getenv(EnvCORSOrigins)); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	str(EnvCacheBackend, &cfg.Cache.Backend)
	str(EnvCacheDir, &cfg.Cache.Dir)
	str(EnvRedisAddr, &cfg.Cache.RedisAddr)
	str(EnvRedisPassword, &cfg.Cache.RedisPassword)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFile, &cfg.Log.File)
	str(EnvLayerName, &cfg.Style.DefaultLayer)
	str(EnvStyleName, &cfg.Style.StyleName)

	return errors.Join(
		dur(EnvReadTimeout, &cfg.Server.ReadTimeout),
		dur(EnvWriteTimeout, &cfg.Server.WriteTimeout),
		dur(EnvCacheTTL, &cfg.Cache.TTL),
		num(EnvRedisDB, &cfg.Cache.RedisDB),
		num(EnvLogMaxSizeMB, &cfg.Log.MaxSizeMB),
		num(EnvLogMaxAgeDays, &cfg.Log.MaxAgeDays),
	)
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

// Validate checks values that cannot be caught by decoding.
func (c Config) Validate() error {
	switch cache.Backend(strings.ToLower(c.Cache.Backend)) {
	case cache.BackendNone, cache.BackendMemory, cache.BackendFile, cache.BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl: must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log: max_size_mb and max_age_days must not be negative")
	}
	if err := skerrors.ValidateLayerName(c.Style.DefaultLayer); err != nil {
		return fmt.Errorf("style.default_layer: %w", err)
	}
	if err := skerrors.ValidateStyleName(c.Style.StyleName); err != nil {
		return fmt.Errorf("style.style_name: %w", err)
	}
	return nil
}

// CacheOptions translates the cache section for cache.Open. dir is used
// when no directory is configured.
func (c Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend: cache.Backend(strings.ToLower(c.Cache.Backend)),
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
	}
}

// LogLevel returns the parsed log level, or info if it is invalid.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
