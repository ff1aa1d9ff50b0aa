// Package config loads compositor settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/strata/geom"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STRATA_"

// Config holds the settings a compositor needs to create its layers and
// paint contexts.
type Config struct {
	// TileSize is the tile edge in pixels. Must be a power of two.
	TileSize uint `yaml:"tile_size"`
	// MaxCacheMemory bounds each layer's tile cache; zero means unbounded.
	MaxCacheMemory uint `yaml:"max_cache_memory"`
	// CPUPainting selects software rasterization for new layers.
	CPUPainting bool `yaml:"cpu_painting"`
	// UnrenderedColor fills page areas with no tile yet.
	UnrenderedColor geom.Color `yaml:"unrendered_color"`
	// PaintContexts is the number of paint workers, each with its own
	// surface pool.
	PaintContexts int `yaml:"paint_contexts"`
	// Debug turns on tree sanity warnings.
	Debug bool `yaml:"debug"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		TileSize:        512,
		MaxCacheMemory:  0,
		UnrenderedColor: geom.ColorWhite,
		PaintContexts:   1,
		LogLevel:        "info",
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path, replacing the file atomically.
func Write(path string, cfg Config) error {
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.NewEncoder(file).Encode(cfg); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ApplyEnv loads the given .env files, skipping missing ones, then applies
// STRATA_* variables on top of cfg. Variables already set in the
// environment win over .env files.
func ApplyEnv(cfg *Config, files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	if v, ok := lookup("TILE_SIZE"); ok {
		n, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return envErr("TILE_SIZE", err)
		}
		cfg.TileSize = uint(n)
	}
	if v, ok := lookup("MAX_CACHE_MEMORY"); ok {
		n, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return envErr("MAX_CACHE_MEMORY", err)
		}
		cfg.MaxCacheMemory = uint(n)
	}
	if v, ok := lookup("CPU_PAINTING"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envErr("CPU_PAINTING", err)
		}
		cfg.CPUPainting = b
	}
	if v, ok := lookup("PAINT_CONTEXTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envErr("PAINT_CONTEXTS", err)
		}
		cfg.PaintContexts = n
	}
	if v, ok := lookup("DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envErr("DEBUG", err)
		}
		cfg.Debug = b
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	return strings.TrimSpace(v), ok
}

func envErr(name string, err error) error {
	return fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TileSize == 0 || bits.OnesCount(c.TileSize) != 1 {
		return fmt.Errorf("config: tile_size %d is not a power of two", c.TileSize)
	}
	if c.PaintContexts < 1 {
		return fmt.Errorf("config: paint_contexts must be at least 1, got %d", c.PaintContexts)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel. An empty level means info.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}

// NewLogger returns a console logger writing to w at the configured level.
// Debug forces the debug level; an unparsable level falls back to info.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.SlogLevel()
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(console.NewHandler(w, &console.HandlerOptions{
		Level: level,
	}))
}
