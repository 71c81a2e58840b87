package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the engine tuning knobs slat reads at startup.
type Config struct {
	// DefaultRowHeight is assumed for unrendered rows.
	DefaultRowHeight int
	// HeightRetention caps how many measured heights are kept.
	HeightRetention int
	// HeightTolerance is the silent re-measurement slack; larger
	// contradictions are logged. Zero disables the check.
	HeightTolerance int
	// Overscan is the extra extent rendered beyond the viewport.
	Overscan int
	// CacheBudgetBytes bounds the preview cache.
	CacheBudgetBytes int64
	// LoadCooldown is how long a failed preview load waits before it
	// may be retried.
	LoadCooldown time.Duration
	// ChunkSize bounds per-frame work for chunked sorts and scans.
	ChunkSize int
	// LogFile receives structured logs; empty disables file logging.
	LogFile string
}

const defaultConfigPath = "~/.config/slat/config.toml"

// Default returns the built-in tuning values.
func Default() Config {
	return Config{
		DefaultRowHeight: 1,
		HeightRetention:  20000,
		HeightTolerance:  0,
		Overscan:         10,
		CacheBudgetBytes: 8 << 20,
		LoadCooldown:     3 * time.Second,
		ChunkSize:        512,
	}
}

// Load locates and parses the slat config, falling back to defaults when
// the file is missing. Invalid tuning values are fatal here: a zero
// cache budget or a chunk size below one cannot be recovered from later.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DefaultRowHeight *int    `toml:"default_row_height"`
		HeightRetention  *int    `toml:"height_retention"`
		HeightTolerance  *int    `toml:"height_tolerance"`
		Overscan         *int    `toml:"overscan"`
		CacheBudgetBytes *int64  `toml:"cache_budget_bytes"`
		LoadCooldownMS   *int    `toml:"load_cooldown_ms"`
		ChunkSize        *int    `toml:"chunk_size"`
		LogFile          *string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.DefaultRowHeight != nil {
		cfg.DefaultRowHeight = *raw.DefaultRowHeight
	}
	if raw.HeightRetention != nil {
		cfg.HeightRetention = *raw.HeightRetention
	}
	if raw.HeightTolerance != nil {
		cfg.HeightTolerance = *raw.HeightTolerance
	}
	if raw.Overscan != nil {
		cfg.Overscan = *raw.Overscan
	}
	if raw.CacheBudgetBytes != nil {
		cfg.CacheBudgetBytes = *raw.CacheBudgetBytes
	}
	if raw.LoadCooldownMS != nil {
		cfg.LoadCooldown = time.Duration(*raw.LoadCooldownMS) * time.Millisecond
	}
	if raw.ChunkSize != nil {
		cfg.ChunkSize = *raw.ChunkSize
	}
	if raw.LogFile != nil {
		cfg.LogFile = mustExpand(strings.TrimSpace(*raw.LogFile))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects tuning values the engine cannot operate with.
func (c Config) Validate() error {
	if c.DefaultRowHeight < 1 {
		return fmt.Errorf("config: default_row_height must be at least 1, got %d", c.DefaultRowHeight)
	}
	if c.HeightRetention < 1 {
		return fmt.Errorf("config: height_retention must be at least 1, got %d", c.HeightRetention)
	}
	if c.Overscan < 0 {
		return fmt.Errorf("config: overscan must not be negative, got %d", c.Overscan)
	}
	if c.CacheBudgetBytes < 1 {
		return fmt.Errorf("config: cache_budget_bytes must be positive, got %d", c.CacheBudgetBytes)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("config: chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	if path == "" {
		return ""
	}
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
