// Package config holds the application configuration: a JSON file with
// sensible defaults, overridable per field through TERMCHESS_* environment
// variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config is the root application configuration.
type Config struct {
	Engine EngineConfig `json:"engine"`
	UI     UIConfig     `json:"ui"`
	Log    LogConfig    `json:"log"`
	Store  StoreConfig  `json:"store"`
}

// EngineConfig configures the UCI engine subprocess.
type EngineConfig struct {
	Path       string `json:"path" env:"TERMCHESS_ENGINE_PATH"`
	MoveTimeMs int    `json:"move_time_ms" env:"TERMCHESS_ENGINE_MOVETIME_MS"`
	Depth      int    `json:"depth" env:"TERMCHESS_ENGINE_DEPTH"`
	Elo        int    `json:"elo" env:"TERMCHESS_ENGINE_ELO"`
}

// UIConfig configures the board view.
type UIConfig struct {
	Theme             string `json:"theme" env:"TERMCHESS_THEME"`
	Flipped           bool   `json:"flipped" env:"TERMCHESS_FLIPPED"`
	ClockMinutes      int    `json:"clock_minutes" env:"TERMCHESS_CLOCK_MINUTES"`
	ClockIncrementSec int    `json:"clock_increment_sec" env:"TERMCHESS_CLOCK_INCREMENT_SEC"`
}

// LogConfig configures the file logger. The TUI owns the terminal, so
// logs always go to a file.
type LogConfig struct {
	Path  string `json:"path" env:"TERMCHESS_LOG_PATH"`
	Level string `json:"level" env:"TERMCHESS_LOG_LEVEL"`
}

// StoreConfig configures the saved-game store. An empty path disables it.
type StoreConfig struct {
	Path string `json:"path" env:"TERMCHESS_STORE_PATH"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Path:       "stockfish",
			MoveTimeMs: 100,
		},
		UI: UIConfig{
			Theme: "basic",
		},
		Log: LogConfig{
			Path:  "termchess.log",
			Level: "info",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the application cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MoveTimeMs <= 0 {
		return fmt.Errorf("config: engine move time must be positive, got %d", c.Engine.MoveTimeMs)
	}
	if c.Engine.Depth < 0 {
		return fmt.Errorf("config: engine depth must not be negative, got %d", c.Engine.Depth)
	}
	if c.Engine.Elo < 0 {
		return fmt.Errorf("config: engine elo must not be negative, got %d", c.Engine.Elo)
	}
	if c.UI.Theme == "" {
		return errors.New("config: theme must be set")
	}
	if c.UI.ClockMinutes < 0 || c.UI.ClockIncrementSec < 0 {
		return errors.New("config: clock settings must not be negative")
	}
	if c.Log.Path == "" {
		return errors.New("config: log path must be set")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}
