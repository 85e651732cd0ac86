package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "DIVE_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/engine.toml"

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Render    RenderConfig    `toml:"render"`
	Scripting ScriptingConfig `toml:"scripting"`
	Data      DataConfig      `toml:"data"`
	Logging   LoggingConfig   `toml:"logging"`
	Debug     DebugConfig     `toml:"debug"`
}

type EngineConfig struct {
	Title            string        `toml:"title"`
	TickRate         int           `toml:"tick_rate"`          // logic ticks per second
	DrawRate         int           `toml:"draw_rate"`          // frames per second
	MaxSkippedFrames int           `toml:"max_skipped_frames"` // ticks run back-to-back before a forced draw
	MaxLag           time.Duration `toml:"max_lag"`            // accumulated lag is clamped to this
}

// TickInterval is the fixed logic step.
func (c EngineConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// DrawInterval is the target time between frames.
func (c EngineConfig) DrawInterval() time.Duration {
	return time.Second / time.Duration(c.DrawRate)
}

type RenderConfig struct {
	Backend string `toml:"backend"` // "terminal" or "none"
}

type ScriptingConfig struct {
	ScriptsDir string `toml:"scripts_dir"` // every .lua file here runs at startup
	InitScript string `toml:"init_script"` // runs after scripts_dir
}

type DataConfig struct {
	Templates string `toml:"templates"` // YAML template definitions
	Scene     string `toml:"scene"`     // YAML scene loaded at startup
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"` // "json" or "console"
	File       string `toml:"file"`   // optional rotating JSON log
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type DebugConfig struct {
	Profile    string `toml:"profile"` // "", "cpu" or "mem"
	ProfileDir string `toml:"profile_dir"`
}

// Path returns the config path from the environment, or DefaultPath.
func Path() string {
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte, name string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("engine.tick_rate must be positive, got %d", c.Engine.TickRate))
	}
	if c.Engine.DrawRate <= 0 {
		errs = append(errs, fmt.Errorf("engine.draw_rate must be positive, got %d", c.Engine.DrawRate))
	}
	if c.Engine.MaxSkippedFrames < 1 {
		errs = append(errs, fmt.Errorf("engine.max_skipped_frames must be at least 1, got %d", c.Engine.MaxSkippedFrames))
	}
	if c.Engine.MaxLag <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_lag must be positive, got %s", c.Engine.MaxLag))
	}
	switch c.Render.Backend {
	case "terminal", "none":
	default:
		errs = append(errs, fmt.Errorf("render.backend %q: want terminal or none", c.Render.Backend))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q: want json or console", c.Logging.Format))
	}
	switch c.Debug.Profile {
	case "", "cpu", "mem":
	default:
		errs = append(errs, fmt.Errorf("debug.profile %q: want cpu, mem or empty", c.Debug.Profile))
	}
	return errors.Join(errs...)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Title:            "Dive",
			TickRate:         60,
			DrawRate:         60,
			MaxSkippedFrames: 5,
			MaxLag:           500 * time.Millisecond,
		},
		Render: RenderConfig{
			Backend: "terminal",
		},
		Scripting: ScriptingConfig{
			ScriptsDir: "scripts/lib",
			InitScript: "scripts/init.lua",
		},
		Data: DataConfig{
			Templates: "data/templates.yaml",
			Scene:     "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Debug: DebugConfig{
			ProfileDir: ".",
		},
	}
}
