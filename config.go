package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Sampler SamplerConfig `yaml:"sampler"`
	Report  ReportConfig  `yaml:"report"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig holds the board and the probe depth used when scanning it.
type GameConfig struct {
	Repetitions int      `yaml:"repetitions"`
	Board       []string `yaml:"board"`
}

// SamplerConfig controls randomness. Seed 0 means seed from the clock.
type SamplerConfig struct {
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`
}

// ReportConfig holds settings for the batch report.
type ReportConfig struct {
	Shots       int    `yaml:"shots"`
	Repetitions []int  `yaml:"repetitions"`
	OutputDir   string `yaml:"output_dir"`
}

// LogConfig holds logger settings. An empty File logs to stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Repetitions: 20,
			Board: []string{
				"0100",
				"0100",
				"0000",
				"1000",
			},
		},
		Sampler: SamplerConfig{
			Seed:    0,
			Workers: 1,
		},
		Report: ReportConfig{
			Shots:       1024,
			Repetitions: []int{1, 5, 20, 100},
			OutputDir:   "./report",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads config from path, or returns default if not found.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(path)
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every value the simulator would otherwise reject later.
func (c *Config) Validate() error {
	invalid := func(field string, value any) error {
		return newSimError(CodeConfigInvalid, "invalid config value").
			WithContext("field", field).
			WithContext("value", value)
	}

	if c.Game.Repetitions < 1 {
		return invalid("game.repetitions", c.Game.Repetitions)
	}
	if _, err := NewBoard(c.Game.Board); err != nil {
		return fmt.Errorf("game.board: %w", err)
	}
	if c.Sampler.Workers < 1 {
		return invalid("sampler.workers", c.Sampler.Workers)
	}
	if c.Report.Shots < 1 {
		return invalid("report.shots", c.Report.Shots)
	}
	if len(c.Report.Repetitions) == 0 {
		return invalid("report.repetitions", "[]")
	}
	for _, n := range c.Report.Repetitions {
		if n < 1 {
			return invalid("report.repetitions", n)
		}
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return invalid("log.level", c.Log.Level)
	}
	if !slices.Contains([]string{"text", "json", "logfmt"}, c.Log.Format) {
		return invalid("log.format", c.Log.Format)
	}
	return nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	if _, err := os.Stat("zenoprobe.yaml"); err == nil {
		return "zenoprobe.yaml"
	}
	if _, err := os.Stat("config/zenoprobe.yaml"); err == nil {
		return "config/zenoprobe.yaml"
	}
	return "zenoprobe.yaml"
}

// InitConfig creates a default config file if it doesn't exist.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return Default().Save(path)
}
