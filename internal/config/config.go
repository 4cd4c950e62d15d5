// Package config holds tattletale's YAML configuration: I/O tuning, worker
// pool sizing, report limits, and logging. Command-line flags override config
// file values.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"tattletale/internal/lineio"
	"tattletale/internal/report"
)

// Config holds all tattletale configuration.
type Config struct {
	// IO tunes how input files are read.
	IO IOConfig `yaml:"io"`

	// Engine tunes the parallel loader.
	Engine EngineConfig `yaml:"engine"`

	// Report tunes summary rendering.
	Report ReportConfig `yaml:"report"`

	// Output is the directory CSV/TXT exports are written to. Empty disables
	// exports unless overridden on the command line.
	Output string `yaml:"output"`

	Logging LoggingConfig `yaml:"logging"`
}

// IOConfig tunes input reading.
type IOConfig struct {
	// MmapThresholdBytes is the file size at or above which inputs are
	// memory-mapped. Zero disables mmap entirely.
	MmapThresholdBytes int64 `yaml:"mmap_threshold_bytes"`
}

// EngineConfig tunes the parallel loader.
type EngineConfig struct {
	// Parallel enables the data-parallel file loader.
	Parallel bool `yaml:"parallel"`

	// Workers bounds the parse worker pool. Zero or negative means one
	// worker per CPU.
	Workers int `yaml:"workers"`
}

// ReportConfig tunes summary rendering.
type ReportConfig struct {
	// TopPasswords limits the reused-password section.
	TopPasswords int `yaml:"top_passwords"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IO: IOConfig{
			MmapThresholdBytes: lineio.DefaultMmapThreshold,
		},
		Engine: EngineConfig{
			Parallel: false,
			Workers:  runtime.NumCPU(),
		},
		Report: ReportConfig{
			TopPasswords: report.DefaultTopPasswords,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads configuration from a YAML file, overlaying the defaults. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
