// Package config loads gradtape configuration from YAML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains all gradtape configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	// Engine contains gradient evaluation settings.
	Engine EngineConfig `yaml:"engine"`

	// Training contains optimizer settings for the example models.
	Training TrainingConfig `yaml:"training"`

	// Bench contains benchmark harness settings.
	Bench BenchConfig `yaml:"bench"`

	// Observability contains logging, metrics and tracing settings.
	Observability ObservabilityConfig `yaml:"observability"`
}

// EngineConfig contains gradient evaluation settings.
type EngineConfig struct {
	MaxEntries  int `yaml:"max_entries"` // Trace entry bound per evaluation; 0 means unbounded
	Parallelism int `yaml:"parallelism"` // Concurrent evaluations in batch mode
}

// TrainingConfig contains optimizer settings.
type TrainingConfig struct {
	Steps        int     `yaml:"steps"`
	LearningRate float64 `yaml:"learning_rate"`
	Optimizer    string  `yaml:"optimizer"` // "sgd" or "adam"
	Momentum     float64 `yaml:"momentum"`
	Checkpoint   string  `yaml:"checkpoint"` // Optional checkpoint path
}

// BenchConfig contains benchmark harness settings.
type BenchConfig struct {
	Trials  int           `yaml:"trials"`
	Suites  []string      `yaml:"suites"` // Empty means every suite
	Timeout time.Duration `yaml:"timeout"`
}

// ObservabilityConfig contains observability settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // "console" or "json"
	Tracing     bool   `yaml:"tracing"`
	MetricsAddr string `yaml:"metrics_addr"` // Empty disables the metrics endpoint
	ServiceName string `yaml:"service_name"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			MaxEntries:  1 << 20,
			Parallelism: runtime.NumCPU(),
		},
		Training: TrainingConfig{
			Steps:        100,
			LearningRate: 0.1,
			Optimizer:    "sgd",
		},
		Bench: BenchConfig{
			Trials:  20,
			Timeout: 5 * time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "console",
			ServiceName: "gradtape",
		},
	}
}

// Load loads configuration with priority: env > file > defaults.
//
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	loadEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) {
	envInt("GRADTAPE_MAX_ENTRIES", &cfg.Engine.MaxEntries)
	envInt("GRADTAPE_PARALLELISM", &cfg.Engine.Parallelism)

	envInt("GRADTAPE_STEPS", &cfg.Training.Steps)
	envFloat("GRADTAPE_LEARNING_RATE", &cfg.Training.LearningRate)
	envFloat("GRADTAPE_MOMENTUM", &cfg.Training.Momentum)
	envString("GRADTAPE_OPTIMIZER", &cfg.Training.Optimizer)
	envString("GRADTAPE_CHECKPOINT", &cfg.Training.Checkpoint)

	envInt("GRADTAPE_BENCH_TRIALS", &cfg.Bench.Trials)
	if v := os.Getenv("GRADTAPE_BENCH_SUITES"); v != "" {
		cfg.Bench.Suites = strings.Split(v, ",")
	}
	if v := os.Getenv("GRADTAPE_BENCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Bench.Timeout = d
		}
	}

	envString("GRADTAPE_LOG_LEVEL", &cfg.Observability.LogLevel)
	envString("GRADTAPE_LOG_FORMAT", &cfg.Observability.LogFormat)
	envString("GRADTAPE_METRICS_ADDR", &cfg.Observability.MetricsAddr)
	if v := os.Getenv("GRADTAPE_TRACING"); v != "" {
		cfg.Observability.Tracing = v == "true" || v == "1"
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is valid.
func (c Config) Validate() error {
	switch {
	case c.Engine.MaxEntries < 0:
		return fmt.Errorf("%w: max_entries must be >= 0", ErrInvalidConfig)
	case c.Engine.Parallelism < 1:
		return fmt.Errorf("%w: parallelism must be >= 1", ErrInvalidConfig)
	case c.Training.Steps < 0:
		return fmt.Errorf("%w: steps must be >= 0", ErrInvalidConfig)
	case c.Training.LearningRate <= 0:
		return fmt.Errorf("%w: learning_rate must be > 0", ErrInvalidConfig)
	case c.Training.Momentum < 0 || c.Training.Momentum >= 1:
		return fmt.Errorf("%w: momentum must be in [0, 1)", ErrInvalidConfig)
	case c.Training.Optimizer != "sgd" && c.Training.Optimizer != "adam":
		return fmt.Errorf("%w: optimizer must be sgd or adam, got %q", ErrInvalidConfig, c.Training.Optimizer)
	case c.Bench.Trials < 1:
		return fmt.Errorf("%w: trials must be >= 1", ErrInvalidConfig)
	case c.Observability.LogFormat != "console" && c.Observability.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be console or json, got %q", ErrInvalidConfig, c.Observability.LogFormat)
	}
	return nil
}
