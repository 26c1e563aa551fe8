// Package config loads agent configuration from YAML and derives the
// worker and daemon parameter sets from it.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/victoralfred/gospawn/observability"
	"github.com/victoralfred/gospawn/resilience"
	"github.com/victoralfred/gospawn/worker"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "2m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the agent configuration.
type Config struct {
	// DefaultTimeout bounds invocations whose context has no deadline.
	DefaultTimeout Duration `yaml:"default_timeout"`

	Worker       WorkerConfig       `yaml:"worker"`
	Daemon       DaemonConfig       `yaml:"daemon"`
	SpawnLimiter SpawnLimiterConfig `yaml:"spawn_limiter"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
}

// WorkerConfig configures worker subprocess invocation.
type WorkerConfig struct {
	LogLevel     string `yaml:"log_level"`
	ConfigFile   string `yaml:"config_file"`
	Optimization int    `yaml:"optimization"`
	Debug        bool   `yaml:"debug"`
	Trace        bool   `yaml:"trace"`
}

// DaemonConfig configures daemon subprocess invocation.
type DaemonConfig struct {
	Foreground bool     `yaml:"foreground"`
	Queues     []string `yaml:"queues"`
}

// SpawnLimiterConfig configures the subprocess spawn rate limiter.
type SpawnLimiterConfig struct {
	SpawnsPerSecond float64 `yaml:"spawns_per_second"`
	Burst           int     `yaml:"burst"`
	PerBinary       bool    `yaml:"per_binary"`
}

// TelemetryConfig configures tracing and metrics.
type TelemetryConfig struct {
	EnableTracing bool `yaml:"enable_tracing"`
	EnableMetrics bool `yaml:"enable_metrics"`
}

// Default returns the default configuration.
func Default() Config {
	limiter := resilience.DefaultSpawnLimiterConfig()
	return Config{
		DefaultTimeout: Duration(30 * time.Second),
		Worker: WorkerConfig{
			LogLevel:   "INFO",
			ConfigFile: worker.DefaultConfigFile,
		},
		SpawnLimiter: SpawnLimiterConfig{
			SpawnsPerSecond: limiter.SpawnsPerSecond,
			Burst:           limiter.Burst,
			PerBinary:       limiter.PerBinary,
		},
		Telemetry: TelemetryConfig{
			EnableTracing: true,
			EnableMetrics: true,
		},
	}
}

// Load reads a YAML configuration file. Missing keys keep their defaults;
// unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied configuration
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate normalizes out-of-range values.
func (c *Config) Validate() error {
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = Duration(30 * time.Second)
	}
	if c.Worker.Optimization < 0 {
		return fmt.Errorf("worker optimization must be >= 0, got %d", c.Worker.Optimization)
	}
	if c.SpawnLimiter.SpawnsPerSecond <= 0 {
		c.SpawnLimiter.SpawnsPerSecond = resilience.DefaultSpawnLimiterConfig().SpawnsPerSecond
	}
	if c.SpawnLimiter.Burst <= 0 {
		c.SpawnLimiter.Burst = resilience.DefaultSpawnLimiterConfig().Burst
	}
	return nil
}

// WorkerParams derives the worker parameter set.
func (c Config) WorkerParams() worker.Params {
	return worker.Params{
		LogLevel:     c.Worker.LogLevel,
		ConfigFile:   c.Worker.ConfigFile,
		Optimization: c.Worker.Optimization,
		Debug:        c.Worker.Debug,
		Trace:        c.Worker.Trace,
	}
}

// DaemonParams derives the daemon parameter set.
func (c Config) DaemonParams() worker.DaemonParams {
	return worker.DaemonParams{
		Params:     c.WorkerParams(),
		Foreground: c.Daemon.Foreground,
		Queues:     append([]string(nil), c.Daemon.Queues...),
	}
}

// SpawnLimiterSettings derives the resilience limiter configuration.
func (c Config) SpawnLimiterSettings() resilience.SpawnLimiterConfig {
	return resilience.SpawnLimiterConfig{
		SpawnsPerSecond: c.SpawnLimiter.SpawnsPerSecond,
		Burst:           c.SpawnLimiter.Burst,
		PerBinary:       c.SpawnLimiter.PerBinary,
	}
}

// TelemetrySettings derives the observability configuration.
func (c Config) TelemetrySettings() observability.Config {
	cfg := observability.DefaultConfig()
	cfg.EnableTracing = c.Telemetry.EnableTracing
	cfg.EnableMetrics = c.Telemetry.EnableMetrics
	return cfg
}
