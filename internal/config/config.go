// Package config resolves the bin's runtime configuration from, in order of
// increasing precedence: a YAML file, environment variables, and CLI flags —
// the same three-tier resolution cmd/rtmp-server's flags.go did with a flat
// flag set, generalized here with a file tier since the decodebin domain has
// enough knobs (buffering budget, stop caps, connection speed, hook wiring)
// to warrant one.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every knob the bin facade and its cmd wiring need.
type Config struct {
	LogLevel string `yaml:"log_level"`

	StopCapsName     string `yaml:"stop_caps"`
	ExposeAllStreams bool   `yaml:"expose_all_streams"`
	ConnectionSpeed  uint64 `yaml:"connection_speed_kbps"`
	SubtitleEncoding string `yaml:"subtitle_encoding"`

	BufferingTotalBudgetBytes uint64 `yaml:"buffering_total_budget_bytes"`

	SourceURI string `yaml:"source_uri"`

	MetricsAddr string `yaml:"metrics_addr"`

	HookStdioFormat string   `yaml:"hook_stdio_format"`
	HookWebhooks    []string `yaml:"hook_webhooks"` // webhook URLs, each registered for drained and unknown_type
	HookScripts     []string `yaml:"hook_scripts"`  // signal_type=script pairs
	HookTimeout     string   `yaml:"hook_timeout"`
	HookConcurrency int      `yaml:"hook_concurrency"`
}

// applyDefaults fills zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StopCapsName == "" {
		c.StopCapsName = "video/x-raw"
	}
	if c.BufferingTotalBudgetBytes == 0 {
		c.BufferingTotalBudgetBytes = 8 << 20
	}
	if c.HookTimeout == "" {
		c.HookTimeout = "10s"
	}
	if c.HookConcurrency == 0 {
		c.HookConcurrency = 10
	}
}

// Load reads path (if non-empty and present) as a YAML document, overlays
// environment variables, and returns a Config with defaults applied. A
// missing path is not an error: file config is optional.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()
	return cfg, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("DECODEBIN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DECODEBIN_STOP_CAPS"); v != "" {
		c.StopCapsName = v
	}
	if v := os.Getenv("DECODEBIN_SOURCE_URI"); v != "" {
		c.SourceURI = v
	}
	if v := os.Getenv("DECODEBIN_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
}
