package events

import "context"

// Hook is a sink that reacts to signals fired through a Manager.
type Hook interface {
	Execute(ctx context.Context, event Event) error
	Type() string
	ID() string
}

// Config controls hook dispatch.
type Config struct {
	// Timeout is validated by NewManager (default: 10s); the Manager does
	// not bound hook executions with it.
	Timeout string `yaml:"timeout" json:"timeout"`

	// Concurrency caps simultaneous hook executions (default: 10).
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	// StdioFormat enables structured stdio output: "json", "env", or "".
	StdioFormat string `yaml:"stdio_format" json:"stdio_format"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     "10s",
		Concurrency: 10,
		StdioFormat: "",
	}
}
