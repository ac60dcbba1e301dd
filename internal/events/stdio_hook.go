package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// StdioHook writes signal data to stdout/stderr as JSON lines or env
// assignments, for shell-script consumers that tail the process output.
type StdioHook struct {
	id     string
	format string // "json" or "env"
	output *os.File
}

func NewStdioHook(id, format string) *StdioHook {
	return &StdioHook{id: id, format: format, output: os.Stderr}
}

func (h *StdioHook) SetOutput(output *os.File) *StdioHook {
	h.output = output
	return h
}

func (h *StdioHook) Execute(ctx context.Context, event Event) error {
	switch h.format {
	case "json":
		return h.outputJSON(event)
	case "env":
		return h.outputEnv(event)
	default:
		return fmt.Errorf("stdio hook %s: unsupported format %q", h.id, h.format)
	}
}

func (h *StdioHook) Type() string { return "stdio" }
func (h *StdioHook) ID() string   { return h.id }

func (h *StdioHook) outputJSON(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("stdio hook %s: marshal: %w", h.id, err)
	}
	_, err = fmt.Fprintf(h.output, "DECODEBIN_EVENT: %s\n", data)
	return err
}

func (h *StdioHook) outputEnv(event Event) error {
	lines := []string{
		"# decodebin event: " + string(event.Type),
		fmt.Sprintf("DECODEBIN_EVENT_TYPE=%s", event.Type),
		fmt.Sprintf("DECODEBIN_TIMESTAMP=%d", event.Timestamp),
	}
	if event.ChainID != "" {
		lines = append(lines, "DECODEBIN_CHAIN_ID="+event.ChainID)
	}
	if event.StreamID != "" {
		lines = append(lines, "DECODEBIN_STREAM_ID="+event.StreamID)
	}
	for key, value := range event.Data {
		lines = append(lines, "DECODEBIN_"+strings.ToUpper(key)+fmt.Sprintf("=%v", value))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(h.output, line); err != nil {
			return fmt.Errorf("stdio hook %s: write: %w", h.id, err)
		}
	}
	return nil
}
