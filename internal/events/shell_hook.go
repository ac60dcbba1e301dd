package events

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ShellHook runs a script with the signal passed as environment variables,
// for operators who wire local automation off autoplug decisions.
type ShellHook struct {
	id      string
	command string
	args    []string
	env     []string
	timeout time.Duration
}

func NewShellHook(id, scriptPath string, timeout time.Duration) *ShellHook {
	return &ShellHook{id: id, command: "/bin/bash", args: []string{scriptPath}, timeout: timeout}
}

func (h *ShellHook) SetEnv(env []string) *ShellHook {
	h.env = env
	return h
}

func (h *ShellHook) Execute(ctx context.Context, event Event) error {
	execCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, h.command, h.args...)
	cmd.Env = append(cmd.Env, h.buildEnvironment(event)...)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("shell hook %s: execution failed: %w", h.id, err)
	}
	return nil
}

func (h *ShellHook) Type() string { return "shell" }
func (h *ShellHook) ID() string   { return h.id }

func (h *ShellHook) buildEnvironment(event Event) []string {
	env := append([]string{}, h.env...)
	env = append(env, "DECODEBIN_EVENT_TYPE="+string(event.Type))
	env = append(env, fmt.Sprintf("DECODEBIN_TIMESTAMP=%d", event.Timestamp))
	if event.ChainID != "" {
		env = append(env, "DECODEBIN_CHAIN_ID="+event.ChainID)
	}
	if event.StreamID != "" {
		env = append(env, "DECODEBIN_STREAM_ID="+event.StreamID)
	}
	for key, value := range event.Data {
		env = append(env, "DECODEBIN_"+strings.ToUpper(key)+fmt.Sprintf("=%v", value))
	}
	return env
}
