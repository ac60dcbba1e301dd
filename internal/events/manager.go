package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Manager registers and dispatches signal sinks per event Type.
type Manager struct {
	mu        sync.RWMutex
	hooks     map[Type][]Hook
	stdioHook *StdioHook
	pool      *executionPool
	logger    *slog.Logger
	config    Config
}

// NewManager creates a Manager with the given dispatch config.
func NewManager(config Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := time.ParseDuration(config.Timeout); err != nil {
		logger.Warn("invalid hook timeout, using default", "timeout", config.Timeout, "error", err)
		config.Timeout = "10s"
	}

	m := &Manager{
		hooks:  make(map[Type][]Hook),
		logger: logger,
		config: config,
		pool:   newExecutionPool(config.Concurrency, logger),
	}
	if config.StdioFormat != "" {
		_ = m.EnableStdioOutput(config.StdioFormat)
	}
	return m
}

// Register adds a hook for the given signal type.
func (m *Manager) Register(t Type, hook Hook) error {
	if hook == nil {
		return fmt.Errorf("cannot register nil hook")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks[t] = append(m.hooks[t], hook)
	m.logger.Info("hook registered", "event_type", t, "hook_type", hook.Type(), "hook_id", hook.ID())
	return nil
}

// Unregister removes a hook by ID from the given signal type.
func (m *Manager) Unregister(t Type, hookID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	hooks := m.hooks[t]
	for i, h := range hooks {
		if h.ID() == hookID {
			m.hooks[t] = append(hooks[:i], hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Fire dispatches event to every registered hook for its type, asynchronously.
func (m *Manager) Fire(ctx context.Context, event Event) {
	if m == nil {
		return
	}
	m.mu.RLock()
	hooks := make([]Hook, len(m.hooks[event.Type]))
	copy(hooks, m.hooks[event.Type])
	stdio := m.stdioHook
	m.mu.RUnlock()

	if stdio != nil {
		hooks = append(hooks, stdio)
	}
	if len(hooks) == 0 {
		return
	}

	m.logger.Debug("firing signal", "event_type", event.Type, "hook_count", len(hooks), "event", event.String())
	for _, h := range hooks {
		m.pool.execute(ctx, h, event)
	}
}

// EnableStdioOutput turns on structured stdout/stderr output for every signal.
func (m *Manager) EnableStdioOutput(format string) error {
	if format != "json" && format != "env" {
		return fmt.Errorf("unsupported stdio format: %s", format)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stdioHook = NewStdioHook("stdio", format)
	return nil
}

// DisableStdioOutput turns structured output back off.
func (m *Manager) DisableStdioOutput() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stdioHook = nil
}

// Close waits for in-flight hook executions to finish.
func (m *Manager) Close() error {
	if m.pool != nil {
		m.pool.close()
	}
	return nil
}

// executionPool bounds concurrent hook executions.
type executionPool struct {
	workers chan struct{}
	size    int
	active  int
	mu      sync.Mutex
	logger  *slog.Logger
}

func newExecutionPool(size int, logger *slog.Logger) *executionPool {
	if size <= 0 {
		size = 10
	}
	return &executionPool{workers: make(chan struct{}, size), size: size, logger: logger}
}

func (ep *executionPool) execute(ctx context.Context, hook Hook, event Event) {
	go func() {
		ep.workers <- struct{}{}
		defer func() { <-ep.workers }()

		ep.mu.Lock()
		ep.active++
		ep.mu.Unlock()
		defer func() {
			ep.mu.Lock()
			ep.active--
			ep.mu.Unlock()
		}()

		start := time.Now()
		err := hook.Execute(ctx, event)
		dur := time.Since(start)
		if err != nil {
			ep.logger.Error("hook execution failed", "hook_type", hook.Type(), "hook_id", hook.ID(),
				"event_type", event.Type, "duration_ms", dur.Milliseconds(), "error", err)
			return
		}
		ep.logger.Debug("hook executed", "hook_type", hook.Type(), "hook_id", hook.ID(),
			"event_type", event.Type, "duration_ms", dur.Milliseconds())
	}()
}

func (ep *executionPool) close() {
	for i := 0; i < cap(ep.workers); i++ {
		ep.workers <- struct{}{}
	}
}
