// Package bin is the public facade wiring the arena, registry, autoplug
// engine, lifecycle coordinator, buffering manager, and signal/metrics
// layers into the single top-level type a host embeds — the same role
// server.Server plays for the connection-handling stack it was adapted
// from, just fronting a decode pipeline instead of a TCP listener.
package bin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alxayo/go-decodebin/internal/core/autoplug"
	"github.com/alxayo/go-decodebin/internal/core/buffering"
	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/chain"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/lifecycle"
	"github.com/alxayo/go-decodebin/internal/core/registry"
	"github.com/alxayo/go-decodebin/internal/events"
	"github.com/alxayo/go-decodebin/internal/logger"
	"github.com/alxayo/go-decodebin/internal/metrics"
)

// Config holds every knob the bin facade needs. Callers usually build one
// from internal/config.Config rather than by hand.
type Config struct {
	StopCapsName     string
	ExposeAllStreams bool
	ConnectionSpeed  uint64
	SubtitleEncoding string

	BufferingTotalBudgetBytes uint64
}

func (c *Config) applyDefaults() {
	if c.StopCapsName == "" {
		c.StopCapsName = "video/x-raw"
	}
	if c.BufferingTotalBudgetBytes == 0 {
		c.BufferingTotalBudgetBytes = buffering.DefaultTotalBudget
	}
}

// Bin is the top-level decoding engine: one arena of chains/groups, one
// autoplug engine consuming it, one buffering manager tracking slots, and
// one lifecycle coordinator exposing finished pads to the host.
type Bin struct {
	cfg Config
	log *slog.Logger

	mu      sync.Mutex
	started bool

	Registry    registry.Registry
	Arena       *chain.Arena
	Engine      *autoplug.Engine
	Coordinator *lifecycle.Coordinator
	Buffering   *buffering.Manager
	Signals     *events.Manager
	Metrics     *metrics.Registry

	root *chain.ChainNode
}

// New builds an unstarted Bin. builder supplies the host's element
// construction strategy (spec §1's external collaborator); reg is the
// factory registry to autoplug against.
func New(cfg Config, reg registry.Registry, builder autoplug.Builder) *Bin {
	cfg.applyDefaults()

	arena := chain.NewArena()
	log := logger.Logger().With("component", "bin")

	b := &Bin{
		cfg:       cfg,
		log:       log,
		Registry:  reg,
		Arena:     arena,
		Buffering: buffering.NewManager(cfg.BufferingTotalBudgetBytes),
		Signals:   events.NewManager(events.DefaultConfig(), log),
		Metrics:   metrics.NewRegistry(),
	}

	engineCfg := autoplug.Config{
		StopCaps:         caps.New(cfg.StopCapsName, nil),
		ExposeAllStreams: cfg.ExposeAllStreams,
		ConnectionSpeed:  cfg.ConnectionSpeed,
		SubtitleEncoding: cfg.SubtitleEncoding,
	}
	b.Engine = autoplug.NewEngine(reg, arena, builder, engineCfg)
	b.Coordinator = lifecycle.NewCoordinator(arena, func() *chain.ChainNode { return b.root })

	b.Buffering.OnBufferingChange = func(pct int) {
		b.Metrics.SetBufferingPercent("aggregate", pct)
	}
	b.Coordinator.OnDrained = func() {
		b.Metrics.SetExposedPads(0)
		b.Signals.Fire(context.Background(), *events.New(events.TypeDrained, 0))
	}
	b.Coordinator.OnNoMorePads = func() {
		b.Signals.Fire(context.Background(), *events.New(events.TypeNoMorePads, 0))
	}

	return b
}

// Start transitions Null -> Paused and attaches sourcePad as the root of
// the first chain, ready for AnalyzePad to walk.
func (b *Bin) Start(ctx context.Context, sourceElement element.Element, sourcePad *element.Pad) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return errors.New("bin: already started")
	}
	b.started = true
	b.root = b.Arena.NewChain(chain.GroupId{}, sourcePad)
	b.mu.Unlock()

	if err := b.Coordinator.NullToReady(ctx); err != nil {
		return fmt.Errorf("bin: null to ready: %w", err)
	}

	runSource := func(ctx context.Context) error {
		c := sourcePad.CurrentCaps()
		outcome, err := b.Engine.AnalyzePad(sourceElement, sourcePad, c, b.root)
		b.Metrics.ObserveAutoplugOutcome(outcomeLabel(outcome))
		if outcome == autoplug.OutcomeDiscarded || outcome == autoplug.OutcomeUnknown {
			b.Metrics.IncDeadend()
			b.Signals.Fire(ctx, *events.New(events.TypeUnknownType, 0))
		}
		return err
	}
	return b.Coordinator.ReadyToPaused(ctx, runSource)
}

// Expose publishes any chains that have become complete since Start.
func (b *Bin) Expose() ([]lifecycle.ExposedPad, error) {
	pads, err := b.Coordinator.Expose()
	if err == nil {
		b.Metrics.SetExposedPads(len(pads))
	}
	return pads, err
}

// Stop tears the bin back down to Ready, unblocking anything mid-expose.
func (b *Bin) Stop() {
	b.Coordinator.PausedToReady()
	b.mu.Lock()
	b.started = false
	b.mu.Unlock()
}

func outcomeLabel(o autoplug.Outcome) string {
	switch o {
	case autoplug.OutcomeExpose:
		return "expose"
	case autoplug.OutcomeDiscarded:
		return "discarded"
	case autoplug.OutcomeUnknown:
		return "unknown"
	case autoplug.OutcomeNonFixedDelay:
		return "non_fixed_delay"
	case autoplug.OutcomeRecursed:
		return "recursed"
	default:
		return "unknown"
	}
}
