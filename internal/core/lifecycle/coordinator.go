// Package lifecycle implements the state-transition and tree-reshaping
// half of spec §4.E: NullToReady/ReadyToPaused/PausedToReady, the expose
// procedure, drain/group-switching, and gapless play-item switching.
// Grounded on the teacher's Connection (internal/rtmp/conn/conn.go):
// context.Context + cancel for shutdown, sync.WaitGroup for outstanding
// work, generalized from one TCP connection's lifecycle to the bin's.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/chain"
	"github.com/alxayo/go-decodebin/internal/core/element"
	coreerrors "github.com/alxayo/go-decodebin/internal/errors"
	"github.com/alxayo/go-decodebin/internal/logger"
)

// BinState is the coordinator's own state machine (distinct from an
// individual element.State), spec §4.E's Null/Ready/Paused/Playing subset.
type BinState int

const (
	BinNull BinState = iota
	BinReady
	BinPaused
	BinPlaying
)

// ExposedPad is one leaf handed to the outside world after an expose pass.
type ExposedPad struct {
	StreamID string
	Pad      *element.Pad
	Caps     caps.Caps
}

// Coordinator owns the root chain, the expose/dyn locks spec §5 names, and
// the currently exposed pad set.
type Coordinator struct {
	Arena *chain.Arena

	// state-change lock (spec §5 lock #1)
	stateMu sync.Mutex
	state   BinState

	// expose lock (#2)
	exposeMu sync.Mutex

	// dyn lock (#3): shutdown flag + blocked-pad bookkeeping
	dynMu       sync.Mutex
	shutdown    atomic.Bool
	blockedPads []*element.Pad

	root ChainRootFunc

	exposed map[string]ExposedPad // keyed by stream id

	asyncPending atomic.Bool

	log *slog.Logger

	OnAsyncDone        func(err error)
	OnDrained          func()
	OnNoMorePads       func()
	OnTopology         func(root chain.ChainId)
	PostStreamTopology bool
}

// ChainRootFunc supplies (or lazily builds) the root ChainNode; the Source
// Acquirer owns construction, the coordinator only walks it.
type ChainRootFunc func() *chain.ChainNode

func NewCoordinator(arena *chain.Arena, root ChainRootFunc) *Coordinator {
	return &Coordinator{
		Arena:   arena,
		root:    root,
		exposed: make(map[string]ExposedPad),
		log:     logger.Logger().With("component", "lifecycle"),
	}
}

func (c *Coordinator) State() BinState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// NullToReady requires a type-finder to exist upstream; here that's a
// precondition checked by the caller (the source acquirer owns it) — the
// coordinator just records the transition.
func (c *Coordinator) NullToReady(ctx context.Context) error {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	if c.state != BinNull {
		return coreerrors.NewNegotiationFailedError("lifecycle.NullToReady", nil)
	}
	c.state = BinReady
	return nil
}

// ReadyToPaused clears the shutdown flag, begins async-start, and runs the
// Source Acquirer via runSource; ReturnAsync semantics are modeled by
// OnAsyncDone firing once Expose later completes or fails.
func (c *Coordinator) ReadyToPaused(ctx context.Context, runSource func(context.Context) error) error {
	c.stateMu.Lock()
	if c.state != BinReady {
		c.stateMu.Unlock()
		return coreerrors.NewNegotiationFailedError("lifecycle.ReadyToPaused", nil)
	}
	c.state = BinPaused
	c.stateMu.Unlock()

	c.shutdown.Store(false)
	c.asyncPending.Store(true)
	c.log.Info("async-start")

	if err := runSource(ctx); err != nil {
		c.finishAsync(err)
		return err
	}
	return nil
}

// finishAsync emits async_done exactly once expose completes or an
// unrecoverable error surfaces (spec §5 "Async-start/done handshake").
func (c *Coordinator) finishAsync(err error) {
	if !c.asyncPending.CompareAndSwap(true, false) {
		return
	}
	c.log.Info("async-done", "err", err)
	if c.OnAsyncDone != nil {
		c.OnAsyncDone(err)
	}
}

// PausedToReady sets the shutdown flag, forcibly unblocks every blocked
// pad, and frees the root chain (spec §4.E).
func (c *Coordinator) PausedToReady() {
	c.dynMu.Lock()
	c.shutdown.Store(true)
	blocked := c.blockedPads
	c.blockedPads = nil
	c.dynMu.Unlock()

	for _, p := range blocked {
		p.Shutdown()
	}

	if c.root != nil {
		if r := c.root(); r != nil {
			c.Arena.FreeChain(r.ID())
		}
	}

	c.stateMu.Lock()
	c.state = BinReady
	c.stateMu.Unlock()
}

func (c *Coordinator) blockPad(p *element.Pad) {
	p.Block()
	c.dynMu.Lock()
	c.blockedPads = append(c.blockedPads, p)
	c.dynMu.Unlock()
}

func (c *Coordinator) unblockPad(p *element.Pad) {
	p.Unblock()
	c.dynMu.Lock()
	for i, bp := range c.blockedPads {
		if bp == p {
			c.blockedPads = append(c.blockedPads[:i], c.blockedPads[i+1:]...)
			break
		}
	}
	c.dynMu.Unlock()
}
