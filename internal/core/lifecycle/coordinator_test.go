package lifecycle

import (
	"context"
	"testing"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/chain"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
	coreerrors "github.com/alxayo/go-decodebin/internal/errors"
)

func TestNullToReadyThenReadyToPaused(t *testing.T) {
	arena := chain.NewArena()
	root := arena.NewChain(chain.GroupId{}, nil)
	c := NewCoordinator(arena, func() *chain.ChainNode { return root })

	if err := c.NullToReady(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ran := false
	if err := c.ReadyToPaused(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatalf("expected runSource to be invoked")
	}
	if c.State() != BinPaused {
		t.Fatalf("expected state Paused, got %v", c.State())
	}
}

func TestPausedToReadyUnblocksPads(t *testing.T) {
	arena := chain.NewArena()
	root := arena.NewChain(chain.GroupId{}, nil)
	c := NewCoordinator(arena, func() *chain.ChainNode { return root })

	pad := element.NewPad("src", registry.DirSource, nil)
	c.blockPad(pad)

	c.PausedToReady()

	errc := make(chan error, 1)
	go func() { errc <- pad.Push(element.Buffer{}) }()
	if err := <-errc; !coreerrors.IsFlushing(err) {
		t.Fatalf("expected blocked pad to be released with a flushing error, got %v", err)
	}
}

func TestExposeReturnsMissingPluginWhenOnlyDeadends(t *testing.T) {
	arena := chain.NewArena()
	root := arena.NewChain(chain.GroupId{}, nil)
	root.MarkDeadend(caps.Empty())
	c := NewCoordinator(arena, func() *chain.ChainNode { return root })

	_, err := c.Expose()
	if !coreerrors.IsCoreError(err) {
		t.Fatalf("expected a core error, got %v", err)
	}
}

func TestExposeCollectsFreshEndPads(t *testing.T) {
	arena := chain.NewArena()
	root := arena.NewChain(chain.GroupId{}, nil)
	pad := element.NewPad("src", registry.DirSource, nil)
	root.SetEndPad(pad, caps.New("audio/x-raw", nil))
	c := NewCoordinator(arena, func() *chain.ChainNode { return root })

	exposedCalled := false
	c.OnNoMorePads = func() { exposedCalled = true }

	out, err := c.Expose()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 exposed pad, got %d", len(out))
	}
	if !exposedCalled {
		t.Fatalf("expected no-more-pads callback to fire")
	}
	if !root.EndPad().Exposed {
		t.Fatalf("expected end pad to be marked exposed")
	}
}

func TestExposeIdempotentWhenAlreadyExposed(t *testing.T) {
	arena := chain.NewArena()
	root := arena.NewChain(chain.GroupId{}, nil)
	pad := element.NewPad("src", registry.DirSource, nil)
	root.SetEndPad(pad, caps.New("audio/x-raw", nil))
	c := NewCoordinator(arena, func() *chain.ChainNode { return root })

	calls := 0
	c.OnNoMorePads = func() { calls++ }
	if _, err := c.Expose(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Expose(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected no-more-pads to fire only once, got %d", calls)
	}
}

func TestExposeReturnsFlushingAfterShutdown(t *testing.T) {
	arena := chain.NewArena()
	root := arena.NewChain(chain.GroupId{}, nil)
	c := NewCoordinator(arena, func() *chain.ChainNode { return root })
	c.PausedToReady()

	_, err := c.Expose()
	if !coreerrors.IsFlushing(err) {
		t.Fatalf("expected flushing error after shutdown, got %v", err)
	}
}
