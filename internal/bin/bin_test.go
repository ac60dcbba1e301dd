package bin

import (
	"context"
	"testing"

	"github.com/alxayo/go-decodebin/internal/core/autoplug"
	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

// noopBuilder never gets invoked in this test: the source pad already
// carries caps at the configured stop set, so AnalyzePad exposes it
// immediately without instantiating any downstream element.
type noopBuilder struct{}

func (noopBuilder) Instantiate(f *registry.Factory) (element.Element, error) { return nil, nil }
func (noopBuilder) SinkPad(e element.Element) (*element.Pad, error)          { return nil, nil }
func (noopBuilder) TransitionReady(e element.Element) error                  { return nil }
func (noopBuilder) TransitionPaused(e element.Element) error                 { return nil }
func (noopBuilder) AcceptsCaps(sinkPad *element.Pad, c caps.Caps) bool       { return true }
func (noopBuilder) Teardown(e element.Element)                               {}
func (noopBuilder) ConfigureProperties(e element.Element, connectionSpeed uint64, subtitleEncoding string) {
}

func TestBinStartExposesRawSourceImmediately(t *testing.T) {
	reg := registry.NewDefaultRegistry()
	b := New(Config{StopCapsName: "video/x-raw"}, reg, noopBuilder{})

	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)
	src.AddPad(pad)
	if err := pad.PushEvent(element.NewCapsEvent(caps.New("video/x-raw", nil))); err != nil {
		t.Fatalf("push caps: %v", err)
	}

	if err := b.Start(context.Background(), src, pad); err != nil {
		t.Fatalf("start: %v", err)
	}

	pads, err := b.Expose()
	if err != nil {
		t.Fatalf("expose: %v", err)
	}
	if len(pads) != 1 {
		t.Fatalf("expected 1 exposed pad, got %d", len(pads))
	}
}

func TestBinStartTwiceFails(t *testing.T) {
	reg := registry.NewDefaultRegistry()
	b := New(Config{}, reg, noopBuilder{})

	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)
	src.AddPad(pad)
	_ = pad.PushEvent(element.NewCapsEvent(caps.New("video/x-raw", nil)))

	if err := b.Start(context.Background(), src, pad); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := b.Start(context.Background(), src, pad); err == nil {
		t.Fatalf("expected second start to fail")
	}
}

func TestOutcomeLabelCoversAllOutcomes(t *testing.T) {
	cases := []autoplug.Outcome{
		autoplug.OutcomeExpose, autoplug.OutcomeDiscarded, autoplug.OutcomeUnknown,
		autoplug.OutcomeNonFixedDelay, autoplug.OutcomeRecursed,
	}
	for _, c := range cases {
		if outcomeLabel(c) == "" {
			t.Errorf("expected non-empty label for %v", c)
		}
	}
}
