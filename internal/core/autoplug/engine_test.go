package autoplug

import (
	"testing"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/chain"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

// fakeBuilder instantiates a BaseElement with pads matching the factory's
// templates and accepts negotiation unless the factory is listed in
// rejectSinkCaps, standing in for a host
// framework's real element construction.
type fakeBuilder struct {
	rejectSinkCaps map[string]bool // factory name -> force-reject AcceptsCaps
}

func (b *fakeBuilder) Instantiate(f *registry.Factory) (element.Element, error) {
	e := element.NewBaseElement(f.Name)
	for _, t := range f.PadTemplates {
		p := element.NewPad(t.Name, t.Direction, e)
		e.AddPad(p)
		if t.Direction == registry.DirSource && t.Presence == registry.PresenceAlways {
			// Stand in for real dataflow: announce the template's declared
			// caps on the new source pad immediately, as if negotiation
			// had already produced them.
			_ = p.PushEvent(element.NewCapsEvent(t.Caps))
		}
	}
	return e, nil
}

func (b *fakeBuilder) SinkPad(e element.Element) (*element.Pad, error) {
	for _, p := range e.Pads() {
		if p.Direction() == registry.DirSink {
			return p, nil
		}
	}
	return nil, errNoSink
}

func (b *fakeBuilder) TransitionReady(e element.Element) error { return e.SetState(element.StateReady) }
func (b *fakeBuilder) TransitionPaused(e element.Element) error {
	return e.SetState(element.StatePaused)
}

func (b *fakeBuilder) AcceptsCaps(sinkPad *element.Pad, c caps.Caps) bool {
	if b.rejectSinkCaps != nil && b.rejectSinkCaps[sinkPad.Owner().Name()] {
		return false
	}
	return true
}

func (b *fakeBuilder) Teardown(e element.Element)                                      {}
func (b *fakeBuilder) ConfigureProperties(e element.Element, speed uint64, sub string) {}

type errString string

func (e errString) Error() string { return string(e) }

const errNoSink = errString("no sink pad")

func h264Caps() caps.Caps {
	return caps.New("video/x-h264", map[string]caps.Value{"profile": caps.String("high")})
}

func rawCaps() caps.Caps {
	return caps.New("video/x-raw", nil)
}

func parserFactory() *registry.Factory {
	return &registry.Factory{
		Name:      "h264parse",
		Kind:      registry.KindParser,
		Rank:      100,
		ClassName: "Codec/Parser/Converter/Video",
		PadTemplates: []registry.PadTemplate{
			{Name: "sink", Direction: registry.DirSink, Presence: registry.PresenceAlways, Caps: h264Caps()},
			{Name: "src", Direction: registry.DirSource, Presence: registry.PresenceAlways, Caps: h264Caps()},
		},
	}
}

func decoderFactory() *registry.Factory {
	return &registry.Factory{
		Name:      "h264dec",
		Kind:      registry.KindDecoder,
		Rank:      200,
		ClassName: "Codec/Decoder/Video",
		PadTemplates: []registry.PadTemplate{
			{Name: "sink", Direction: registry.DirSink, Presence: registry.PresenceAlways, Caps: h264Caps()},
			{Name: "src", Direction: registry.DirSource, Presence: registry.PresenceAlways, Caps: rawCaps()},
		},
	}
}

func newTestEngine(t *testing.T, builder Builder) (*Engine, *chain.Arena) {
	t.Helper()
	reg := registry.NewDefaultRegistry()
	reg.Add(parserFactory())
	reg.Add(decoderFactory())
	arena := chain.NewArena()
	eng := NewEngine(reg, arena, builder, Config{})
	return eng, arena
}

func TestAnalyzePadEmptyCapsMarksDeadend(t *testing.T) {
	eng, arena := newTestEngine(t, &fakeBuilder{})
	node := arena.NewChain(chain.GroupId{}, nil)
	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)

	outcome, err := eng.AnalyzePad(src, pad, caps.Empty(), node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeUnknown || !node.IsDeadend() {
		t.Fatalf("expected Unknown+deadend for empty caps, got %v deadend=%v", outcome, node.IsDeadend())
	}
}

func TestAnalyzePadAnyCapsDelaysDecision(t *testing.T) {
	eng, arena := newTestEngine(t, &fakeBuilder{})
	node := arena.NewChain(chain.GroupId{}, nil)
	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)

	outcome, err := eng.AnalyzePad(src, pad, caps.Any(), node)
	if err != nil || outcome != OutcomeNonFixedDelay {
		t.Fatalf("expected NonFixedDelay for Any caps, got %v err=%v", outcome, err)
	}
}

func TestAnalyzePadExposesRawCapsAtStopSet(t *testing.T) {
	eng, arena := newTestEngine(t, &fakeBuilder{})
	node := arena.NewChain(chain.GroupId{}, nil)
	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)

	outcome, err := eng.AnalyzePad(src, pad, rawCaps(), node)
	if err != nil || outcome != OutcomeExpose {
		t.Fatalf("expected Expose at stop caps, got %v err=%v", outcome, err)
	}
	if node.EndPad() == nil {
		t.Fatalf("expected end pad to be recorded")
	}
}

func TestAnalyzePadRecursesThroughParserAndDecoder(t *testing.T) {
	eng, arena := newTestEngine(t, &fakeBuilder{})
	node := arena.NewChain(chain.GroupId{}, nil)
	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)

	outcome, err := eng.AnalyzePad(src, pad, h264Caps(), node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeRecursed {
		t.Fatalf("expected Recursed outcome, got %v", outcome)
	}
	if node.EndPad() == nil {
		t.Fatalf("expected chain to terminate at an exposable raw end pad")
	}
	if !node.EndCaps().Equals(rawCaps()) {
		t.Fatalf("expected end caps to be raw, got %v", node.EndCaps())
	}
}

func TestAnalyzePadSkipsFactoryThatRejectsCaps(t *testing.T) {
	builder := &fakeBuilder{rejectSinkCaps: map[string]bool{"h264dec": true}}
	eng, arena := newTestEngine(t, builder)
	node := arena.NewChain(chain.GroupId{}, nil)
	src := element.NewBaseElement("src")
	pad := element.NewPad("src", registry.DirSource, src)

	outcome, err := eng.AnalyzePad(src, pad, h264Caps(), node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// h264parse connects first; its src pad re-enters analysis with h264
	// caps, where h264parse is skipped as already in the chain and h264dec
	// is rejected post-Ready, so the parser's output stays Unknown.
	if outcome != OutcomeRecursed {
		t.Fatalf("expected parser to still connect even though the decoder rejected, got %v", outcome)
	}
	if !node.HasTriedFactory("h264dec") {
		t.Fatalf("expected rejected factory to be blacklisted on the chain")
	}
}
