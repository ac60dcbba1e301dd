package bin

import (
	"testing"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

type fakeDecoder struct {
	*element.BaseElement
}

var fakeDecoderFactory = &registry.Factory{
	Name:      "fakedec",
	Kind:      registry.KindDecoder,
	ClassName: "Codec/Decoder",
	PadTemplates: []registry.PadTemplate{
		{Name: "sink", Direction: registry.DirSink, Presence: registry.PresenceAlways, Caps: caps.New("video/x-h264", nil)},
		{Name: "src", Direction: registry.DirSource, Presence: registry.PresenceAlways, Caps: caps.New("video/x-raw", nil)},
	},
	New: func() any {
		return &fakeDecoder{BaseElement: element.NewBaseElement("fakedec")}
	},
}

func TestDefaultBuilderInstantiateAndSinkPad(t *testing.T) {
	b := NewDefaultBuilder()
	e, err := b.Instantiate(fakeDecoderFactory)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	sink, err := b.SinkPad(e)
	if err != nil {
		t.Fatalf("sink pad: %v", err)
	}
	if sink.Name() != "sink" {
		t.Errorf("expected sink pad named sink, got %s", sink.Name())
	}

	if !b.AcceptsCaps(sink, caps.New("video/x-h264", nil)) {
		t.Errorf("expected h264 caps to be accepted")
	}
	if b.AcceptsCaps(sink, caps.New("audio/mpeg", nil)) {
		t.Errorf("expected audio caps to be rejected")
	}
}

func TestDefaultBuilderTeardownForgetsFactory(t *testing.T) {
	b := NewDefaultBuilder()
	e, _ := b.Instantiate(fakeDecoderFactory)
	sink, _ := b.SinkPad(e)

	b.Teardown(e)

	if !b.AcceptsCaps(sink, caps.New("anything/unknown", nil)) {
		t.Errorf("expected unknown factory to default-accept")
	}
}
