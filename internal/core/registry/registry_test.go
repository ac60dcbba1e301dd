package registry

import "testing"
import "github.com/alxayo/go-decodebin/internal/core/caps"

func h264SinkCaps() caps.Caps {
	return caps.New("video/x-h264", map[string]caps.Value{"profile": caps.String("high")})
}

func newParserFactory(name string, rank int) *Factory {
	return &Factory{
		Name:      name,
		Kind:      KindParser,
		Rank:      rank,
		ClassName: "Codec/Parser/Converter/Video",
		PadTemplates: []PadTemplate{
			{Name: "sink", Direction: DirSink, Presence: PresenceAlways, Caps: h264SinkCaps()},
			{Name: "src", Direction: DirSource, Presence: PresenceAlways, Caps: h264SinkCaps()},
		},
	}
}

func newDecoderFactory(name string, rank int) *Factory {
	return &Factory{
		Name:      name,
		Kind:      KindDecoder,
		Rank:      rank,
		ClassName: "Codec/Decoder/Video",
		PadTemplates: []PadTemplate{
			{Name: "sink", Direction: DirSink, Presence: PresenceAlways, Caps: h264SinkCaps()},
			{Name: "src", Direction: DirSource, Presence: PresenceAlways, Caps: caps.New("video/x-raw", nil)},
		},
	}
}

func TestLookupOrdering(t *testing.T) {
	r := NewDefaultRegistry()
	r.Add(newDecoderFactory("zdecoder", 200))
	r.Add(newParserFactory("h264parse", 100))
	r.Add(newDecoderFactory("adecoder", 200))

	got := r.Lookup(h264SinkCaps())
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if !got[0].IsParser() {
		t.Fatalf("expected parser first, got %s", got[0].Name)
	}
	if got[1].Name != "adecoder" || got[2].Name != "zdecoder" {
		t.Fatalf("expected decoders sorted by name ascending, got %s then %s", got[1].Name, got[2].Name)
	}
}

func TestLookupNoMatch(t *testing.T) {
	r := NewDefaultRegistry()
	r.Add(newDecoderFactory("adecoder", 200))
	got := r.Lookup(caps.New("audio/mpeg", nil))
	if len(got) != 0 {
		t.Fatalf("expected no matches for unrelated caps, got %d", len(got))
	}
}

func TestCookieInvalidatesCache(t *testing.T) {
	r := NewDefaultRegistry()
	r.Add(newDecoderFactory("adecoder", 200))
	c1 := r.Cookie()
	_ = r.Lookup(h264SinkCaps())
	r.Add(newParserFactory("h264parse", 100))
	c2 := r.Cookie()
	if c1 == c2 {
		t.Fatalf("expected cookie to advance after Add")
	}
	got := r.Lookup(h264SinkCaps())
	if len(got) != 2 {
		t.Fatalf("expected cache to be rebuilt after cookie change, got %d matches", len(got))
	}
}

func TestIsDemuxerClassification(t *testing.T) {
	demux := &Factory{
		Name:      "tsdemux",
		Kind:      KindDemuxer,
		ClassName: "Codec/Demuxer",
		PadTemplates: []PadTemplate{
			{Name: "sink", Direction: DirSink, Presence: PresenceAlways},
			{Name: "video_%u", Direction: DirSource, Presence: PresenceSometimes},
			{Name: "audio_%u", Direction: DirSource, Presence: PresenceSometimes},
		},
	}
	if !demux.IsDemuxer() {
		t.Fatalf("expected tsdemux to classify as a demuxer")
	}

	notEnoughPads := &Factory{
		Name:      "idparse",
		Kind:      KindDemuxer,
		ClassName: "Codec/Demuxer",
		PadTemplates: []PadTemplate{
			{Name: "sink", Direction: DirSink, Presence: PresenceAlways},
			{Name: "src", Direction: DirSource, Presence: PresenceAlways},
		},
	}
	if notEnoughPads.IsDemuxer() {
		t.Fatalf("expected single-output factory to not classify as a demuxer")
	}

	wrongClass := &Factory{
		Name:      "videoconvert",
		Kind:      KindConverter,
		ClassName: "Filter/Converter/Video",
		PadTemplates: []PadTemplate{
			{Name: "sink", Direction: DirSink, Presence: PresenceAlways},
			{Name: "src", Direction: DirSource, Presence: PresenceAlways},
		},
	}
	if wrongClass.IsDemuxer() {
		t.Fatalf("expected non-Demux class to not classify as a demuxer")
	}
}
