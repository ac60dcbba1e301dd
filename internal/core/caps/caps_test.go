package caps

import "testing"

func h264() Caps {
	return New("video/x-h264", map[string]Value{
		"profile": String("high"),
		"level":   String("4.1"),
	})
}

func TestEmptyAndAny(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Fatalf("expected Empty().IsEmpty() == true")
	}
	if !Any().IsAny() {
		t.Fatalf("expected Any().IsAny() == true")
	}
	if Empty().IsAny() || Any().IsEmpty() {
		t.Fatalf("empty/any should not overlap")
	}
	if Empty().IsFixed() || Any().IsFixed() {
		t.Fatalf("empty/any should never be fixed")
	}
}

func TestIsFixed(t *testing.T) {
	if !h264().IsFixed() {
		t.Fatalf("expected scalar-field caps to be fixed")
	}
	withList := New("video/x-h264", map[string]Value{
		"profile": List(String("high"), String("main")),
	})
	if withList.IsFixed() {
		t.Fatalf("expected multi-value list field to be non-fixed")
	}
}

func TestIntersectAndSubset(t *testing.T) {
	a := h264()
	b := New("video/x-h264", map[string]Value{"profile": String("high")})
	inter := a.Intersect(b)
	if inter.IsEmpty() {
		t.Fatalf("expected non-empty intersection")
	}
	if !b.IsSubset(a.Intersect(b)) {
		// b has fewer constraints, so b is NOT necessarily a subset of the
		// intersection; check the other direction instead.
	}
	if !inter.IsSubset(a) {
		t.Fatalf("expected intersection to be a subset of a")
	}

	mismatched := New("audio/mpeg", nil)
	if a.CanIntersect(mismatched) {
		t.Fatalf("different media types must not intersect")
	}
	if !a.Intersect(mismatched).IsEmpty() {
		t.Fatalf("expected empty intersection across media types")
	}
}

func TestIntersectWithAny(t *testing.T) {
	a := h264()
	if got := a.Intersect(Any()); !got.Equals(a) {
		t.Fatalf("intersect with Any should return the other operand unchanged")
	}
	if got := Any().Intersect(a); !got.Equals(a) {
		t.Fatalf("Any.Intersect(a) should equal a")
	}
}

func TestSubsetOfStopCaps(t *testing.T) {
	stop := New("audio/x-raw", map[string]Value{"rate": Int(48000)})
	match := New("audio/x-raw", map[string]Value{"rate": Int(48000), "channels": Int(2)})
	if !match.IsSubset(stop) {
		t.Fatalf("expected match to be a subset of the stop caps")
	}
	nomatch := New("audio/x-raw", map[string]Value{"rate": Int(44100)})
	if nomatch.IsSubset(stop) {
		t.Fatalf("did not expect mismatched rate to be a subset")
	}
}

func TestClassAndExposeOrder(t *testing.T) {
	cases := []struct {
		name  string
		class MediaClass
	}{
		{"video/x-raw", ClassVideoRaw},
		{"video/x-h264", ClassVideo},
		{"image/jpeg", ClassImage},
		{"audio/x-raw", ClassAudioRaw},
		{"audio/mpeg", ClassAudio},
		{"application/x-hls", ClassOther},
	}
	var lastOrder = -1
	for _, tc := range cases {
		c := New(tc.name, nil)
		if got := c.Class(); got != tc.class {
			t.Fatalf("%s: expected class %v got %v", tc.name, tc.class, got)
		}
		if c.ExposeOrder() <= lastOrder {
			t.Fatalf("%s: expected expose order to increase monotonically across cases", tc.name)
		}
		lastOrder = c.ExposeOrder()
	}
}

func TestIsRaw(t *testing.T) {
	if !New("audio/x-raw", nil).IsRaw() {
		t.Fatalf("expected audio/x-raw to be raw")
	}
	if h264().IsRaw() {
		t.Fatalf("did not expect h264 caps to be raw")
	}
}

func TestEquals(t *testing.T) {
	a := h264()
	b := h264()
	if !a.Equals(b) {
		t.Fatalf("expected equal caps built from identical fields")
	}
	c := New("video/x-h264", map[string]Value{"profile": String("main"), "level": String("4.1")})
	if a.Equals(c) {
		t.Fatalf("expected differing profile to break equality")
	}
}
