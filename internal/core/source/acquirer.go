// Package source implements the Source Acquirer from spec §4.A: classifies
// a URI, attaches a type-finder when needed, and reorders redirect
// candidates by connection speed. Grounded on the teacher's server listener
// (internal/rtmp/server/server.go accepting + classifying inbound
// connections) and enriched with bluenviron/gohlslib for the adaptive
// (HLS) source class named in spec §4.A's classification rules.
package source

import (
	"net/url"
	"strings"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	coreerrors "github.com/alxayo/go-decodebin/internal/errors"
)

// Class is one of spec §4.A's four URI classifications.
type Class int

const (
	ClassPlain Class = iota
	ClassQueue
	ClassStream
	ClassAdaptive
)

func (c Class) String() string {
	switch c {
	case ClassPlain:
		return "plain"
	case ClassQueue:
		return "queue"
	case ClassStream:
		return "stream"
	case ClassAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// SchedulingHint mirrors the "scheduling query" spec §4.A runs against the
// constructed source element.
type SchedulingHint int

const (
	SchedulingUnknown SchedulingHint = iota
	SchedulingBandwidthLimited
	SchedulingSeekable
)

// Properties are the user-settable knobs spec §4.A's Contract names.
type Properties struct {
	ConnectionSpeed uint64 // kbit/s
	IsLive          bool
	Download        bool
	RingBufferSize  uint64
}

// Classify implements spec §4.A's classification rules: scheme match plus
// a scheduling-query override, with the is-live veto on "stream".
func Classify(rawURI string, hint SchedulingHint, props Properties) (Class, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return ClassPlain, coreerrors.NewSourceConstructionError("source.Classify", rawURI, err)
	}

	if props.IsLive {
		// A live source is never "stream" regardless of scheme/hint.
		if strings.HasSuffix(strings.ToLower(u.Path), ".m3u8") {
			return ClassAdaptive, nil
		}
		return ClassQueue, nil
	}

	if strings.HasSuffix(strings.ToLower(u.Path), ".m3u8") || strings.EqualFold(u.Scheme, "hls") {
		return ClassAdaptive, nil
	}

	if hint == SchedulingBandwidthLimited {
		return ClassStream, nil
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "rtmp", "rtsp":
		return ClassQueue, nil
	case "file", "":
		return ClassPlain, nil
	default:
		return ClassQueue, nil
	}
}

// Outcome describes how the Source Acquirer hands off to Autoplug, spec
// §4.A's Output contract.
type Outcome int

const (
	OutcomeBypassToBuffering Outcome = iota // entirely raw output
	OutcomeDynamicPads
	OutcomeTypeFind
)

// Inspect classifies the constructed source element's static pads and
// decides whether Autoplug needs to run at all (spec §4.A: "If the source
// output is entirely raw caps: bypass Autoplug").
func Inspect(pads []*element.Pad) (Outcome, error) {
	if len(pads) == 0 {
		return OutcomeDynamicPads, nil
	}
	allRaw := true
	for _, p := range pads {
		c := p.CurrentCaps()
		if c.IsEmpty() || c.IsAny() {
			return OutcomeTypeFind, nil
		}
		if !c.IsRaw() {
			allRaw = false
		}
	}
	if allRaw {
		return OutcomeBypassToBuffering, nil
	}
	return OutcomeTypeFind, nil
}

// CheckTopLevelType implements spec §4.A: "If top-level type resolves to
// text/plain, fail with WrongType."
func CheckTopLevelType(c caps.Caps) error {
	if c.Name() == "text/plain" {
		return coreerrors.NewWrongTypeError("source.CheckTopLevelType", nil)
	}
	return nil
}
