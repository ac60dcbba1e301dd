// Package registry models the Element Registry external collaborator from
// spec §1: "enumerates candidate handler factories filtered by capability
// and rank; provides a compatibility test factory_accepts(caps) -> bool."
// The registry itself (what factories exist, their rank) is owned by the
// host framework; this package defines the shapes Autoplug needs plus a
// DefaultRegistry good enough to drive tests and the CLI demo.
package registry

import (
	"sort"
	"strings"

	"github.com/alxayo/go-decodebin/internal/core/caps"
)

// Kind is the factory category from spec §3.
type Kind int

const (
	KindDemuxer Kind = iota
	KindParser
	KindDecoder
	KindConverter
	KindSource
	KindSink
)

func (k Kind) String() string {
	switch k {
	case KindDemuxer:
		return "Demuxer"
	case KindParser:
		return "Parser"
	case KindDecoder:
		return "Decoder"
	case KindConverter:
		return "Converter"
	case KindSource:
		return "Source"
	case KindSink:
		return "Sink"
	default:
		return "Unknown"
	}
}

// Direction is a pad template's data-flow direction.
type Direction int

const (
	DirSink Direction = iota
	DirSource
)

// Presence is a pad template's availability mode (spec §3 Factory).
type Presence int

const (
	PresenceAlways Presence = iota
	PresenceSometimes
	PresenceRequest
)

// PadTemplate describes one input/output pad a Factory's elements may expose.
type PadTemplate struct {
	Name      string // e.g. "sink", "src_%u" (format-substituted Sometimes template)
	Direction Direction
	Presence  Presence
	Caps      caps.Caps
}

// hasFormatSubstitution reports whether the template name contains a
// printf-style substitution, the same convention GStreamer pad templates
// use for dynamically numbered Sometimes pads (e.g. "src_%u").
func (t PadTemplate) hasFormatSubstitution() bool {
	return strings.Contains(t.Name, "%")
}

// Factory describes an installable handler (spec §3 Factory).
type Factory struct {
	Name         string
	Kind         Kind
	Rank         int    // higher = preferred
	ClassName    string // e.g. "Codec/Demuxer/Container", mirrors GstElementFactory klass
	PadTemplates []PadTemplate

	// New instantiates a fresh element for this factory. Left nil in
	// factories used purely for planning/tests.
	New func() any
}

// SinkTemplates returns this factory's sink-direction pad templates.
func (f *Factory) SinkTemplates() []PadTemplate {
	var out []PadTemplate
	for _, t := range f.PadTemplates {
		if t.Direction == DirSink {
			out = append(out, t)
		}
	}
	return out
}

// SourceTemplates returns this factory's source-direction pad templates.
func (f *Factory) SourceTemplates() []PadTemplate {
	var out []PadTemplate
	for _, t := range f.PadTemplates {
		if t.Direction == DirSource {
			out = append(out, t)
		}
	}
	return out
}

// Accepts implements the external collaborator's factory_accepts(caps) bool:
// true iff any sink pad template's caps can intersect with c.
func (f *Factory) Accepts(c caps.Caps) bool {
	for _, t := range f.SinkTemplates() {
		if t.Caps.CanIntersect(c) {
			return true
		}
	}
	return false
}

// IsParser reports whether the factory's class marks it a Parser (also
// usable in the "Parser and Converter" combined-class check of spec §4.B
// step 9).
func (f *Factory) IsParser() bool {
	return f.Kind == KindParser || strings.Contains(f.ClassName, "Parser")
}

func (f *Factory) IsConverter() bool {
	return f.Kind == KindConverter || strings.Contains(f.ClassName, "Converter")
}

// potentialSourcePadCount implements spec §4.B's demuxer source-pad count
// heuristic: Always/Sometimes count 1 each, a Sometimes template whose name
// has a format substitution (numbered pads, e.g. "src_%u") counts 2, and
// Request counts 2.
func (f *Factory) potentialSourcePadCount() int {
	n := 0
	for _, t := range f.SourceTemplates() {
		switch t.Presence {
		case PresenceAlways:
			n++
		case PresenceSometimes:
			if t.hasFormatSubstitution() {
				n += 2
			} else {
				n++
			}
		case PresenceRequest:
			n += 2
		}
	}
	return n
}

// IsDemuxer implements the classification rule from spec §4.B: class string
// contains "Demux" AND source pad templates collectively indicate >= 2
// potential pads.
func (f *Factory) IsDemuxer() bool {
	if !strings.Contains(f.ClassName, "Demux") {
		return false
	}
	return f.potentialSourcePadCount() >= 2
}

// sortFactories orders candidates as spec §4.B step 6 describes: parsers
// before non-parsers, then rank descending, then name ascending.
func sortFactories(fs []*Factory) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.IsParser() != b.IsParser() {
			return a.IsParser()
		}
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		return a.Name < b.Name
	})
}
