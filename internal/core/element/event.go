package element

import "github.com/alxayo/go-decodebin/internal/core/caps"

// EventType enumerates the sticky and non-sticky events a Pad carries
// (spec §3 "Pads carry sticky events"; §5 "sticky events on a given pad
// are ordered").
type EventType int

const (
	EventCaps EventType = iota
	EventStreamStart
	EventStreamCollection
	EventSegment
	EventTag
	EventEOS
	EventCustomEOS // internal/core/buffering's converted EOS, spec §4.D
	EventFlushStart
	EventFlushStop
)

func (t EventType) String() string {
	switch t {
	case EventCaps:
		return "caps"
	case EventStreamStart:
		return "stream-start"
	case EventStreamCollection:
		return "stream-collection"
	case EventSegment:
		return "segment"
	case EventTag:
		return "tag"
	case EventEOS:
		return "eos"
	case EventCustomEOS:
		return "custom-eos"
	case EventFlushStart:
		return "flush-start"
	case EventFlushStop:
		return "flush-stop"
	default:
		return "unknown"
	}
}

// Sticky reports whether this event type is sticky — i.e. retained on the
// pad and replayed to new targets — per spec §3/§5: caps, stream-start,
// stream-collection, segment and tags are sticky; EOS/flush/custom-eos are
// serialized but not sticky.
func (t EventType) Sticky() bool {
	switch t {
	case EventCaps, EventStreamStart, EventStreamCollection, EventSegment, EventTag:
		return true
	default:
		return false
	}
}

// Event is a single pad event. Only the fields relevant to its Type are
// meaningful.
type Event struct {
	Type     EventType
	Caps     caps.Caps
	StreamID string
	Tags     map[string]string
}

func NewCapsEvent(c caps.Caps) Event { return Event{Type: EventCaps, Caps: c} }
func NewStreamStartEvent(streamID string) Event {
	return Event{Type: EventStreamStart, StreamID: streamID}
}
func NewSegmentEvent() Event                   { return Event{Type: EventSegment} }
func NewTagEvent(tags map[string]string) Event { return Event{Type: EventTag, Tags: tags} }
func NewEOSEvent() Event                       { return Event{Type: EventEOS} }
func NewCustomEOSEvent() Event                 { return Event{Type: EventCustomEOS} }
