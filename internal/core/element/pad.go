package element

import (
	"fmt"
	"sync"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/registry"
	"github.com/alxayo/go-decodebin/internal/errors"
)

// Buffer is a unit of data flowing across a Pad link. Payload is opaque to
// this package; only Size/PTS matter to the buffering and lifecycle layers.
type Buffer struct {
	Payload []byte
	PTS     int64
	Size    int
}

// Pad is one input/output connection point on an Element (spec §3 Pad:
// "direction, current caps, link target, sticky events, blocked flag").
type Pad struct {
	mu sync.Mutex

	name      string
	direction registry.Direction
	owner     Element

	peer    *Pad
	caps    caps.Caps
	sticky  *StickyEvents
	probe   *BlockProbe
	flowing bool

	onBuffer func(*Pad, Buffer) error
	onEvent  func(*Pad, Event) error
}

// NewPad creates a detached pad. onBuffer/onEvent may be nil for source
// (output) pads that never receive data.
func NewPad(name string, dir registry.Direction, owner Element) *Pad {
	return &Pad{
		name:      name,
		direction: dir,
		owner:     owner,
		caps:      caps.Empty(),
		sticky:    NewStickyEvents(),
		probe:     NewBlockProbe(),
	}
}

func (p *Pad) Name() string                  { return p.name }
func (p *Pad) Direction() registry.Direction { return p.direction }
func (p *Pad) Owner() Element                { return p.owner }

// SetCallbacks installs the sink-side handlers a downstream element uses to
// receive buffers/events. Only meaningful on sink pads.
func (p *Pad) SetCallbacks(onBuffer func(*Pad, Buffer) error, onEvent func(*Pad, Event) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onBuffer = onBuffer
	p.onEvent = onEvent
}

// CurrentCaps returns the caps last negotiated on this pad.
func (p *Pad) CurrentCaps() caps.Caps {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.caps
}

// Link connects this source pad to a sink pad and replays sticky events
// (spec §4.B connect_pad: "on relink, replay sticky events to the new
// target so downstream state is reconstructed without re-deriving it").
func (p *Pad) Link(sink *Pad) error {
	if p.direction != registry.DirSource || sink.direction != registry.DirSink {
		return errors.NewLinkFailedError("element.Pad.Link", fmt.Errorf("direction mismatch: %s -> %s", p.name, sink.name))
	}
	p.mu.Lock()
	p.peer = sink
	events := p.sticky.All()
	p.mu.Unlock()

	sink.mu.Lock()
	sink.peer = p
	sink.mu.Unlock()

	for _, ev := range events {
		if err := sink.receiveEvent(ev); err != nil {
			return errors.NewLinkFailedError("element.Pad.Link", err)
		}
	}
	return nil
}

// Unlink detaches this pad from its peer, if any.
func (p *Pad) Unlink() {
	p.mu.Lock()
	peer := p.peer
	p.peer = nil
	p.mu.Unlock()
	if peer != nil {
		peer.mu.Lock()
		if peer.peer == p {
			peer.peer = nil
		}
		peer.mu.Unlock()
	}
}

func (p *Pad) Peer() *Pad {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peer
}

// Push sends a buffer downstream, honoring a block probe installed on this
// pad (spec §4.D: slots can block a pad while buffering/draining).
func (p *Pad) Push(buf Buffer) error {
	p.probe.WaitUnlessShutdown()
	if p.probe.ShuttingDown() {
		return errors.NewFlushingError("element.Pad.Push")
	}
	peer := p.Peer()
	if peer == nil {
		return errors.NewNoBuffersError("element.Pad.Push")
	}
	return peer.receiveBuffer(buf)
}

func (p *Pad) receiveBuffer(buf Buffer) error {
	p.mu.Lock()
	cb := p.onBuffer
	p.mu.Unlock()
	if cb == nil {
		return errors.NewNoBuffersError("element.Pad.receiveBuffer")
	}
	return cb(p, buf)
}

// PushEvent sends an event downstream, recording it if sticky (spec §3/§5).
func (p *Pad) PushEvent(ev Event) error {
	if ev.Type.Sticky() {
		p.mu.Lock()
		p.sticky.Record(ev)
		if ev.Type == EventCaps {
			p.caps = ev.Caps
		}
		p.mu.Unlock()
	}
	peer := p.Peer()
	if peer == nil {
		return nil
	}
	return peer.receiveEvent(ev)
}

func (p *Pad) receiveEvent(ev Event) error {
	if ev.Type.Sticky() {
		p.mu.Lock()
		p.sticky.Record(ev)
		if ev.Type == EventCaps {
			p.caps = ev.Caps
		}
		p.mu.Unlock()
	}
	p.mu.Lock()
	cb := p.onEvent
	p.mu.Unlock()
	if cb == nil {
		return nil
	}
	return cb(p, ev)
}

// SendEOS pushes a non-sticky end-of-stream event downstream.
func (p *Pad) SendEOS() error {
	return p.PushEvent(NewEOSEvent())
}

// Block installs (or re-engages) this pad's block probe, stalling Push
// until Unblock or Shutdown.
func (p *Pad) Block() { p.probe.Block() }

// Unblock releases a previously installed block.
func (p *Pad) Unblock() { p.probe.Unblock() }

// Shutdown permanently releases blocked pushers with a flushing error,
// used during teardown so no goroutine is left waiting on a probe.
func (p *Pad) Shutdown() { p.probe.Shutdown() }
