package autoplug

import (
	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

// Builder is the host-supplied adapter between a Factory and a runnable
// Element. The engine never constructs elements itself — it only decides
// which factory to try and in what order — mirroring the external
// collaborator boundary spec §1 draws around the registry/element layer.
type Builder interface {
	// Instantiate calls the factory's constructor and wires up its pads
	// (at minimum, its Always sink pad) via element.NewPad/AddPad.
	Instantiate(f *registry.Factory) (element.Element, error)

	// SinkPad returns e's single sink pad, or an error if it has none or
	// more than one (only single-sink-pad factories are auto-pluggable per
	// spec §4.B).
	SinkPad(e element.Element) (*element.Pad, error)

	// TransitionReady attempts Null/Paused -> Ready on e, returning an
	// error if the element rejects the transition.
	TransitionReady(e element.Element) error

	// TransitionPaused attempts Ready -> Paused under the sink pad's
	// stream lock (spec §4.B step 10e). Implementations that don't model a
	// per-pad stream lock may simply call e.SetState directly.
	TransitionPaused(e element.Element) error

	// AcceptsCaps runs an accept-caps query against sinkPad once e is
	// Ready (spec §4.B step 10d).
	AcceptsCaps(sinkPad *element.Pad, c caps.Caps) bool

	// Teardown unlinks and discards e after a failed negotiation attempt.
	Teardown(e element.Element)

	// ConfigureProperties sets connection-speed/subtitle-encoding style
	// properties on e if the factory exposes them (spec §4.B step 10e).
	ConfigureProperties(e element.Element, connectionSpeed uint64, subtitleEncoding string)
}
