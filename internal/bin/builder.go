package bin

import (
	"fmt"
	"sync"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

// DefaultBuilder is a ready-to-use autoplug.Builder for elements whose
// factory.New returns something implementing element.Element directly
// (BaseElement-embedding types like the ones in internal/core/source).
// Hosts with a richer plugin model supply their own Builder.
type DefaultBuilder struct {
	mu        sync.Mutex
	factoryOf map[element.Element]*registry.Factory
}

// NewDefaultBuilder returns an empty DefaultBuilder.
func NewDefaultBuilder() *DefaultBuilder {
	return &DefaultBuilder{factoryOf: make(map[element.Element]*registry.Factory)}
}

func (b *DefaultBuilder) Instantiate(f *registry.Factory) (element.Element, error) {
	if f.New == nil {
		return nil, fmt.Errorf("bin: factory %s has no constructor", f.Name)
	}
	v := f.New()
	e, ok := v.(element.Element)
	if !ok {
		return nil, fmt.Errorf("bin: factory %s did not return an element.Element", f.Name)
	}
	for _, t := range f.PadTemplates {
		if t.Direction == registry.DirSink && t.Presence == registry.PresenceAlways {
			if !hasPadNamed(e, t.Name) {
				e.AddPad(element.NewPad(t.Name, registry.DirSink, e))
			}
		}
	}
	b.mu.Lock()
	b.factoryOf[e] = f
	b.mu.Unlock()
	return e, nil
}

func hasPadNamed(e element.Element, name string) bool {
	for _, p := range e.Pads() {
		if p.Name() == name {
			return true
		}
	}
	return false
}

func (b *DefaultBuilder) SinkPad(e element.Element) (*element.Pad, error) {
	var sinks []*element.Pad
	for _, p := range e.Pads() {
		if p.Direction() == registry.DirSink {
			sinks = append(sinks, p)
		}
	}
	if len(sinks) != 1 {
		return nil, fmt.Errorf("bin: element %s has %d sink pads, want 1", e.Name(), len(sinks))
	}
	return sinks[0], nil
}

func (b *DefaultBuilder) TransitionReady(e element.Element) error {
	return e.SetState(element.StateReady)
}

func (b *DefaultBuilder) TransitionPaused(e element.Element) error {
	return e.SetState(element.StatePaused)
}

// AcceptsCaps checks c against the sink template caps the element was
// instantiated with, since a freshly built sink pad has no sticky caps of
// its own yet (spec §4.B step 10d's accept-caps query).
func (b *DefaultBuilder) AcceptsCaps(sinkPad *element.Pad, c caps.Caps) bool {
	b.mu.Lock()
	f := b.factoryOf[sinkPad.Owner()]
	b.mu.Unlock()
	if f == nil {
		return true
	}
	for _, t := range f.SinkTemplates() {
		if t.Name == sinkPad.Name() {
			return t.Caps.CanIntersect(c)
		}
	}
	return true
}

func (b *DefaultBuilder) Teardown(e element.Element) {
	_ = e.SetState(element.StateNull)
	b.mu.Lock()
	delete(b.factoryOf, e)
	b.mu.Unlock()
}

func (b *DefaultBuilder) ConfigureProperties(e element.Element, connectionSpeed uint64, subtitleEncoding string) {
	type speedSetter interface{ SetConnectionSpeed(uint64) }
	type encodingSetter interface{ SetSubtitleEncoding(string) }
	if s, ok := e.(speedSetter); ok {
		s.SetConnectionSpeed(connectionSpeed)
	}
	if s, ok := e.(encodingSetter); ok {
		s.SetSubtitleEncoding(subtitleEncoding)
	}
}
