package autoplug

import (
	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
)

// Hooks bundles the five policy callbacks spec §4.B names
// (autoplug-continue, autoplug-factories, autoplug-sort, autoplug-select,
// autoplug-query). Any nil field falls back to the engine's default
// implementation.
type Hooks struct {
	// Continue decides whether fixed caps should still be auto-plugged
	// further, spec §4.B step 5.
	Continue func(pad *element.Pad, c caps.Caps) bool

	// Factories returns candidate handler factories for caps, already
	// filtered; nil return means "defer to Expose", spec §4.B step 6.
	Factories func(pad *element.Pad, c caps.Caps) []*registry.Factory

	// Sort lets a caller reorder the candidate list, spec §4.B step 8.
	Sort func(pad *element.Pad, c caps.Caps, factories []*registry.Factory) []*registry.Factory

	// Select lets a caller veto/force a specific factory, spec §4.B step 10c.
	Select func(pad *element.Pad, c caps.Caps, f *registry.Factory) SelectAction

	// Query answers an autoplug-query message a probed element emits while
	// being tested. The engine never calls Query, and it has no default.
	Query func(pad *element.Pad, queryType string) (handled bool, result any)
}

func (h Hooks) continueOrDefault(pad *element.Pad, c caps.Caps) bool {
	if h.Continue != nil {
		return h.Continue(pad, c)
	}
	return true
}

func (h Hooks) factoriesOrDefault(reg registry.Registry, pad *element.Pad, c caps.Caps) []*registry.Factory {
	if h.Factories != nil {
		return h.Factories(pad, c)
	}
	return reg.Lookup(c)
}

func (h Hooks) sortOrDefault(pad *element.Pad, c caps.Caps, fs []*registry.Factory) []*registry.Factory {
	if h.Sort != nil {
		return h.Sort(pad, c, fs)
	}
	return fs
}

func (h Hooks) selectOrDefault(pad *element.Pad, c caps.Caps, f *registry.Factory) SelectAction {
	if h.Select != nil {
		return h.Select(pad, c, f)
	}
	return SelectTry
}
