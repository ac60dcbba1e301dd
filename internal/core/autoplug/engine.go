package autoplug

import (
	"log/slog"

	"github.com/alxayo/go-decodebin/internal/core/caps"
	"github.com/alxayo/go-decodebin/internal/core/chain"
	"github.com/alxayo/go-decodebin/internal/core/element"
	"github.com/alxayo/go-decodebin/internal/core/registry"
	coreerrors "github.com/alxayo/go-decodebin/internal/errors"
	"github.com/alxayo/go-decodebin/internal/logger"
)

// Config holds the user-settable properties spec §4.A/§4.B name:
// stop caps ("final caps"), whether streams that cannot reach the stop set
// are kept (true) or discarded (false; steps 6-7 of AnalyzePad), and the
// negotiation properties forwarded to newly instantiated elements.
type Config struct {
	StopCaps         caps.Caps
	ExposeAllStreams bool
	ConnectionSpeed  uint64
	SubtitleEncoding string
}

func (c *Config) applyDefaults() {
	if c.StopCaps.IsEmpty() && !c.StopCaps.IsAny() {
		c.StopCaps = caps.New("video/x-raw", nil)
	}
}

// Engine implements spec §4.B's analyze_pad/connect_pad/connect_element.
type Engine struct {
	Registry registry.Registry
	Arena    *chain.Arena
	Builder  Builder
	Hooks    Hooks
	Config   Config
	Log      *slog.Logger
}

func NewEngine(reg registry.Registry, arena *chain.Arena, builder Builder, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{Registry: reg, Arena: arena, Builder: builder, Config: cfg, Log: logger.Logger()}
}

// AnalyzePad is spec §4.B's entry point. sourceElement is the element that
// owns newPad; node is the chain newPad logically belongs to before group
// redirection is considered.
func (e *Engine) AnalyzePad(sourceElement element.Element, newPad *element.Pad, c caps.Caps, node *chain.ChainNode) (Outcome, error) {
	log := logger.WithChain(e.Log, node.ID().String())

	// Step 1: consistency.
	if last := node.LastElement(); last != nil {
		if last.Element != sourceElement && last.CapsFilter != sourceElement {
			log.Warn("spurious pad from non-tail element", "pad", newPad.Name())
			node.MarkDeadend(c)
			return OutcomeDiscarded, nil
		}
	}

	// Step 2: demuxer redirection into a child chain inside the current group.
	if node.IsDemuxer() {
		gid, ok := e.Arena.SelectCurrentGroup(node)
		if !ok {
			log.Warn("ignoring demuxer pad: active group overran without no_more_pads", "pad", newPad.Name())
			return OutcomeDiscarded, nil
		}
		g := e.Arena.Group(gid)
		child := e.Arena.NewChain(gid, newPad)
		g.AddChild(child.ID())
		node = child
	}

	// Step 3: empty caps.
	if c.IsEmpty() {
		node.MarkDeadend(c)
		log.Info("pad produced no caps", "pad", newPad.Name())
		return OutcomeUnknown, nil
	}

	// Step 4: non-fixed (any) caps.
	if c.IsAny() {
		return OutcomeNonFixedDelay, nil
	}

	// Step 5: autoplug-continue policy + stop-caps subset check.
	if !e.Hooks.continueOrDefault(newPad, c) || c.IsSubset(e.Config.StopCaps) {
		node.SetEndPad(newPad, c)
		return OutcomeExpose, nil
	}

	// Step 6: candidate factories.
	factories := e.Hooks.factoriesOrDefault(e.Registry, newPad, c)
	if factories == nil {
		node.SetEndPad(newPad, c)
		return OutcomeExpose, nil
	}
	if len(factories) == 0 {
		if !e.Config.ExposeAllStreams && c.IsRaw() {
			node.MarkDeadend(c)
			return OutcomeDiscarded, nil
		}
		node.MarkDeadend(c)
		return OutcomeUnknown, nil
	}

	// Step 7: early-skip filter.
	if !e.Config.ExposeAllStreams {
		for _, f := range factories {
			for _, t := range f.SourceTemplates() {
				if t.Caps.CanIntersect(e.Config.StopCaps) && !t.Caps.IsSubset(e.Config.StopCaps) {
					node.MarkDeadend(c)
					return OutcomeDiscarded, nil
				}
			}
		}
	}

	// Step 8: sort hook.
	factories = e.Hooks.sortOrDefault(newPad, c, factories)

	// Step 9: parser+converter caps-filter insertion.
	effectiveCaps := c
	if last := node.LastElement(); last != nil && last.Factory != nil &&
		last.Factory.IsParser() && last.Factory.IsConverter() {
		union := caps.Empty()
		for _, f := range factories {
			for _, t := range f.SinkTemplates() {
				if union.IsEmpty() {
					union = t.Caps.Intersect(c)
				} else {
					union = union.Intersect(t.Caps.Intersect(c))
				}
			}
		}
		if union.IsEmpty() {
			union = c
		}
		effectiveCaps = union
		if !effectiveCaps.IsFixed() && !effectiveCaps.IsAny() {
			return OutcomeNonFixedDelay, nil
		}
	}

	// Step 10: connect loop.
	outcome, err := e.connectPad(sourceElement, newPad, effectiveCaps, node, factories)
	if err != nil {
		return OutcomeUnknown, err
	}
	return outcome, nil
}

// connectPad is spec §4.B's connect_pad: try each candidate factory in
// order until one negotiates successfully.
func (e *Engine) connectPad(source element.Element, pad *element.Pad, c caps.Caps, node *chain.ChainNode, factories []*registry.Factory) (Outcome, error) {
	log := logger.WithChain(e.Log, node.ID().String())

	for _, f := range factories {
		if c.IsFixed() {
			fits := false
			for _, t := range f.SinkTemplates() {
				if c.IsSubset(t.Caps) {
					fits = true
					break
				}
			}
			if !fits {
				continue
			}
		}

		if f.IsParser() && node.HasTriedFactory(f.Name) {
			continue
		}

		switch e.Hooks.selectOrDefault(pad, c, f) {
		case SelectExpose:
			node.SetEndPad(pad, c)
			return OutcomeExpose, nil
		case SelectSkip:
			continue
		}

		newElem, err := e.Builder.Instantiate(f)
		if err != nil {
			node.MarkFactoryTried(f.Name)
			continue
		}

		sink, err := e.Builder.SinkPad(newElem)
		if err != nil {
			e.Builder.Teardown(newElem)
			node.MarkFactoryTried(f.Name)
			continue
		}
		if err := pad.Link(sink); err != nil {
			e.Builder.Teardown(newElem)
			node.MarkFactoryTried(f.Name)
			continue
		}

		if err := e.Builder.TransitionReady(newElem); err != nil || !e.Builder.AcceptsCaps(sink, c) {
			pad.Unlink()
			e.Builder.Teardown(newElem)
			node.MarkFactoryTried(f.Name)
			log.Debug("candidate rejected", "factory", f.Name)
			continue
		}

		node.AppendElement(chain.InsertedElement{Element: newElem, Factory: f})
		e.Builder.ConfigureProperties(newElem, e.Config.ConnectionSpeed, e.Config.SubtitleEncoding)
		if err := e.Builder.TransitionPaused(newElem); err != nil {
			return OutcomeUnknown, coreerrors.NewNegotiationFailedError("autoplug.connectPad", err)
		}

		if err := e.connectElement(newElem, node); err != nil {
			return OutcomeUnknown, err
		}
		return OutcomeRecursed, nil
	}

	node.MarkDeadend(c)
	return OutcomeUnknown, nil
}

// connectElement is spec §4.B's connect_element: it runs AnalyzePad on every
// source pad the element already has. Source pads an element adds later
// (Sometimes templates) are not subscribed to and are never analyzed here.
func (e *Engine) connectElement(elem element.Element, node *chain.ChainNode) error {
	pads := elem.Pads()
	byName := make(map[string]*element.Pad, len(pads))
	for _, p := range pads {
		byName[p.Name()] = p
	}

	for _, p := range pads {
		if p.Direction() != registry.DirSource {
			continue
		}
		outcome, err := e.AnalyzePad(elem, p, p.CurrentCaps(), node)
		if err != nil {
			return err
		}
		_ = outcome
	}
	return nil
}
